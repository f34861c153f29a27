package markdown

import (
	"regexp"
	"strings"
)

var (
	markerRun = regexp.MustCompile(`[#>*_~\-]+`)
	// emptyCode catches the `` spans the shared code pattern leaves behind.
	emptyCode = regexp.MustCompile("`[^`]*`")
	spaceRun  = regexp.MustCompile(`\s+`)
)

// Ellipsis is appended to truncated excerpts.
const Ellipsis = "…"

// Excerpt returns a plain-text preview of md of at most maxLen characters.
// Code and images are dropped, links keep their visible text, and the
// remaining markdown punctuation is blanked out. Longer text is cut to
// maxLen-1 characters followed by Ellipsis. A non-positive maxLen yields "".
func Excerpt(md string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	blank := func([]string) string { return " " }
	text := rewriteSpans(md, spanFence, blank)
	text = rewriteSpans(text, spanCode, blank)
	text = emptyCode.ReplaceAllString(text, " ")
	text = rewriteSpans(text, spanImage, blank)
	text = rewriteSpans(text, spanLink, func(g []string) string { return g[1] })
	text = markerRun.ReplaceAllString(text, " ")
	text = spaceRun.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-1]) + Ellipsis
}
