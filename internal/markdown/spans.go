package markdown

import (
	"regexp"
	"strings"
)

// spanKind names an inline construct that both the renderer and the excerpt
// builder recognise. Keeping the patterns in one table means the two cannot
// disagree about where a code span or link starts and ends.
type spanKind int

const (
	spanFence spanKind = iota // ```...```, may cross lines
	spanCode                  // `...` without an embedded backtick
	spanImage                 // ![alt](src)
	spanLink                  // [text](href)
)

var spanPatterns = [...]*regexp.Regexp{
	spanFence: regexp.MustCompile("(?s)```(.*?)```"),
	spanCode:  regexp.MustCompile("`([^`]+)`"),
	spanImage: regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`),
	spanLink:  regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`),
}

// rewriteSpans replaces every occurrence of kind in s with fn(groups), where
// groups[0] is the whole match followed by the capture groups.
func rewriteSpans(s string, kind spanKind, fn func(groups []string) string) string {
	re := spanPatterns[kind]
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		groups := make([]string, len(m)/2)
		for i := range groups {
			if m[2*i] >= 0 {
				groups[i] = s[m[2*i]:m[2*i+1]]
			}
		}
		b.WriteString(fn(groups))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// escapeHTML escapes text for element content and quoted attribute values.
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
