// Package slug derives the URL identifiers used for posts and topics.
//
// Slugs are public: they appear in shared links, so the algorithm must stay
// stable. Only ASCII letters, digits, whitespace and hyphens survive; accented
// letters are dropped rather than transliterated.
package slug

import (
	"regexp"
	"strings"
)

// space is the whitespace class of slugs. RE2's \s is ASCII only, so the
// vertical tab and the Unicode space separators are listed explicitly.
const space = `\s\v\x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}`

var (
	disallowed = regexp.MustCompile(`[^a-z0-9` + space + `-]`)
	edgeSpace  = regexp.MustCompile(`^[` + space + `]+|[` + space + `]+$`)
	spaceRun   = regexp.MustCompile(`[` + space + `]+`)
	hyphenRun  = regexp.MustCompile(`-+`)
)

// Make converts s into a lowercase, hyphen-separated slug.
//
//	Make("Hello, World!")          // "hello-world"
//	Make("Go  Tips - 2024-03-01")  // "go-tips-2024-03-01"
func Make(s string) string {
	s = strings.ToLower(s)
	s = disallowed.ReplaceAllString(s, "")
	s = edgeSpace.ReplaceAllString(s, "")
	s = spaceRun.ReplaceAllString(s, "-")
	return hyphenRun.ReplaceAllString(s, "-")
}
