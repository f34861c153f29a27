package markdown

import (
	"bytes"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Goldmark renders with the goldmark engine: GFM extensions, heading IDs and
// hard line breaks. Raw HTML is passed through like the builtin engine does.
type Goldmark struct {
	md       goldmark.Markdown
	fallback *Builtin
}

// NewGoldmark returns a goldmark-backed renderer. The instance is safe for
// concurrent use.
func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
				gmhtml.WithUnsafe(),
			),
		),
		fallback: NewBuiltin(),
	}
}

// Render converts md to HTML. If goldmark fails the builtin engine's output
// is returned instead.
func (g *Goldmark) Render(md string) string {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(md), &buf); err != nil {
		log.Warn().Err(err).Str("component", "markdown").Msg("goldmark conversion failed, using builtin renderer")
		return g.fallback.Render(md)
	}
	return buf.String()
}
