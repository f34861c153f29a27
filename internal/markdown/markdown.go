// Package markdown turns post bodies into HTML and plain-text previews.
//
// Two engines are available. Builtin is a small, fixed rule set that covers
// headings, emphasis, code, images, links, flat lists and paragraphs. Goldmark
// is a full CommonMark/GFM engine for feeds that need more.
//
// Neither engine escapes raw HTML written into a post outside code spans.
// Posts are authored by the site operator, not by visitors, so a post may
// embed markup on purpose.
package markdown

import "fmt"

// Renderer converts a markdown body into an HTML fragment.
type Renderer interface {
	Render(md string) string
}

const (
	EngineBuiltin  = "builtin"
	EngineGoldmark = "goldmark"
)

// New returns the renderer registered under engine. An empty name selects
// the builtin engine.
func New(engine string) (Renderer, error) {
	switch engine {
	case "", EngineBuiltin:
		return NewBuiltin(), nil
	case EngineGoldmark:
		return NewGoldmark(), nil
	default:
		return nil, fmt.Errorf("unknown markdown engine %q", engine)
	}
}
