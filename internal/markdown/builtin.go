package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// Placeholder kinds. A held fragment is swapped out of the text as
// "\x00<kind><index>\x00" and swapped back after the last stage.
const (
	heldBlock  = 'B' // fenced code block
	heldCode   = 'C' // inline code
	heldImage  = 'G'
	heldTarget = 'H' // link href
)

var (
	placeholder = regexp.MustCompile(`\x00([A-Z])([0-9]+)\x00`)

	headings = [...]struct {
		re  *regexp.Regexp
		tag string
	}{
		{regexp.MustCompile(`(?m)^###### (.*)$`), "h6"},
		{regexp.MustCompile(`(?m)^##### (.*)$`), "h5"},
		{regexp.MustCompile(`(?m)^#### (.*)$`), "h4"},
		{regexp.MustCompile(`(?m)^### (.*)$`), "h3"},
		{regexp.MustCompile(`(?m)^## (.*)$`), "h2"},
		{regexp.MustCompile(`(?m)^# (.*)$`), "h1"},
	}

	// Single markers must hug their text so a "* " list bullet never opens
	// an emphasis span. Spans do not cross lines.
	emphasis = [...]struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`\*\*([^*\n]+)\*\*`), "<strong>$1</strong>"},
		{regexp.MustCompile(`\*([^*\s](?:[^*\n]*[^*\s])?)\*`), "<em>$1</em>"},
		{regexp.MustCompile(`__([^_\n]+)__`), "<strong>$1</strong>"},
		{regexp.MustCompile(`_([^_\s](?:[^_\n]*[^_\s])?)_`), "<em>$1</em>"},
	}

	listItem   = regexp.MustCompile(`^[*-] (.*)$`)
	blankLines = regexp.MustCompile(`\n(?:[ \t]*\n)+`)
	blockStart = regexp.MustCompile(`^(?:<(?:h[1-6]|ul|pre|blockquote|img)\b|<li>|\x00[BG])`)
)

// document is the intermediate form the stages rewrite in turn.
type document struct {
	text string
	held []string
}

// hold removes fragment from further rewriting and returns its placeholder.
func (d *document) hold(kind byte, fragment string) string {
	d.held = append(d.held, fragment)
	return "\x00" + string(kind) + strconv.Itoa(len(d.held)-1) + "\x00"
}

// release puts every held fragment back. An image alt may itself hold an
// inline code placeholder, so passes repeat until nothing is left.
func (d *document) release() {
	for pass := 0; pass <= len(d.held) && placeholder.MatchString(d.text); pass++ {
		d.text = placeholder.ReplaceAllStringFunc(d.text, func(m string) string {
			idx, err := strconv.Atoi(m[2 : len(m)-1])
			if err != nil || idx >= len(d.held) {
				return ""
			}
			return d.held[idx]
		})
	}
}

type stage struct {
	name  string
	apply func(*document)
}

// Builtin renders the fixed markdown subset. The stage order is part of the
// output contract: code is captured first, headings run deepest level first,
// strong runs before emphasis for each marker.
type Builtin struct {
	stages []stage
}

// NewBuiltin returns the builtin renderer.
func NewBuiltin() *Builtin {
	return &Builtin{stages: []stage{
		{"fenced-code", fencedCodeStage},
		{"inline-code", inlineCodeStage},
		{"images", imageStage},
		{"headings", headingStage},
		{"link-targets", linkTargetStage},
		{"emphasis", emphasisStage},
		{"links", linkStage},
		{"lists", listStage},
		{"paragraphs", paragraphStage},
	}}
}

// Stages returns the stage names in execution order.
func (b *Builtin) Stages() []string {
	names := make([]string, len(b.stages))
	for i, s := range b.stages {
		names[i] = s.name
	}
	return names
}

// Render converts md to HTML.
func (b *Builtin) Render(md string) string {
	doc := &document{text: normalizeInput(md)}
	for _, s := range b.stages {
		s.apply(doc)
	}
	doc.release()
	return doc.text
}

func normalizeInput(md string) string {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	return strings.ReplaceAll(md, "\x00", "")
}

func fencedCodeStage(d *document) {
	d.text = rewriteSpans(d.text, spanFence, func(g []string) string {
		return d.hold(heldBlock, "<pre><code>"+escapeHTML(strings.TrimSpace(g[1]))+"</code></pre>")
	})
}

func inlineCodeStage(d *document) {
	d.text = rewriteSpans(d.text, spanCode, func(g []string) string {
		return d.hold(heldCode, "<code>"+escapeHTML(g[1])+"</code>")
	})
}

func imageStage(d *document) {
	d.text = rewriteSpans(d.text, spanImage, func(g []string) string {
		return d.hold(heldImage, `<img class="inline-img" alt="`+escapeHTML(g[1])+`" src="`+escapeHTML(g[2])+`">`)
	})
}

func headingStage(d *document) {
	for _, h := range headings {
		d.text = h.re.ReplaceAllString(d.text, "<"+h.tag+">$1</"+h.tag+">")
	}
}

// linkTargetStage shields hrefs so underscores in URLs survive emphasis.
func linkTargetStage(d *document) {
	d.text = rewriteSpans(d.text, spanLink, func(g []string) string {
		return "[" + g[1] + "](" + d.hold(heldTarget, g[2]) + ")"
	})
}

func emphasisStage(d *document) {
	for _, e := range emphasis {
		d.text = e.re.ReplaceAllString(d.text, e.repl)
	}
}

func linkStage(d *document) {
	d.text = rewriteSpans(d.text, spanLink, func(g []string) string {
		return `<a href="` + g[2] + `" target="_blank" rel="noopener noreferrer">` + g[1] + `</a>`
	})
}

// listStage turns bullet lines into items and wraps each run of adjacent
// items in one list.
func listStage(d *document) {
	lines := strings.Split(d.text, "\n")
	items := make([]bool, len(lines))
	for i, line := range lines {
		if m := listItem.FindStringSubmatch(line); m != nil {
			lines[i] = "<li>" + m[1] + "</li>"
			items[i] = true
		}
	}
	for i := range lines {
		if !items[i] {
			continue
		}
		if i == 0 || !items[i-1] {
			lines[i] = "<ul>" + lines[i]
		}
		if i == len(lines)-1 || !items[i+1] {
			lines[i] += "</ul>"
		}
	}
	d.text = strings.Join(lines, "\n")
}

func paragraphStage(d *document) {
	blocks := blankLines.Split(d.text, -1)
	out := make([]string, 0, len(blocks))
	for _, block := range blocks {
		t := strings.TrimSpace(block)
		switch {
		case t == "":
			continue
		case blockStart.MatchString(t):
			out = append(out, t)
		default:
			out = append(out, "<p>"+strings.ReplaceAll(t, "\n", "<br>")+"</p>")
		}
	}
	d.text = strings.Join(out, "\n")
}
