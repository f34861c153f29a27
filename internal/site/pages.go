package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/BeepBeep84/blog/internal/listing"
	"github.com/BeepBeep84/blog/internal/markdown"
	"github.com/BeepBeep84/blog/internal/model"
	"github.com/BeepBeep84/blog/internal/seo"
	"github.com/BeepBeep84/blog/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	listDateFormat = "Jan 02, 2006"
	postDateFormat = "January 02, 2006"
)

// Messages shown instead of a page body.
const (
	MsgListLoadFailed = "Failed to load posts."
	MsgNoSlug         = "No post specified."
	MsgNotFound       = "Post not found."
	MsgPostLoadFailed = "Failed to load post."
)

// TopicChip is one entry of the topic filter.
type TopicChip struct {
	Name   string
	Slug   string
	URL    string
	Active bool
}

// SortOption is one entry of the sort control.
type SortOption struct {
	Label  string
	URL    string
	Active bool
}

// Card is a post as shown in the list view.
type Card struct {
	Title    string
	URL      string
	Date     string
	Topic    string
	TopicURL string
	Preview  string
	Image    string
}

// ListView is the data of a list page.
type ListView struct {
	model.PageData
	Topics     []TopicChip
	Sorts      []SortOption
	Cards      []Card
	Page       int
	TotalPages int
	PrevURL    string
	NextURL    string
}

// PostView is the data of a post page.
type PostView struct {
	model.PageData
	PostTitle string
	Date      string
	Topic     string
	TopicURL  string
	Image     string
	Body      template.HTML
	Meta      []seo.Tag
	JSONLD    template.JS
}

// MessageView is the data of an error or notice page.
type MessageView struct {
	model.PageData
	Message string
	HomeURL string
}

// Options configures Pages.
type Options struct {
	Markdown      markdown.Renderer
	Pipeline      *listing.Pipeline
	Links         Links
	ExcerptLength int
}

// Pages renders the site's views.
type Pages struct {
	opts      Options
	templates map[string]*template.Template
}

// NewPages parses the embedded layouts.
func NewPages(opts Options) (*Pages, error) {
	base, err := template.ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parse base layout: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, name := range []string{"list", "post", "message"} {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base layout: %w", err)
		}
		t, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s layout: %w", name, err)
		}
		templates[name] = t
	}
	return &Pages{opts: opts, templates: templates}, nil
}

// Links returns the URL scheme the pages use.
func (p *Pages) Links() Links { return p.opts.Links }

// ListView computes the list page for q.
func (p *Pages) ListView(c *store.Collection, q listing.Query, base model.PageData) (ListView, listing.Result) {
	res := p.opts.Pipeline.Run(c.Posts(), q)
	links := p.opts.Links

	view := ListView{
		PageData:   base,
		Page:       res.CurrentPage,
		TotalPages: res.TotalPages,
	}

	all := q.WithTopic(listing.TopicAll)
	view.Topics = append(view.Topics, TopicChip{Name: "All", Slug: listing.TopicAll, URL: links.List(all), Active: q.Topic == listing.TopicAll})
	for _, t := range c.Topics() {
		view.Topics = append(view.Topics, TopicChip{
			Name:   t.Name,
			Slug:   t.Slug,
			URL:    links.List(q.WithTopic(t.Slug)),
			Active: q.Topic == t.Slug,
		})
	}

	for _, mode := range listing.SortModes {
		view.Sorts = append(view.Sorts, SortOption{
			Label:  mode.Label(),
			URL:    links.List(q.WithSort(mode)),
			Active: q.Sort == mode,
		})
	}

	for _, post := range res.Items {
		view.Cards = append(view.Cards, Card{
			Title:    post.Title,
			URL:      links.Post(post.Slug),
			Date:     displayDate(post, listDateFormat),
			Topic:    post.Topic,
			TopicURL: links.List(q.WithTopic(post.TopicSlug)),
			Preview:  Preview(post, p.opts.ExcerptLength),
			Image:    post.Image,
		})
	}

	if res.HasPrev() {
		view.PrevURL = links.List(q.Prev())
	}
	if res.HasNext() {
		view.NextURL = links.List(q.Next(res.TotalPages))
	}
	return view, res
}

// RenderList writes the list page for q.
func (p *Pages) RenderList(w io.Writer, c *store.Collection, q listing.Query, base model.PageData) error {
	view, _ := p.ListView(c, q, base)
	return p.execute(w, "list", view)
}

// PostView computes the detail page of post. canonicalURL is the absolute
// address used in SEO metadata.
func (p *Pages) PostView(post model.Post, canonicalURL string, base model.PageData) (PostView, error) {
	meta := seo.Build(post, canonicalURL)
	ld, err := meta.JSONLD()
	if err != nil {
		return PostView{}, fmt.Errorf("build structured data: %w", err)
	}

	base.PageTitle = post.Title
	return PostView{
		PageData:  base,
		PostTitle: post.Title,
		Date:      displayDate(post, postDateFormat),
		Topic:     post.Topic,
		TopicURL:  p.opts.Links.List(listing.DefaultQuery().WithTopic(post.TopicSlug)),
		Image:     post.Image,
		Body:      template.HTML(p.opts.Markdown.Render(post.Content)),
		Meta:      meta.Tags(),
		JSONLD:    template.JS(ld),
	}, nil
}

// RenderPost writes the detail page of post.
func (p *Pages) RenderPost(w io.Writer, post model.Post, canonicalURL string, base model.PageData) error {
	view, err := p.PostView(post, canonicalURL, base)
	if err != nil {
		return err
	}
	return p.execute(w, "post", view)
}

// RenderMessage writes a page that only shows msg.
func (p *Pages) RenderMessage(w io.Writer, msg string, base model.PageData) error {
	base.PageTitle = msg
	return p.execute(w, "message", MessageView{
		PageData: base,
		Message:  msg,
		HomeURL:  p.opts.Links.List(listing.DefaultQuery()),
	})
}

func (p *Pages) execute(w io.Writer, name string, data any) error {
	t, ok := p.templates[name]
	if !ok {
		return fmt.Errorf("unknown layout %q", name)
	}
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("execute %s layout: %w", name, err)
	}
	return nil
}

// Preview picks the card text of a post: its description, else its SEO
// description, else an excerpt of the body.
func Preview(p model.Post, excerptLength int) string {
	if d := strings.TrimSpace(p.Description); d != "" {
		return d
	}
	if d := strings.TrimSpace(p.SEODescription); d != "" {
		return d
	}
	return markdown.Excerpt(p.Content, excerptLength)
}

// displayDate formats the post date, falling back to the raw feed value for
// dates that did not parse.
func displayDate(p model.Post, layout string) string {
	if !p.HasDate() {
		return p.Date
	}
	return p.Published.Format(layout)
}
