// Package seo builds the metadata a post page exposes to search engines and
// link previews: description/keywords meta tags, Open Graph and Twitter card
// properties, and a schema.org BlogPosting document.
package seo

import (
	"encoding/json"
	"strings"

	"github.com/BeepBeep84/blog/internal/model"
)

// Tag is one <meta> element: Attr is "name" or "property".
type Tag struct {
	Attr    string `json:"attr"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Meta is the SEO view of a single post.
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	Image       string `json:"image"`
	URL         string `json:"url"`
	Topic       string `json:"topic"`
	Published   string `json:"published"`
}

// Build derives the metadata for p served at canonicalURL.
func Build(p model.Post, canonicalURL string) Meta {
	return Meta{
		Title:       p.Title,
		Description: p.SEODescription,
		Keywords:    strings.Join(p.SEOKeywords, ", "),
		Image:       p.Image,
		URL:         canonicalURL,
		Topic:       p.Topic,
		Published:   p.Date,
	}
}

// Tags returns the meta elements in a stable order.
func (m Meta) Tags() []Tag {
	return []Tag{
		{"name", "description", m.Description},
		{"name", "keywords", m.Keywords},
		{"property", "og:title", m.Title},
		{"property", "og:description", m.Description},
		{"property", "og:image", m.Image},
		{"property", "og:url", m.URL},
		{"name", "twitter:title", m.Title},
		{"name", "twitter:description", m.Description},
		{"name", "twitter:image", m.Image},
	}
}

type blogPosting struct {
	Context          string `json:"@context"`
	Type             string `json:"@type"`
	Headline         string `json:"headline"`
	DatePublished    string `json:"datePublished"`
	Image            string `json:"image,omitempty"`
	ArticleSection   string `json:"articleSection"`
	Description      string `json:"description"`
	Keywords         string `json:"keywords"`
	MainEntityOfPage string `json:"mainEntityOfPage"`
}

// JSONLD returns the schema.org BlogPosting document for the post.
func (m Meta) JSONLD() (string, error) {
	data, err := json.Marshal(blogPosting{
		Context:          "https://schema.org",
		Type:             "BlogPosting",
		Headline:         m.Title,
		DatePublished:    m.Published,
		Image:            m.Image,
		ArticleSection:   m.Topic,
		Description:      m.Description,
		Keywords:         m.Keywords,
		MainEntityOfPage: m.URL,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
