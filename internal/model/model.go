package model

import "time"

// RawPost is a post record as authored in the feed, before any derived fields exist.
type RawPost struct {
	Title          string   `json:"title" yaml:"title"`
	Date           string   `json:"date" yaml:"date"`
	Topic          string   `json:"topic" yaml:"topic"`
	Content        string   `json:"content" yaml:"content"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	SEODescription string   `json:"seo_description,omitempty" yaml:"seo_description,omitempty"`
	SEOKeywords    []string `json:"seo_keywords,omitempty" yaml:"seo_keywords,omitempty"`
	Image          string   `json:"image,omitempty" yaml:"image,omitempty"`
}

// Post is a normalized post. Values are never mutated after normalization;
// listings only filter and reorder copies.
type Post struct {
	RawPost

	// Slug is the lookup key of the detail view, derived from title and date.
	Slug      string    `json:"slug"`
	TopicSlug string    `json:"topic_slug"`
	Published time.Time `json:"published"`
}

// HasDate reports whether the post's date string parsed into a usable timestamp.
func (p Post) HasDate() bool {
	return !p.Published.IsZero()
}

// Topic is one entry of the topic filter, derived from the distinct topics of a collection.
type Topic struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
