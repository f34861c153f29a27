// Package store normalizes raw feed records into posts and holds the
// read-only collection a page view works from.
package store

import (
	"sort"
	"strings"
	"time"

	"github.com/BeepBeep84/blog/internal/model"
	"github.com/BeepBeep84/blog/internal/slug"
)

// dateFormats are tried in order; the first successful parse wins.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// Skipped describes a raw record left out of the collection because a
// required field was blank.
type Skipped struct {
	Index   int
	Title   string
	Missing []string
}

// Collection is a normalized set of posts together with its derived topics.
// It is built once per load and never mutated afterwards.
type Collection struct {
	posts   []model.Post
	topics  []model.Topic
	skipped []Skipped
}

// New normalizes raws and derives the topic list.
func New(raws []model.RawPost) *Collection {
	posts, skipped := Normalize(raws)
	return &Collection{
		posts:   posts,
		topics:  DistinctTopics(posts),
		skipped: skipped,
	}
}

// Posts returns the posts in feed order. Callers must not modify the slice.
func (c *Collection) Posts() []model.Post { return c.posts }

// Topics returns the distinct topics sorted case-insensitively by name.
func (c *Collection) Topics() []model.Topic { return c.topics }

// Skipped returns the records dropped during normalization.
func (c *Collection) Skipped() []Skipped { return c.skipped }

// Len returns the number of posts.
func (c *Collection) Len() int { return len(c.posts) }

// Find returns the first post whose slug equals s.
func (c *Collection) Find(s string) (model.Post, bool) {
	for _, p := range c.posts {
		if p.Slug == s {
			return p, true
		}
	}
	return model.Post{}, false
}

// Normalize derives slug, topic slug and parsed date for every raw record.
// Records missing a required field are skipped and reported, the rest keep
// their feed order.
func Normalize(raws []model.RawPost) ([]model.Post, []Skipped) {
	posts := make([]model.Post, 0, len(raws))
	var skipped []Skipped

	for i, raw := range raws {
		if missing := missingFields(raw); len(missing) > 0 {
			skipped = append(skipped, Skipped{Index: i, Title: raw.Title, Missing: missing})
			continue
		}
		posts = append(posts, model.Post{
			RawPost:   raw,
			Slug:      slug.Make(raw.Title + "-" + raw.Date),
			TopicSlug: slug.Make(raw.Topic),
			Published: ParseDate(raw.Date),
		})
	}
	return posts, skipped
}

func missingFields(raw model.RawPost) []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"title", raw.Title},
		{"date", raw.Date},
		{"topic", raw.Topic},
		{"content", raw.Content},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// ParseDate parses a feed date. Unparseable input yields the zero time, which
// marks the post as undated instead of failing the load.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DistinctTopics returns one Topic per distinct topic name, sorted
// case-insensitively. Names differing only in case stay separate entries.
func DistinctTopics(posts []model.Post) []model.Topic {
	seen := make(map[string]struct{}, len(posts))
	var names []string
	for _, p := range posts {
		if _, ok := seen[p.Topic]; ok {
			continue
		}
		seen[p.Topic] = struct{}{}
		names = append(names, p.Topic)
	}

	sort.Slice(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})

	topics := make([]model.Topic, 0, len(names))
	for _, name := range names {
		topics = append(topics, model.Topic{Name: name, Slug: slug.Make(name)})
	}
	return topics
}
