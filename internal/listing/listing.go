// Package listing filters, sorts and paginates a post collection for the
// list view.
package listing

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/BeepBeep84/blog/internal/model"
)

// PageSize is the number of posts shown per list page.
const PageSize = 10

// Result is one page of a listing.
type Result struct {
	Items       []model.Post `json:"items"`
	CurrentPage int          `json:"current_page"`
	TotalPages  int          `json:"total_pages"`
	Total       int          `json:"total"`
}

// HasPrev reports whether a previous page exists.
func (r Result) HasPrev() bool { return r.CurrentPage > 1 }

// HasNext reports whether a following page exists.
func (r Result) HasNext() bool { return r.CurrentPage < r.TotalPages }

// Pipeline runs queries against a post slice. Title sorts compare with the
// collation rules of Collation.
type Pipeline struct {
	Collation language.Tag
}

// New returns a pipeline collating titles for tag.
func New(tag language.Tag) *Pipeline {
	return &Pipeline{Collation: tag}
}

// Run returns the page of posts selected by q. An out-of-range page yields an
// empty Items slice, never an error; clamping is left to the caller.
func (p *Pipeline) Run(posts []model.Post, q Query) Result {
	filtered := Filter(posts, q.Topic)
	p.sort(filtered, q.Sort)

	page := q.Page
	if page < 1 {
		page = 1
	}

	return Result{
		Items:       paginate(filtered, page),
		CurrentPage: page,
		TotalPages:  TotalPages(len(filtered)),
		Total:       len(filtered),
	}
}

// Filter returns a copy of posts restricted to topic. TopicAll keeps everything.
func Filter(posts []model.Post, topic string) []model.Post {
	if topic == TopicAll {
		return slices.Clone(posts)
	}
	out := make([]model.Post, 0, len(posts))
	for _, post := range posts {
		if post.TopicSlug == topic {
			out = append(out, post)
		}
	}
	return out
}

// TotalPages returns the page count for n posts, at least one.
func TotalPages(n int) int {
	pages := (n + PageSize - 1) / PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

func paginate(posts []model.Post, page int) []model.Post {
	start := (page - 1) * PageSize
	if start >= len(posts) {
		return []model.Post{}
	}
	end := min(start+PageSize, len(posts))
	return posts[start:end]
}

// sort orders posts in place. The sort is stable so equal keys keep feed order.
func (p *Pipeline) sort(posts []model.Post, mode SortMode) {
	switch mode {
	case SortOld:
		slices.SortStableFunc(posts, func(a, b model.Post) int {
			return compareDates(a, b, false)
		})
	case SortAZ, SortZA:
		// collate.Collator keeps scratch buffers, one per call.
		c := collate.New(p.Collation)
		sign := 1
		if mode == SortZA {
			sign = -1
		}
		slices.SortStableFunc(posts, func(a, b model.Post) int {
			return sign * c.CompareString(a.Title, b.Title)
		})
	default:
		slices.SortStableFunc(posts, func(a, b model.Post) int {
			return compareDates(a, b, true)
		})
	}
}

// compareDates orders dated posts by time; undated posts go last either way.
func compareDates(a, b model.Post, newestFirst bool) int {
	switch {
	case !a.HasDate() && !b.HasDate():
		return 0
	case !a.HasDate():
		return 1
	case !b.HasDate():
		return -1
	}
	if newestFirst {
		return b.Published.Compare(a.Published)
	}
	return a.Published.Compare(b.Published)
}
