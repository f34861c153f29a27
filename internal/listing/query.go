package listing

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// SortMode selects the ordering of a listing.
type SortMode string

const (
	SortNew SortMode = "new"
	SortOld SortMode = "old"
	SortAZ  SortMode = "az"
	SortZA  SortMode = "za"
)

// TopicAll is the topic filter value that keeps every post.
const TopicAll = "all"

// SortModes lists the recognized modes in display order.
var SortModes = []SortMode{SortNew, SortOld, SortAZ, SortZA}

// Valid reports whether m is one of the recognized modes.
func (m SortMode) Valid() bool {
	switch m {
	case SortNew, SortOld, SortAZ, SortZA:
		return true
	}
	return false
}

// Label is the human-readable name of the mode.
func (m SortMode) Label() string {
	switch m {
	case SortOld:
		return "Oldest"
	case SortAZ:
		return "A–Z"
	case SortZA:
		return "Z–A"
	default:
		return "Newest"
	}
}

// Query is the (topic, sort, page) state driving a list view. It is rebuilt
// from the navigation URL on every load.
type Query struct {
	Topic string
	Sort  SortMode
	Page  int
}

// DefaultQuery returns the query used when the URL carries no parameters.
func DefaultQuery() Query {
	return Query{Topic: TopicAll, Sort: SortNew, Page: 1}
}

// ParseQuery reads topic, sort and page from URL parameters on top of the
// defaults. Unknown sort modes and non-positive pages are ignored.
func ParseQuery(v url.Values) Query {
	q := DefaultQuery()

	if topic := strings.ToLower(strings.TrimSpace(v.Get("topic"))); topic != "" {
		q.Topic = topic
	}
	if mode := SortMode(strings.ToLower(strings.TrimSpace(v.Get("sort")))); mode.Valid() {
		q.Sort = mode
	}
	if page, ok := leadingInt(v.Get("page")); ok && page > 0 {
		q.Page = page
	}
	return q
}

var leadingDigits = regexp.MustCompile(`^[+-]?[0-9]+`)

// leadingInt reads the integer prefix of s, so "2abc" and "2.5" are page 2.
func leadingInt(s string) (int, bool) {
	m := leadingDigits.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Values encodes the query back into URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("topic", q.Topic)
	v.Set("sort", string(q.Sort))
	v.Set("page", strconv.Itoa(q.Page))
	return v
}

// WithTopic selects a topic filter and returns to the first page.
func (q Query) WithTopic(topic string) Query {
	q.Topic = topic
	q.Page = 1
	return q
}

// WithSort changes the sort mode and returns to the first page. Unknown modes
// leave the query unchanged.
func (q Query) WithSort(mode SortMode) Query {
	if !mode.Valid() {
		return q
	}
	q.Sort = mode
	q.Page = 1
	return q
}

// WithPage returns the query pointed at page n.
func (q Query) WithPage(n int) Query {
	q.Page = n
	return q
}

// Prev moves one page back. The first page is a floor.
func (q Query) Prev() Query {
	if q.Page > 1 {
		q.Page--
	}
	return q
}

// Next moves one page forward unless totalPages is already reached.
func (q Query) Next(totalPages int) Query {
	if q.Page < totalPages {
		q.Page++
	}
	return q
}
