package site

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/BeepBeep84/blog/internal/listing"
)

// Links builds the URLs pages point at. The dynamic server keeps state in
// query parameters; the static build encodes it in paths.
type Links interface {
	List(q listing.Query) string
	Post(slug string) string
	// Reader is the reader-mode toggle endpoint, empty when unsupported.
	Reader() string
}

// QueryLinks addresses views the way the server routes them:
// /?topic=&sort=&page= and /post?slug=.
type QueryLinks struct {
	Prefix string
}

func (l QueryLinks) List(q listing.Query) string {
	return l.prefix() + "/?" + q.Values().Encode()
}

func (l QueryLinks) Post(slug string) string {
	return l.prefix() + "/post?" + url.Values{"slug": {slug}}.Encode()
}

func (l QueryLinks) Reader() string {
	return l.prefix() + "/reader"
}

func (l QueryLinks) prefix() string {
	return strings.TrimSuffix(l.Prefix, "/")
}

// PathLinks addresses the files written by the static build:
// /list/{topic}/{sort}/{page}/ and /post/{slug}/.
type PathLinks struct {
	Prefix string
}

func (l PathLinks) List(q listing.Query) string {
	return strings.TrimSuffix(l.Prefix, "/") + "/" + ListPath(q) + "/"
}

func (l PathLinks) Post(slug string) string {
	return strings.TrimSuffix(l.Prefix, "/") + "/" + PostPath(slug) + "/"
}

func (l PathLinks) Reader() string { return "" }

// ListPath is the output directory of a list page relative to the site root.
func ListPath(q listing.Query) string {
	return "list/" + url.PathEscape(q.Topic) + "/" + string(q.Sort) + "/" + strconv.Itoa(q.Page)
}

// PostPath is the output directory of a post page relative to the site root.
func PostPath(slug string) string {
	return "post/" + url.PathEscape(slug)
}
