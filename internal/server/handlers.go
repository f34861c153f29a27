package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BeepBeep84/blog/internal/listing"
	"github.com/BeepBeep84/blog/internal/model"
	"github.com/BeepBeep84/blog/internal/preference"
	"github.com/BeepBeep84/blog/internal/seo"
	"github.com/BeepBeep84/blog/internal/site"
)

type handlers struct {
	library   *site.Library
	pages     *site.Pages
	pipeline  *listing.Pipeline
	links     site.Links
	responder Responder

	siteTitle     string
	baseURL       string
	excerptLength int
}

func (h handlers) pageData(w http.ResponseWriter, r *http.Request) model.PageData {
	reader := preference.ReaderMode{Store: newCookieStore(w, r)}
	return model.PageData{
		SiteTitle:  h.siteTitle,
		BaseURL:    strings.TrimSuffix(h.baseURL, "/"),
		ReaderMode: reader.Enabled(),
		ReaderURL:  h.links.Reader(),
		ReturnTo:   r.URL.RequestURI(),
		Year:       time.Now().Year(),
	}
}

func (h handlers) list(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r)

	c, err := h.library.Snapshot()
	if err != nil {
		h.responder.WriteHTMLError(w, err, site.MsgListLoadFailed, data)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	q := listing.ParseQuery(r.URL.Query())
	if err := h.pages.RenderList(w, c, q, data); err != nil {
		h.responder.logger.Error().Err(err).Msg("error rendering list page")
	}
}

func (h handlers) post(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r)

	slug := r.URL.Query().Get("slug")
	if strings.TrimSpace(slug) == "" {
		h.responder.WriteHTMLError(w, site.ErrNoSlug, site.MsgPostLoadFailed, data)
		return
	}

	c, err := h.library.Snapshot()
	if err != nil {
		h.responder.WriteHTMLError(w, err, site.MsgPostLoadFailed, data)
		return
	}
	p, err := site.Lookup(c, slug)
	if err != nil {
		h.responder.WriteHTMLError(w, err, site.MsgPostLoadFailed, data)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.pages.RenderPost(w, p, h.canonicalURL(r, p.Slug), data); err != nil {
		h.responder.logger.Error().Err(err).Str("slug", p.Slug).Msg("error rendering post page")
	}
}

// toggleReader flips reader mode and sends the visitor back where the form
// was submitted.
func (h handlers) toggleReader(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	reader := preference.ReaderMode{Store: newCookieStore(w, r)}
	enabled := reader.Toggle()
	h.responder.logger.Debug().Bool("readerMode", enabled).Msg("reader mode toggled")

	http.Redirect(w, r, localPath(r.PostFormValue("return")), http.StatusSeeOther)
}

type apiQuery struct {
	Topic string `json:"topic"`
	Sort  string `json:"sort"`
	Page  int    `json:"page"`
}

type apiPost struct {
	model.Post
	URL     string `json:"url"`
	Preview string `json:"preview"`
}

type apiListResponse struct {
	Query      apiQuery      `json:"query"`
	Items      []apiPost     `json:"items"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	Total      int           `json:"total"`
	Topics     []model.Topic `json:"topics"`
}

type apiPostResponse struct {
	Post   model.Post      `json:"post"`
	HTML   string          `json:"html"`
	Meta   []seo.Tag       `json:"meta"`
	JSONLD json.RawMessage `json:"jsonld"`
}

func (h handlers) apiList(w http.ResponseWriter, r *http.Request) {
	c, err := h.library.Snapshot()
	if err != nil {
		h.responder.WriteJSONError(w, err, site.MsgListLoadFailed)
		return
	}

	q := listing.ParseQuery(r.URL.Query())
	res := h.pipeline.Run(c.Posts(), q)

	items := make([]apiPost, 0, len(res.Items))
	for _, p := range res.Items {
		items = append(items, apiPost{
			Post:    p,
			URL:     h.links.Post(p.Slug),
			Preview: site.Preview(p, h.excerptLength),
		})
	}
	topics := c.Topics()
	if topics == nil {
		topics = []model.Topic{}
	}

	h.responder.WriteJSON(w, http.StatusOK, apiListResponse{
		Query:      apiQuery{Topic: q.Topic, Sort: string(q.Sort), Page: q.Page},
		Items:      items,
		Page:       res.CurrentPage,
		TotalPages: res.TotalPages,
		Total:      res.Total,
		Topics:     topics,
	})
}

func (h handlers) apiPost(w http.ResponseWriter, r *http.Request) {
	c, err := h.library.Snapshot()
	if err != nil {
		h.responder.WriteJSONError(w, err, site.MsgPostLoadFailed)
		return
	}
	p, err := site.Lookup(c, chi.URLParam(r, "slug"))
	if err != nil {
		h.responder.WriteJSONError(w, err, site.MsgPostLoadFailed)
		return
	}

	view, err := h.pages.PostView(p, h.canonicalURL(r, p.Slug), model.PageData{SiteTitle: h.siteTitle})
	if err != nil {
		h.responder.WriteJSONError(w, err, site.MsgPostLoadFailed)
		return
	}

	h.responder.WriteJSON(w, http.StatusOK, apiPostResponse{
		Post:   p,
		HTML:   string(view.Body),
		Meta:   view.Meta,
		JSONLD: json.RawMessage(view.JSONLD),
	})
}

// canonicalURL is the absolute address of a post, from the configured base
// URL or else the request's own host.
func (h handlers) canonicalURL(r *http.Request, slug string) string {
	base := strings.TrimSuffix(h.baseURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + h.links.Post(slug)
}

// localPath keeps redirects on this site.
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}
