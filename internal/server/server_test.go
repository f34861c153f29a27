package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/BeepBeep84/blog/internal/feed"
	"github.com/BeepBeep84/blog/internal/listing"
	"github.com/BeepBeep84/blog/internal/markdown"
	"github.com/BeepBeep84/blog/internal/model"
	"github.com/BeepBeep84/blog/internal/preference"
	"github.com/BeepBeep84/blog/internal/site"
)

type fakeSource struct {
	posts []model.RawPost
	err   error
}

func (s fakeSource) String() string { return "fake" }

func (s fakeSource) Load(context.Context) ([]model.RawPost, error) {
	if s.err != nil {
		return nil, &feed.LoadError{Source: "fake", Err: s.err}
	}
	return s.posts, nil
}

var testPosts = []model.RawPost{
	{Title: "Hello World", Date: "2024-03-01", Topic: "Go", Content: "# Hi\n\nSome **bold** text.", SEODescription: "greeting"},
	{Title: "Borrowing", Date: "2024-03-05", Topic: "Rust", Content: "Lifetimes and `&str`."},
	{Title: "Broken", Topic: "Go", Content: "no date"},
}

func newTestRouter(t *testing.T, src feed.Source, staticDir string) http.Handler {
	t.Helper()

	lib := site.NewLibrary(src)
	_ = lib.Reload(context.Background())

	router, err := NewRouter(Options{
		SiteTitle:     "Test Blog",
		BaseURL:       "https://blog.example.com",
		StaticDir:     staticDir,
		ExcerptLength: 40,
		Library:       lib,
		Markdown:      markdown.NewBuiltin(),
		Pipeline:      listing.New(language.English),
	})
	require.NoError(t, err)
	return router
}

func get(t *testing.T, h http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListPage(t *testing.T) {
	h := newTestRouter(t, fakeSource{posts: testPosts}, "")

	rec := get(t, h, "/?topic=go")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Hello World")
	assert.NotContains(t, body, "Borrowing</a>")
	assert.NotContains(t, body, "Broken")
	assert.Contains(t, body, "Page 1 of 1")
}

func TestListPage_FeedFailure(t *testing.T) {
	h := newTestRouter(t, fakeSource{err: errors.New("connection refused")}, "")

	rec := get(t, h, "/")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), site.MsgListLoadFailed)
}

func TestPostPage(t *testing.T) {
	h := newTestRouter(t, fakeSource{posts: testPosts}, "")

	tests := []struct {
		name   string
		target string
		status int
		want   string
	}{
		{"found", "/post?slug=hello-world-2024-03-01", http.StatusOK, "<strong>bold</strong>"},
		{"no slug", "/post", http.StatusBadRequest, site.MsgNoSlug},
		{"blank slug", "/post?slug=%20", http.StatusBadRequest, site.MsgNoSlug},
		{"unknown slug", "/post?slug=nope", http.StatusNotFound, site.MsgNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestPostPage_SEO(t *testing.T) {
	h := newTestRouter(t, fakeSource{posts: testPosts}, "")

	rec := get(t, h, "/post?slug=hello-world-2024-03-01")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="description" content="greeting"`)
	assert.Contains(t, body, `content="https://blog.example.com/post?slug=hello-world-2024-03-01"`)
	assert.Contains(t, body, "application/ld+json")
}

func TestPostPage_FeedFailure(t *testing.T) {
	h := newTestRouter(t, fakeSource{err: errors.New("timeout")}, "")

	rec := get(t, h, "/post?slug=anything")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), site.MsgPostLoadFailed)
}

func TestReaderToggle(t *testing.T) {
	h := newTestRouter(t, fakeSource{posts: testPosts}, "")

	form := url.Values{"return": {"/?topic=go"}}
	req := httptest.NewRequest(http.MethodPost, "/reader", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?topic=go", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, preference.ReaderModeKey, cookies[0].Name)
	assert.Equal(t, "on", cookies[0].Value)

	page := get(t, h, "/", cookies[0])
	assert.Contains(t, page.Body.String(), `class="reader-on"`)
}

func TestReaderToggle_RejectsForeignRedirect(t *testing.T) {
	h := newTestRouter(t, fakeSource{posts: testPosts}, "")

	form := url.Values{"return": {"//evil.example.com/"}}
	req := httptest.NewRequest(http.MethodPost, "/reader", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: preference.ReaderModeKey, Value: "on"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "/", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "off", cookies[0].Value)
}

func TestAPIList(t *testing.T) {
	h := newTestRouter(t, fakeSource{posts: testPosts}, "")

	rec := get(t, h, "/api/posts?sort=az")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var resp apiListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apiQuery{Topic: "all", Sort: "az", Page: 1}, resp.Query)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.TotalPages)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Borrowing", resp.Items[0].Title)
	assert.Equal(t, "/post?slug=borrowing-2024-03-05", resp.Items[0].URL)
	assert.Equal(t, "Lifetimes and .", resp.Items[0].Preview)
	assert.Equal(t, "greeting", resp.Items[1].Preview)
	assert.Equal(t, []model.Topic{{Name: "Go", Slug: "go"}, {Name: "Rust", Slug: "rust"}}, resp.Topics)
}

func TestAPIList_OutOfRangePage(t *testing.T) {
	h := newTestRouter(t, fakeSource{posts: testPosts}, "")

	rec := get(t, h, "/api/posts?page=9")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp apiListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 9, resp.Page)
	assert.Empty(t, resp.Items)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestAPIPost(t *testing.T) {
	h := newTestRouter(t, fakeSource{posts: testPosts}, "")

	rec := get(t, h, "/api/posts/hello-world-2024-03-01")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiPostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hello World", resp.Post.Title)
	assert.Contains(t, resp.HTML, "<h1>Hi</h1>")
	require.NotEmpty(t, resp.Meta)
	assert.Equal(t, "description", resp.Meta[0].Name)

	var ld map[string]any
	require.NoError(t, json.Unmarshal(resp.JSONLD, &ld))
	assert.Equal(t, "BlogPosting", ld["@type"])

	missing := get(t, h, "/api/posts/nope")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Contains(t, missing.Body.String(), site.MsgNotFound)
}

func TestAPI_FeedFailure(t *testing.T) {
	h := newTestRouter(t, fakeSource{err: errors.New("boom")}, "")

	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/api/posts").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/api/posts/x").Code)
}

func TestStaticFilesAreNotCached(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{}"), 0o644))
	h := newTestRouter(t, fakeSource{posts: testPosts}, dir)

	rec := get(t, h, "/static/style.css")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-cache")
}

func TestRecoverPanics(t *testing.T) {
	panicky := recoverPanics(zerolog.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := get(t, panicky, "/")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLocalPath(t *testing.T) {
	tests := map[string]string{
		"":                   "/",
		"/":                  "/",
		"/post?slug=a":       "/post?slug=a",
		"https://x.example/": "/",
		"//x.example/":       "/",
		`/\x.example/`:       "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, localPath(in), in)
	}
}
