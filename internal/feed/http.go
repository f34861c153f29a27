package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/BeepBeep84/blog/internal/model"
)

// HTTPSource fetches the feed document over HTTP on every Load. Responses are
// requested uncached so edits show up on the next load. There is no retry.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func NewHTTPSource(rawURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    rawURL,
		Client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) String() string { return s.URL }

func (s *HTTPSource) Load(ctx context.Context) ([]model.RawPost, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &LoadError{Source: s.URL, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: s.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadError{Source: s.URL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	format := FormatJSON
	if u, err := url.Parse(s.URL); err == nil {
		format = FormatFor(u.Path)
	}

	posts, err := Decode(resp.Body, format)
	if err != nil {
		return nil, &LoadError{Source: s.URL, Err: err}
	}
	return posts, nil
}
