// Package site turns the core data into pages: it owns the loaded post
// collection and renders list, detail and message views.
package site

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/BeepBeep84/blog/internal/feed"
	"github.com/BeepBeep84/blog/internal/model"
	"github.com/BeepBeep84/blog/internal/store"
)

var (
	// ErrNoSlug is returned by Lookup when no slug was requested.
	ErrNoSlug = errors.New("no post specified")
	// ErrNotFound is returned by Lookup when no post has the requested slug.
	ErrNotFound = errors.New("post not found")
)

// Library holds the current post collection. Readers get an immutable
// snapshot; Reload swaps in a new one.
type Library struct {
	source feed.Source
	logger zerolog.Logger

	current atomic.Pointer[store.Collection]

	mu       sync.Mutex
	lastErr  error
	loadedAt time.Time
}

// NewLibrary returns an empty library reading from src. Call Reload before use.
func NewLibrary(src feed.Source) *Library {
	return &Library{
		source: src,
		logger: log.With().Str("component", "library").Str("feed", src.String()).Logger(),
	}
}

// Source returns the feed the library loads from.
func (l *Library) Source() feed.Source { return l.source }

// Reload fetches and normalizes the feed. On failure the previous snapshot
// stays in place and the error is returned and remembered.
func (l *Library) Reload(ctx context.Context) error {
	raws, err := l.source.Load(ctx)
	if err != nil {
		l.logger.Error().Err(err).Msg("failed to load feed")
		l.mu.Lock()
		l.lastErr = err
		l.mu.Unlock()
		return err
	}

	c := store.New(raws)
	for _, s := range c.Skipped() {
		l.logger.Warn().
			Int("index", s.Index).
			Str("title", s.Title).
			Str("missing", strings.Join(s.Missing, ",")).
			Msg("skipping malformed post")
	}
	l.current.Store(c)

	l.mu.Lock()
	l.lastErr = nil
	l.loadedAt = time.Now()
	l.mu.Unlock()

	l.logger.Info().
		Int("posts", c.Len()).
		Int("topics", len(c.Topics())).
		Int("skipped", len(c.Skipped())).
		Msg("feed loaded")
	return nil
}

// Snapshot returns the current collection. Until a load has succeeded it
// returns the last load error instead.
func (l *Library) Snapshot() (*store.Collection, error) {
	if c := l.current.Load(); c != nil {
		return c, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastErr != nil {
		return nil, l.lastErr
	}
	return nil, &feed.LoadError{Source: l.source.String(), Err: errors.New("feed not loaded yet")}
}

// LastError returns the error of the most recent failed reload, nil after a
// successful one.
func (l *Library) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// LoadedAt returns when the current snapshot was loaded.
func (l *Library) LoadedAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadedAt
}

// Lookup resolves the detail-view slug against c.
func Lookup(c *store.Collection, slug string) (model.Post, error) {
	if strings.TrimSpace(slug) == "" {
		return model.Post{}, ErrNoSlug
	}
	p, ok := c.Find(slug)
	if !ok {
		return model.Post{}, ErrNotFound
	}
	return p, nil
}
