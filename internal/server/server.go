// Package server serves the blog dynamically: list and detail pages, a
// reader-mode toggle, a JSON API over the same data, and static assets.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/BeepBeep84/blog/internal/listing"
	"github.com/BeepBeep84/blog/internal/markdown"
	"github.com/BeepBeep84/blog/internal/site"
)

// Options wires the server to the loaded content.
type Options struct {
	Addr          string
	SiteTitle     string
	BaseURL       string
	StaticDir     string
	ExcerptLength int

	Library  *site.Library
	Markdown markdown.Renderer
	Pipeline *listing.Pipeline
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func New(opts Options) (Server, error) {
	router, err := NewRouter(opts)
	if err != nil {
		return Server{}, err
	}

	srv := &http.Server{
		Addr:         opts.Addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return Server{Server: srv, startupTime: time.Now()}, nil
}

// NewRouter builds the route table.
func NewRouter(opts Options) (http.Handler, error) {
	links := site.QueryLinks{}
	pages, err := site.NewPages(site.Options{
		Markdown:      opts.Markdown,
		Pipeline:      opts.Pipeline,
		Links:         links,
		ExcerptLength: opts.ExcerptLength,
	})
	if err != nil {
		return nil, fmt.Errorf("load page layouts: %w", err)
	}

	logger := log.With().Str("component", "server").Logger()
	h := handlers{
		library:       opts.Library,
		pages:         pages,
		pipeline:      opts.Pipeline,
		links:         links,
		responder:     NewResponder(logger, pages),
		siteTitle:     opts.SiteTitle,
		baseURL:       opts.BaseURL,
		excerptLength: opts.ExcerptLength,
	}

	r := chi.NewRouter()
	r.Use(recoverPanics(logger))
	r.Use(logRequests(logger))

	r.Get("/", h.list)
	r.Get("/post", h.post)
	r.Post("/reader", h.toggleReader)

	r.Route("/api", func(r chi.Router) {
		r.Get("/posts", h.apiList)
		r.Get("/posts/{slug}", h.apiPost)
	})

	if opts.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir)))
		r.Handle("/static/*", noCache(fs))
	}
	return r, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Str("addr", s.Addr).Msg("server started")
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Dur("uptime", time.Since(s.startupTime)).Msg("gracefully shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error shutting down the server")
		return
	}
	log.Info().Msg("http server shut down")
}

