package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/BeepBeep84/blog/internal/feed"
	"github.com/BeepBeep84/blog/internal/listing"
	"github.com/BeepBeep84/blog/internal/markdown"
	"github.com/BeepBeep84/blog/internal/server"
	"github.com/BeepBeep84/blog/internal/site"
)

const (
	reloadDebounce  = 500 * time.Millisecond
	shutdownTimeout = 10 * time.Second
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the blog and reloads the feed when it changes",
	Long: `The serve command loads the feed and starts a web server with the list
view, post pages, the reader-mode toggle and a JSON API. A local feed file or
directory is watched and reloaded on change; a remote feed is refreshed every
refreshInterval when that is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	cfg := appConfig
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	md, err := markdown.New(cfg.Renderer)
	if err != nil {
		return err
	}

	src := feed.Open(cfg.Feed, feed.WithTimeout(cfg.FeedTimeout))
	lib := site.NewLibrary(src)
	if err := lib.Reload(ctx); err != nil {
		log.Warn().Msg("initial feed load failed, pages will report the error until a reload succeeds")
	}

	if path, ok := feed.IsLocal(src); ok {
		watcher, err := watchFeed(ctx, lib, path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("failed to watch feed, changes will not be picked up")
		} else {
			defer watcher.Close()
		}
	} else if cfg.RefreshInterval > 0 {
		go refreshFeed(ctx, lib, cfg.RefreshInterval)
	}

	srv, err := server.New(server.Options{
		Addr:          fmt.Sprintf(":%d", cfg.Port),
		SiteTitle:     cfg.SiteTitle,
		BaseURL:       cfg.BaseURL,
		StaticDir:     cfg.StaticDir,
		ExcerptLength: cfg.ExcerptLength,
		Library:       lib,
		Markdown:      md,
		Pipeline:      listing.New(cfg.Language()),
	})
	if err != nil {
		return err
	}

	errChannel := make(chan error, 1)
	go srv.Start(errChannel)
	log.Info().Msgf("serving on http://localhost:%d, press Ctrl+C to stop", cfg.Port)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case err := <-errChannel:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case sig := <-signals:
		log.Info().Str("signal", sig.String()).Msg("received signal")
	case <-ctx.Done():
	}

	cancel()
	srv.ShutdownGracefully(shutdownTimeout)
	return nil
}

// watchFeed reloads lib whenever the feed at path changes. Events are
// debounced so an editor's burst of writes causes one reload.
func watchFeed(ctx context.Context, lib *site.Library, path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	// Editors often replace a file instead of writing it, which drops a
	// watch on the file itself, so a feed file is watched via its directory.
	watchDir, match := path, func(string) bool { return true }
	if !info.IsDir() {
		watchDir = filepath.Dir(path)
		abs, _ := filepath.Abs(path)
		match = func(name string) bool {
			n, _ := filepath.Abs(name)
			return n == abs
		}
	} else {
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				log.Warn().Err(err).Str("path", p).Msg("error walking feed directory")
				return nil
			}
			if d.IsDir() && p != path {
				if err := watcher.Add(p); err != nil {
					log.Warn().Err(err).Str("path", p).Msg("failed to watch directory")
				}
			}
			return nil
		})
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("error walking feed directory")
		}
	}
	if err := watcher.Add(watchDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", watchDir, err)
	}
	log.Info().Str("path", path).Msg("watching feed for changes")

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if !match(event.Name) {
					continue
				}
				log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")

				if event.Has(fsnotify.Create) && info.IsDir() && isDir(event.Name) {
					if err := watcher.Add(event.Name); err != nil {
						log.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
					}
				}

				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, func() {
					log.Info().Msg("reloading feed due to changes")
					_ = lib.Reload(ctx)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("watcher error")
			}
		}
	}()
	return watcher, nil
}

// refreshFeed reloads lib every interval until ctx ends.
func refreshFeed(ctx context.Context, lib *site.Library, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Info().Dur("interval", interval).Msg("refreshing remote feed periodically")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = lib.Reload(ctx)
		}
	}
}

func isDir(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

func init() {
	serveCmd.Flags().IntP("port", "p", 1313, "Port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
