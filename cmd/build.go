package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/BeepBeep84/blog/internal/config"
	"github.com/BeepBeep84/blog/internal/feed"
	"github.com/BeepBeep84/blog/internal/listing"
	"github.com/BeepBeep84/blog/internal/markdown"
	"github.com/BeepBeep84/blog/internal/model"
	"github.com/BeepBeep84/blog/internal/site"
	"github.com/BeepBeep84/blog/internal/store"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Renders every list and post page into the output directory",
	Long: `The build command loads the feed, cleans the configured output directory
(default './public/'), copies './static/' into it, and writes one page per
topic, sort order and page number, one page per post, and index.html.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context(), appConfig)
	},
}

// buildStats summarizes a finished build.
type buildStats struct {
	ListPages int
	PostPages int
	Skipped   int
}

func runBuild(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	logger := log.With().Str("cmd", "build").Logger()
	logger.Info().
		Str("feed", cfg.Feed).
		Str("outputDir", cfg.OutputDir).
		Str("baseURL", cfg.BaseURL).
		Msg("starting build")

	lib := site.NewLibrary(feed.Open(cfg.Feed, feed.WithTimeout(cfg.FeedTimeout)))
	if err := lib.Reload(ctx); err != nil {
		return fmt.Errorf("load feed: %w", err)
	}
	c, err := lib.Snapshot()
	if err != nil {
		return fmt.Errorf("load feed: %w", err)
	}

	md, err := markdown.New(cfg.Renderer)
	if err != nil {
		return err
	}
	pipeline := listing.New(cfg.Language())
	links := site.PathLinks{Prefix: cfg.BaseURL}
	pages, err := site.NewPages(site.Options{
		Markdown:      md,
		Pipeline:      pipeline,
		Links:         links,
		ExcerptLength: cfg.ExcerptLength,
	})
	if err != nil {
		return err
	}

	outputDir := cfg.OutputDir
	logger.Info().Str("dir", outputDir).Msg("cleaning output directory")
	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("failed to remove output directory '%s': %w", outputDir, err)
	}
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", outputDir, err)
	}

	if _, err := os.Stat(cfg.StaticDir); err == nil {
		dst := filepath.Join(outputDir, "static")
		if err := copyDirContents(cfg.StaticDir, dst); err != nil {
			return fmt.Errorf("failed to copy static assets: %w", err)
		}
		logger.Info().Str("from", cfg.StaticDir).Str("to", dst).Msg("static assets copied")
	} else {
		logger.Warn().Str("dir", cfg.StaticDir).Msg("static directory not found, skipping copy")
	}

	b := siteBuilder{
		outputDir: outputDir,
		pages:     pages,
		pipeline:  pipeline,
		links:     links,
		data: model.PageData{
			SiteTitle: cfg.SiteTitle,
			BaseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
			Year:      time.Now().Year(),
		},
	}
	stats, err := b.build(c)
	if err != nil {
		return err
	}

	logger.Info().
		Int("listPages", stats.ListPages).
		Int("postPages", stats.PostPages).
		Int("skipped", stats.Skipped).
		Dur("took", time.Since(start)).
		Msg("build finished")
	return nil
}

type siteBuilder struct {
	outputDir string
	pages     *site.Pages
	pipeline  *listing.Pipeline
	links     site.Links
	data      model.PageData
}

func (b siteBuilder) build(c *store.Collection) (buildStats, error) {
	stats := buildStats{Skipped: len(c.Skipped())}

	topics := []string{listing.TopicAll}
	for _, t := range c.Topics() {
		topics = append(topics, t.Slug)
	}

	for _, topic := range topics {
		for _, mode := range listing.SortModes {
			q := listing.Query{Topic: topic, Sort: mode, Page: 1}
			total := b.pipeline.Run(c.Posts(), q).TotalPages
			for page := 1; page <= total; page++ {
				q = q.WithPage(page)
				if err := b.writeList(c, q, site.ListPath(q)); err != nil {
					return stats, err
				}
				stats.ListPages++
			}
		}
	}

	if err := b.writeList(c, listing.DefaultQuery(), ""); err != nil {
		return stats, err
	}

	written := make(map[string]bool, c.Len())
	for _, p := range c.Posts() {
		if written[p.Slug] {
			log.Warn().Str("slug", p.Slug).Str("title", p.Title).Msg("duplicate slug, only the first post is reachable")
			continue
		}
		written[p.Slug] = true

		var buf bytes.Buffer
		canonical := b.links.Post(p.Slug)
		if err := b.pages.RenderPost(&buf, p, canonical, b.pageData(p.Title)); err != nil {
			return stats, fmt.Errorf("render post %s: %w", p.Slug, err)
		}
		if err := writePage(b.outputDir, site.PostPath(p.Slug), buf.Bytes()); err != nil {
			return stats, err
		}
		stats.PostPages++
	}
	return stats, nil
}

func (b siteBuilder) writeList(c *store.Collection, q listing.Query, dir string) error {
	var buf bytes.Buffer
	if err := b.pages.RenderList(&buf, c, q, b.pageData("")); err != nil {
		return fmt.Errorf("render list %s: %w", site.ListPath(q), err)
	}
	return writePage(b.outputDir, dir, buf.Bytes())
}

func (b siteBuilder) pageData(title string) model.PageData {
	d := b.data
	d.PageTitle = title
	return d
}

// writePage stores content as dir/index.html below root.
func writePage(root, dir string, content []byte) error {
	target := filepath.Join(root, filepath.FromSlash(dir), "index.html")
	if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

// copyDirContents copies the contents of src into dst.
func copyDirContents(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		dstPath := filepath.Join(dst, relPath)

		if d.IsDir() {
			if err := os.MkdirAll(dstPath, os.ModePerm); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dstPath, err)
			}
			return nil
		}
		if err := copyFile(path, dstPath); err != nil {
			return fmt.Errorf("failed to copy file from %s to %s: %w", path, dstPath, err)
		}
		return nil
	})
}

// copyFile copies a single file from srcFile to dstFile.
func copyFile(srcFile, dstFile string) error {
	srcF, err := os.Open(srcFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcFile, err)
	}
	defer srcF.Close()

	if err := os.MkdirAll(filepath.Dir(dstFile), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create destination directory for %s: %w", dstFile, err)
	}

	dstF, err := os.Create(dstFile)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dstFile, err)
	}
	defer dstF.Close()

	if _, err := io.Copy(dstF, srcF); err != nil {
		return fmt.Errorf("failed to copy data from %s to %s: %w", srcFile, dstFile, err)
	}

	if info, err := os.Stat(srcFile); err == nil {
		if err := os.Chmod(dstFile, info.Mode()); err != nil {
			log.Warn().Err(err).Str("file", dstFile).Msg("could not set permissions")
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
