package feed

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/BeepBeep84/blog/internal/model"
)

// DirSource reads every *.md file below Dir as one post. Metadata comes from
// the file's front matter (YAML, TOML or JSON), the body is the post content.
// Files are returned in lexical path order.
type DirSource struct {
	Dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

func (s *DirSource) String() string { return s.Dir }

func (s *DirSource) Load(ctx context.Context) ([]model.RawPost, error) {
	logger := log.With().Str("component", "feed").Str("dir", s.Dir).Logger()

	var posts []model.RawPost
	err := filepath.WalkDir(s.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("access %s: %w", path, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		var raw model.RawPost
		body, err := frontmatter.Parse(bytes.NewReader(data), &raw)
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("could not parse front matter, treating file as plain markdown")
			raw = model.RawPost{}
			body = data
		}

		if raw.Content == "" {
			raw.Content = strings.TrimSpace(string(body))
		}
		if raw.Title == "" {
			raw.Title = titleFromFile(d.Name())
		}

		posts = append(posts, raw)
		return nil
	})
	if err != nil {
		return nil, &LoadError{Source: s.Dir, Err: err}
	}
	return posts, nil
}

// titleFromFile turns "my-first_post.md" into "My First Post".
func titleFromFile(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return cases.Title(language.English).String(base)
}
