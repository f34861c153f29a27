package feed

import (
	"context"
	"fmt"
	"os"

	"github.com/BeepBeep84/blog/internal/model"
)

// FileSource reads a JSON or YAML feed document from disk.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) String() string { return s.Path }

func (s *FileSource) Load(ctx context.Context) ([]model.RawPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Source: s.Path, Err: err}
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &LoadError{Source: s.Path, Err: fmt.Errorf("open feed file: %w", err)}
	}
	defer f.Close()

	posts, err := Decode(f, FormatFor(s.Path))
	if err != nil {
		return nil, &LoadError{Source: s.Path, Err: err}
	}
	return posts, nil
}
