// Package feed loads raw post records from wherever the site keeps them: a
// remote JSON document, a local JSON or YAML file, or a directory of
// markdown files with front matter.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/BeepBeep84/blog/internal/model"
)

// ErrLoad is matched by every error a Source returns.
var ErrLoad = errors.New("feed load failed")

// LoadError records which source failed and why.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load feed %s: %v", e.Source, e.Err)
}

// Unwrap exposes both ErrLoad and the underlying cause to errors.Is/As.
func (e *LoadError) Unwrap() []error {
	return []error{ErrLoad, e.Err}
}

// Source produces the raw post records of a feed.
type Source interface {
	Load(ctx context.Context) ([]model.RawPost, error)
	// String names the source in logs and errors.
	String() string
}

// Format is the encoding of a feed document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// document is the top-level feed shape. Posts is a pointer so a document
// without the field can be told apart from an empty feed.
type document struct {
	Posts *[]model.RawPost `json:"posts" yaml:"posts"`
}

// Decode reads a feed document in the given format.
func Decode(r io.Reader, format Format) ([]model.RawPost, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	var doc document
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s feed: %w", format, err)
	}
	if doc.Posts == nil {
		return nil, errors.New(`feed document has no "posts" field`)
	}
	return *doc.Posts, nil
}

// FormatFor picks the document format from a file name or URL path.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Option configures sources built by Open.
type Option func(*options)

type options struct {
	timeout time.Duration
}

// WithTimeout bounds remote fetches.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// Open returns the source for location: an http(s) URL, a directory of
// markdown files, or a feed file.
func Open(location string, opts ...Option) Source {
	o := options{timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(location, o.timeout)
	}
	if info, err := os.Stat(location); err == nil && info.IsDir() {
		return NewDirSource(location)
	}
	return NewFileSource(location)
}

// IsLocal reports whether src reads from the local filesystem, and returns
// the path to watch for changes.
func IsLocal(src Source) (string, bool) {
	switch s := src.(type) {
	case *FileSource:
		return s.Path, true
	case *DirSource:
		return s.Dir, true
	}
	return "", false
}
