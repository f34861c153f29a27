package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeepBeep84/blog/internal/config"
)

const buildFeed = `{"posts": [
  {"title": "Hello World", "date": "2024-03-01", "topic": "Go", "content": "# Hi\n\nBody"},
  {"title": "Second Post", "date": "2024-03-02", "topic": "Rust Lang", "content": "Other body"},
  {"title": "Hello World", "date": "2024-03-01", "topic": "Go", "content": "duplicate"},
  {"title": "", "date": "2024-03-03", "topic": "Go", "content": "untitled"}
]}`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()

	feedPath := filepath.Join(dir, "posts.json")
	require.NoError(t, os.WriteFile(feedPath, []byte(buildFeed), 0o644))

	staticDir := filepath.Join(dir, "static")
	require.NoError(t, os.MkdirAll(filepath.Join(staticDir, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "style.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "img", "a.png"), []byte("png"), 0o644))

	return config.Config{
		SiteTitle:     "Test Blog",
		OutputDir:     filepath.Join(dir, "public"),
		StaticDir:     staticDir,
		Feed:          feedPath,
		Locale:        "en",
		Renderer:      "builtin",
		ExcerptLength: 100,
		Port:          1313,
	}
}

func TestRunBuild(t *testing.T) {
	cfg := testConfig(t)

	require.NoError(t, runBuild(context.Background(), cfg))

	out := cfg.OutputDir
	for _, p := range []string{
		"index.html",
		"static/style.css",
		"static/img/a.png",
		"list/all/new/1/index.html",
		"list/all/za/1/index.html",
		"list/go/old/1/index.html",
		"list/rust-lang/az/1/index.html",
		"post/hello-world-2024-03-01/index.html",
		"post/second-post-2024-03-02/index.html",
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(p)))
	}
	assert.NoFileExists(t, filepath.Join(out, "list", "all", "new", "2", "index.html"))

	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	firstPage, err := os.ReadFile(filepath.Join(out, "list", "all", "new", "1", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, firstPage, index)
	assert.Contains(t, string(index), `href="/post/second-post-2024-03-02/"`)
	assert.Contains(t, string(index), `href="/list/rust-lang/new/1/"`)
	assert.NotContains(t, string(index), "reader-toggle")

	post, err := os.ReadFile(filepath.Join(out, "post", "hello-world-2024-03-01", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(post), "<h1>Hi</h1>")
	assert.False(t, bytes.Contains(post, []byte("duplicate")))
}

func TestRunBuild_CleansOutputDir(t *testing.T) {
	cfg := testConfig(t)
	stale := filepath.Join(cfg.OutputDir, "stale.html")
	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	require.NoError(t, runBuild(context.Background(), cfg))

	assert.NoFileExists(t, stale)
}

func TestRunBuild_FeedErrorAborts(t *testing.T) {
	cfg := testConfig(t)
	cfg.Feed = filepath.Join(t.TempDir(), "missing.json")

	err := runBuild(context.Background(), cfg)

	require.Error(t, err)
	assert.NoDirExists(t, cfg.OutputDir)
}

func TestSetupLogging(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, setupLogging(&buf, "debug", "json"))
	require.NoError(t, setupLogging(&buf, "", "console"))
	assert.Error(t, setupLogging(&buf, "loud", "json"))
	assert.Error(t, setupLogging(&buf, "info", "xml"))
}
