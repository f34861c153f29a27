package seo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeepBeep84/blog/internal/model"
)

func samplePost() model.Post {
	return model.Post{RawPost: model.RawPost{
		Title:          "Hello World",
		Date:           "2024-03-01",
		Topic:          "Go",
		Content:        "# Hi",
		Description:    "card text",
		SEODescription: "search text",
		SEOKeywords:    []string{"go", "hello"},
		Image:          "https://example.com/hi.png",
	}, Slug: "hello-world-2024-03-01"}
}

func TestBuild(t *testing.T) {
	m := Build(samplePost(), "https://blog.example/post?slug=hello-world-2024-03-01")

	assert.Equal(t, "search text", m.Description, "description comes from seo_description only")
	assert.Equal(t, "go, hello", m.Keywords)

	tags := m.Tags()
	require.Len(t, tags, 9)
	assert.Equal(t, Tag{"property", "og:url", "https://blog.example/post?slug=hello-world-2024-03-01"}, tags[5])
	assert.Equal(t, Tag{"name", "twitter:image", "https://example.com/hi.png"}, tags[8])
}

func TestBuild_OptionalFieldsEmpty(t *testing.T) {
	p := samplePost()
	p.SEODescription = ""
	p.SEOKeywords = nil
	p.Image = ""

	m := Build(p, "u")

	assert.Empty(t, m.Description)
	assert.Empty(t, m.Keywords)
	for _, tag := range m.Tags() {
		assert.NotEmpty(t, tag.Name)
	}
}

func TestJSONLD(t *testing.T) {
	out, err := Build(samplePost(), "https://blog.example/p").JSONLD()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "https://schema.org", doc["@context"])
	assert.Equal(t, "BlogPosting", doc["@type"])
	assert.Equal(t, "Hello World", doc["headline"])
	assert.Equal(t, "2024-03-01", doc["datePublished"])
	assert.Equal(t, "Go", doc["articleSection"])
	assert.Equal(t, "https://blog.example/p", doc["mainEntityOfPage"])

	p := samplePost()
	p.Image = ""
	out, err = Build(p, "u").JSONLD()
	require.NoError(t, err)
	assert.NotContains(t, out, `"image"`)
}
