package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func valid() Config {
	return Config{
		SiteTitle:     "Blog",
		Feed:          "posts.json",
		FeedTimeout:   time.Second,
		Locale:        "en",
		Renderer:      "builtin",
		ExcerptLength: 180,
		Port:          1313,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"goldmark renderer", func(c *Config) { c.Renderer = "goldmark" }, ""},
		{"empty feed", func(c *Config) { c.Feed = "" }, "feed"},
		{"unknown renderer", func(c *Config) { c.Renderer = "pandoc" }, "renderer"},
		{"bad locale", func(c *Config) { c.Locale = "not a locale!" }, "locale"},
		{"zero excerpt", func(c *Config) { c.ExcerptLength = 0 }, "excerptLength"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "port"},
		{"negative refresh", func(c *Config) { c.RefreshInterval = -time.Second }, "refreshInterval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLanguage(t *testing.T) {
	cfg := valid()
	cfg.Locale = "de"
	assert.Equal(t, language.German, cfg.Language())

	cfg.Locale = "???"
	assert.Equal(t, language.English, cfg.Language())
}
