package config

import (
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/BeepBeep84/blog/internal/markdown"
)

// Config is decoded by viper from config.yaml and BLOG_* environment variables.
type Config struct {
	SiteTitle string `mapstructure:"siteTitle"`
	BaseURL   string `mapstructure:"baseURL"`
	OutputDir string `mapstructure:"outputDir"`
	StaticDir string `mapstructure:"staticDir"`

	// Feed is a URL, a JSON/YAML feed file, or a directory of markdown posts.
	Feed            string        `mapstructure:"feed"`
	FeedTimeout     time.Duration `mapstructure:"feedTimeout"`
	RefreshInterval time.Duration `mapstructure:"refreshInterval"`

	Locale        string `mapstructure:"locale"`
	Renderer      string `mapstructure:"renderer"`
	ExcerptLength int    `mapstructure:"excerptLength"`

	Port int `mapstructure:"port"`

	LogLevel  string `mapstructure:"logLevel"`
	LogFormat string `mapstructure:"logFormat"`
}

// Defaults holds the value of every key when neither file nor env sets it.
var Defaults = map[string]any{
	"siteTitle":       "My Blog",
	"baseURL":         "",
	"outputDir":       "public",
	"staticDir":       "static",
	"feed":            "posts.json",
	"feedTimeout":     10 * time.Second,
	"refreshInterval": time.Duration(0),
	"locale":          "en",
	"renderer":        markdown.EngineBuiltin,
	"excerptLength":   180,
	"port":            1313,
	"logLevel":        "info",
	"logFormat":       "console",
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	if c.Feed == "" {
		return fmt.Errorf("feed must be set")
	}
	if _, err := markdown.New(c.Renderer); err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("locale %q: %w", c.Locale, err)
	}
	if c.ExcerptLength < 1 {
		return fmt.Errorf("excerptLength must be positive, got %d", c.ExcerptLength)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("refreshInterval must not be negative")
	}
	return nil
}

// Language returns the collation language for title sorting.
func (c Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
