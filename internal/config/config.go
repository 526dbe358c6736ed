// Package config provides configuration loading and validation for the menu agent.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // Asia/Seoul on hosts without a zoneinfo database

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/gyo-lab/weeklymenu/internal/menu"
)

// EnvPrefix is the prefix for environment overrides, e.g. MENU_LISTING_WINDOW_DAYS.
const EnvPrefix = "MENU"

// Config is the full agent configuration. Every field has a default, so a run
// with no file and no environment reproduces the production setup.
type Config struct {
	Listing ListingConfig `json:"listing" yaml:"listing"`
	Paths   PathsConfig   `json:"paths" yaml:"paths"`
	HTTP    HTTPConfig    `json:"http" yaml:"http"`
	Render  RenderConfig  `json:"render" yaml:"render"`
	Publish PublishConfig `json:"publish" yaml:"publish"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Layout  menu.Layout   `json:"layout" yaml:"layout" ignored:"true"`
}

// ListingConfig locates the board and decides which post qualifies.
type ListingConfig struct {
	URL                 string `json:"url" yaml:"url" split_words:"true" validate:"required,url"`
	DownloadURLTemplate string `json:"download_url_template" yaml:"download_url_template" split_words:"true" validate:"required"`
	TitleMarker         string `json:"title_marker" yaml:"title_marker" split_words:"true" validate:"required"`
	WindowDays          int    `json:"window_days" yaml:"window_days" split_words:"true" validate:"gte=0"`
	Timezone            string `json:"timezone" yaml:"timezone" split_words:"true" validate:"required"`
	ContainerSelector   string `json:"container_selector" yaml:"container_selector" split_words:"true"`
}

// PathsConfig names the local artifacts. Relative paths resolve against the working directory.
type PathsConfig struct {
	Document string `json:"document" yaml:"document" validate:"required"`
	Image    string `json:"image" yaml:"image" validate:"required"`
	JSON     string `json:"json" yaml:"json" validate:"required"`
}

// HTTPConfig controls outbound requests.
type HTTPConfig struct {
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds" split_words:"true" validate:"gt=0"`
	UserAgent      string `json:"user_agent" yaml:"user_agent" split_words:"true" validate:"required"`
	UseBrowser     bool   `json:"use_browser" yaml:"use_browser" split_words:"true"`
}

// RenderConfig controls rasterization of page one.
type RenderConfig struct {
	DPI     float64 `json:"dpi" yaml:"dpi" validate:"gt=0"`
	Quality int     `json:"quality" yaml:"quality" validate:"min=1,max=100"`
}

// PublishConfig names the remote repository. Token is only read from the environment.
type PublishConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Repo        string `json:"repo" yaml:"repo" validate:"required,contains=/"`
	Branch      string `json:"branch" yaml:"branch" validate:"required"`
	IncludeJSON bool   `json:"include_json" yaml:"include_json" split_words:"true"`
	Token       string `json:"-" yaml:"-" envconfig:"GITHUB_TOKEN"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"oneof=console json"`
}

// Default returns the production configuration.
func Default() Config {
	return Config{
		Listing: ListingConfig{
			URL:                 "https://assembly.go.kr/portal/bbs/B0000054/list.do?pageIndex=1&menuNo=600100&sdate=&edate=&searchDtGbn=c0&pageUnit=10&pageIndex=1&cl1Cd=AN01",
			DownloadURLTemplate: "https://assembly.go.kr/portal/cmmn/file/fileDown.do?menuNo={menuNo}&atchFileId={atchFileId}&fileSn={fileSn}&historyBackUrl={historyBackUrl}",
			TitleMarker:         "주간식단표",
			WindowDays:          4,
			Timezone:            "Asia/Seoul",
		},
		Paths: PathsConfig{
			Document: "weekly_menu.pdf",
			Image:    "weekly_menu.jpg",
			JSON:     "weekly_menu.json",
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		},
		Render: RenderConfig{
			DPI:     200,
			Quality: 90,
		},
		Publish: PublishConfig{
			Enabled: true,
			Repo:    "gyo-lab/weeklymenu",
			Branch:  "main",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Layout: menu.DefaultLayout(),
	}
}

// Load builds the effective configuration: defaults, then the optional file,
// then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		d := Default()
		cfg = &d
	} else {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads configuration from a JSON or YAML file on top of the defaults.
// Fields missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overlays MENU_* environment variables and the GITHUB_TOKEN credential.
// Unset variables leave the current values alone.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// Validate checks that the configuration has valid values.
// The credential is not checked here; the publisher fails fast without it.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := c.Layout.Check(); err != nil {
		return fmt.Errorf("config error: layout: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config error: timezone %q: %w", c.Listing.Timezone, err)
	}
	if !strings.Contains(c.Listing.DownloadURLTemplate, "{atchFileId}") {
		return fmt.Errorf("config error: 'download_url_template' must contain {atchFileId}")
	}
	return nil
}

// Location returns the time zone used to compare listing dates.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Listing.Timezone)
}

// Timeout returns the HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
