package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyo-lab/weeklymenu/internal/menu"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "weekly_menu.pdf", cfg.Paths.Document)
	assert.Equal(t, "weekly_menu.jpg", cfg.Paths.Image)
	assert.Equal(t, "weekly_menu.json", cfg.Paths.JSON)
	assert.Equal(t, "gyo-lab/weeklymenu", cfg.Publish.Repo)
	assert.Equal(t, "main", cfg.Publish.Branch)
	assert.Equal(t, 4, cfg.Listing.WindowDays)
	assert.Equal(t, "주간식단표", cfg.Listing.TitleMarker)
	assert.True(t, cfg.Publish.Enabled)
	assert.False(t, cfg.Publish.IncludeJSON)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"listing": {"window_days": 7},
		"paths": {"image": "out/menu.jpg"},
		"log": {"level": "debug"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 7, cfg.Listing.WindowDays)
	assert.Equal(t, "out/menu.jpg", cfg.Paths.Image)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched fields keep defaults
	assert.Equal(t, "weekly_menu.pdf", cfg.Paths.Document)
	assert.Equal(t, "주간식단표", cfg.Listing.TitleMarker)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
publish:
  repo: someone/menus
  branch: gh-pages
  include_json: true
layout:
  weekdays:
    - name: 월요일
      index: 2
  venues:
    - name: 본관1식당
      index: 1
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "someone/menus", cfg.Publish.Repo)
	assert.Equal(t, "gh-pages", cfg.Publish.Branch)
	assert.True(t, cfg.Publish.IncludeJSON)
	assert.True(t, cfg.Publish.Enabled)
	assert.Equal(t, []menu.Anchor{{Name: "월요일", Index: 2}}, cfg.Layout.Weekdays)
	assert.Equal(t, []string{"본관1식당"}, cfg.Layout.VenueNames())
}

func TestLoadConfig_TokenNotReadFromFile(t *testing.T) {
	path := writeFile(t, "config.json", `{"publish": {"Token": "leaked", "token": "leaked"}}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Publish.Token)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeFile(t, "config.yml", "listing: [unclosed")

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv("MENU_LISTING_WINDOW_DAYS", "2")
	t.Setenv("MENU_PATHS_DOCUMENT", "/tmp/menu.pdf")
	t.Setenv("MENU_HTTP_USE_BROWSER", "true")
	t.Setenv("MENU_RENDER_QUALITY", "75")
	t.Setenv("MENU_PUBLISH_ENABLED", "false")
	t.Setenv("MENU_LOG_FORMAT", "json")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, 2, cfg.Listing.WindowDays)
	assert.Equal(t, "/tmp/menu.pdf", cfg.Paths.Document)
	assert.True(t, cfg.HTTP.UseBrowser)
	assert.Equal(t, 75, cfg.Render.Quality)
	assert.False(t, cfg.Publish.Enabled)
	assert.Equal(t, "json", cfg.Log.Format)
	// Unset variables leave defaults alone
	assert.Equal(t, "main", cfg.Publish.Branch)
	assert.Len(t, cfg.Layout.Weekdays, 7)
}

func TestApplyEnv_GitHubToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_example")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "ghp_example", cfg.Publish.Token)
}

func TestApplyEnv_BadValue(t *testing.T) {
	t.Setenv("MENU_LISTING_WINDOW_DAYS", "four")

	cfg := Default()
	err := cfg.ApplyEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read environment")
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative window", func(c *Config) { c.Listing.WindowDays = -1 }, "WindowDays"},
		{"quality too high", func(c *Config) { c.Render.Quality = 101 }, "Quality"},
		{"zero dpi", func(c *Config) { c.Render.DPI = 0 }, "DPI"},
		{"repo without owner", func(c *Config) { c.Publish.Repo = "weeklymenu" }, "Repo"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "Level"},
		{"empty document path", func(c *Config) { c.Paths.Document = "" }, "Document"},
		{"unknown timezone", func(c *Config) { c.Listing.Timezone = "Mars/Olympus" }, "timezone"},
		{"template without file id", func(c *Config) { c.Listing.DownloadURLTemplate = "https://example.com/file" }, "download_url_template"},
		{"empty layout", func(c *Config) { c.Layout.Venues = nil }, "Venues"},
		{"duplicate weekday", func(c *Config) {
			c.Layout.Weekdays = append(c.Layout.Weekdays, menu.Anchor{Name: "월요일", Index: 20})
		}, "layout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Listing.URL, cfg.Listing.URL)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := writeFile(t, "config.json", `{"publish": {"branch": "from-file"}}`)
	t.Setenv("MENU_PUBLISH_BRANCH", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Publish.Branch)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := writeFile(t, "config.json", `{"render": {"quality": 0}}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}
