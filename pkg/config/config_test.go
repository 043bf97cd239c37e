package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "test-config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configContent := `
feeds:
  - https://example.com/feed1.xml
  - https://example.com/feed2.xml

server:
  listen: ":9090"
  timeout: 45s
  base_url: https://news.example.com
  page_size: 10
  trigger_token: secret
  ads_txt: "google.com, pub-123, DIRECT, f08c47fec0942fa0"

schedule:
  update_interval: 15m

llm:
  endpoint: https://api.openai.com/v1
  api_key: test-key
  model: gpt-4o-mini
  timeout: 20s
  use_json_mode: false
`
		cfg, err := Load(writeConfig(t, configContent))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, []string{"https://example.com/feed1.xml", "https://example.com/feed2.xml"}, cfg.Feeds)
		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "https://news.example.com", cfg.Server.BaseURL)
		assert.Equal(t, 10, cfg.Server.PageSize)
		assert.Equal(t, "secret", cfg.Server.TriggerToken)
		assert.Equal(t, "google.com, pub-123, DIRECT, f08c47fec0942fa0", cfg.Server.AdsTxt)
		assert.Equal(t, 15*time.Minute, cfg.Schedule.UpdateInterval)
		assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
		assert.Equal(t, 20*time.Second, cfg.LLM.Timeout)
		assert.False(t, cfg.LLM.UseJSONMode)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("GOOGLE_API_KEY", "legacy-key")

		cfg, err := Load(writeConfig(t, "server:\n  listen: \":8081\"\n"))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, DefaultFeeds, cfg.Feeds)
		assert.Equal(t, ":8081", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
		assert.Equal(t, 20, cfg.Server.PageSize)
		assert.Equal(t, 6, cfg.Server.TriggerRate)
		assert.Empty(t, cfg.Server.TriggerToken)

		assert.Equal(t, DefaultDSN, cfg.Database.DSN)
		assert.Equal(t, 30*time.Minute, cfg.Schedule.UpdateInterval)
		assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
		assert.Equal(t, 50, cfg.Content.MinLength)
		assert.Equal(t, 1500, cfg.Content.MaxLength)

		assert.Equal(t, DefaultEndpoint, cfg.LLM.Endpoint)
		assert.Equal(t, DefaultModel, cfg.LLM.Model)
		assert.Equal(t, "legacy-key", cfg.LLM.APIKey)
		assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
		assert.Equal(t, 1500, cfg.LLM.MaxBodyChars)
		assert.True(t, cfg.LLM.UseJSONMode)

		assert.False(t, cfg.Extraction.Enabled)
		assert.Equal(t, 30*time.Second, cfg.Extraction.Timeout)
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("NB_TOKEN", "from-env")
		t.Setenv("NB_KEY", "key-from-env")

		cfg, err := Load(writeConfig(t, "server:\n  trigger_token: ${NB_TOKEN}\nllm:\n  api_key: $NB_KEY\n"))
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Server.TriggerToken)
		assert.Equal(t, "key-from-env", cfg.LLM.APIKey)
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configContent := `
invalid yaml content
  with bad indentation
    and no structure
`
		cfg, err := Load(writeConfig(t, configContent))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("invalid feed url", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "feeds:\n  - ftp://example.com/feed\n"))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid feed url")
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.SetDefaults()
		return cfg
	}

	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{name: "temperature too high", modify: func(c *Config) { c.LLM.Temperature = 3 }, errMsg: "llm.temperature"},
		{name: "llm timeout too short", modify: func(c *Config) { c.LLM.Timeout = time.Millisecond }, errMsg: "llm timeout"},
		{name: "max below min", modify: func(c *Config) { c.Content.MaxLength = 10 }, errMsg: "content.max_length"},
		{name: "negative min length", modify: func(c *Config) { c.Content.MinLength = -1 }, errMsg: "content.min_length"},
		{name: "interval too short", modify: func(c *Config) { c.Schedule.UpdateInterval = time.Second }, errMsg: "update_interval"},
		{name: "fetch timeout too short", modify: func(c *Config) { c.Fetch.Timeout = time.Millisecond }, errMsg: "fetch timeout"},
		{name: "server timeout too short", modify: func(c *Config) { c.Server.Timeout = time.Millisecond }, errMsg: "server timeout"},
		{name: "page size", modify: func(c *Config) { c.Server.PageSize = -1 }, errMsg: "page_size"},
		{name: "relative base url", modify: func(c *Config) { c.Server.BaseURL = "/news" }, errMsg: "base_url"},
		{
			name: "extraction timeout when enabled",
			modify: func(c *Config) {
				c.Extraction.Enabled = true
				c.Extraction.Timeout = time.Millisecond
			},
			errMsg: "extraction timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.modify(cfg)
			err := validate(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_Getters(t *testing.T) {
	cfg := &Config{
		Feeds:      []string{"https://feed1.com", "https://feed2.com"},
		Server:     ServerConfig{Listen: ":9090", Timeout: 45 * time.Second},
		LLM:        LLMConfig{Model: "m"},
		Extraction: ExtractionConfig{Enabled: true},
	}

	assert.Equal(t, cfg.Feeds, cfg.GetFeeds())
	assert.Equal(t, ":9090", cfg.GetServerConfig().Listen)
	assert.Equal(t, 45*time.Second, cfg.GetServerConfig().Timeout)
	assert.Equal(t, "m", cfg.GetLLMConfig().Model)
	assert.True(t, cfg.GetExtractionConfig().Enabled)
}

func TestLoad_ExampleConfig(t *testing.T) {
	t.Setenv("TRIGGER_TOKEN", "example-token")
	t.Setenv("GOOGLE_API_KEY", "example-key")

	cfg, err := Load("../../config.example.yml")
	require.NoError(t, err)
	assert.Len(t, cfg.Feeds, 2)
	assert.Equal(t, "example-token", cfg.Server.TriggerToken)
	assert.Equal(t, "example-key", cfg.LLM.APIKey)
	assert.Equal(t, 30*time.Minute, cfg.Schedule.UpdateInterval)
	assert.True(t, cfg.LLM.UseJSONMode)
	assert.False(t, cfg.Extraction.Enabled)
}
