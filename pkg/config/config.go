package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// defaults applied by Load when the corresponding value is not set
const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel    = "gemini-2.0-flash"
	DefaultDSN      = "file:newsbrief.db?cache=shared&mode=rwc&_txlock=immediate"
)

// DefaultFeeds are polled when the configuration lists none
var DefaultFeeds = []string{
	"https://br.cointelegraph.com/rss",
	"https://g1.globo.com/dynamo/economia/rss2.xml",
}

// Config holds the application configuration
type Config struct {
	Feeds      []string         `yaml:"feeds" json:"feeds" jsonschema:"required,minItems=1,description=RSS/Atom feed URLs polled every cycle"`
	Server     ServerConfig     `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	Database   DatabaseConfig   `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Schedule   ScheduleConfig   `yaml:"schedule" json:"schedule" jsonschema:"description=Scheduler configuration"`
	Fetch      FetchConfig      `yaml:"fetch" json:"fetch" jsonschema:"description=Feed fetching configuration"`
	Content    ContentConfig    `yaml:"content" json:"content" jsonschema:"description=Text cleaning configuration"`
	LLM        LLMConfig        `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for article summarization"`
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Article page extraction configuration"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Listen       string        `yaml:"listen" json:"listen" jsonschema:"required,minLength=1,default=:8080,description=HTTP server listen address"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"description=HTTP server timeout (default 30s)"`
	BaseURL      string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Public base URL used in sitemap and RSS links"`
	SiteTitle    string        `yaml:"site_title" json:"site_title" jsonschema:"default=NewsBrief,description=Site title shown in pages and RSS"`
	PageSize     int           `yaml:"page_size" json:"page_size" jsonschema:"default=20,minimum=1,description=News per page"`
	TriggerToken string        `yaml:"trigger_token" json:"trigger_token" jsonschema:"description=Secret token for the refresh endpoint; empty disables it"`
	TriggerRate  int           `yaml:"trigger_rate" json:"trigger_rate" jsonschema:"default=6,minimum=1,description=Refresh requests allowed per minute"`
	AdsTxt       string        `yaml:"ads_txt" json:"ads_txt" jsonschema:"description=Content served as /ads.txt; empty returns 404"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"required,minLength=1,description=Database connection string (sqlite file or postgres:// URL)"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// ScheduleConfig holds ingestion cycle settings
type ScheduleConfig struct {
	UpdateInterval time.Duration `yaml:"update_interval" json:"update_interval" jsonschema:"description=Interval between ingestion cycles (default 30m)"`
}

// FetchConfig holds feed fetching settings
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"description=Feed request timeout (default 10s)"`
	UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"description=User agent for feed requests (default desktop browser)"`
}

// ContentConfig holds text cleaning limits, both counted in characters
type ContentConfig struct {
	MinLength int `yaml:"min_length" json:"min_length" jsonschema:"default=50,minimum=1,description=Minimum cleaned body length worth summarizing"`
	MaxLength int `yaml:"max_length" json:"max_length" jsonschema:"default=1500,minimum=1,description=Maximum body length sent to the LLM"`
}

// LLMConfig holds LLM configuration for article summarization
type LLMConfig struct {
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" jsonschema:"required,minLength=1,description=Model name (e.g. gemini-2.0-flash or gpt-4o-mini)"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=1024,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"description=Request timeout (default 60s)"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt for the LLM (optional)"`
	UseJSONMode  bool          `yaml:"use_json_mode" json:"use_json_mode" jsonschema:"default=true,description=Use JSON response format (not all models support this)"`
	MaxBodyChars int           `yaml:"-" json:"-"`
}

// ExtractionConfig holds article page extraction settings
type ExtractionConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Fetch the article page when the feed body is too short"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"description=Extraction timeout per article (default 30s)"`
	UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"description=User agent for article requests"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	// booleans defaulting to true have to be set before unmarshal
	cfg := Config{LLM: LLMConfig{UseJSONMode: true}}
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.SetDefaults()

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		return nil, fmt.Errorf("verify config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults fills every unset value with its default
func (c *Config) SetDefaults() {
	if len(c.Feeds) == 0 {
		c.Feeds = append([]string(nil), DefaultFeeds...)
	}

	// set defaults for server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}
	if c.Server.SiteTitle == "" {
		c.Server.SiteTitle = "NewsBrief"
	}
	if c.Server.PageSize == 0 {
		c.Server.PageSize = 20
	}
	if c.Server.TriggerRate == 0 {
		c.Server.TriggerRate = 6
	}

	// set defaults for database
	if c.Database.DSN == "" {
		c.Database.DSN = DefaultDSN
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	if c.Schedule.UpdateInterval == 0 {
		c.Schedule.UpdateInterval = 30 * time.Minute
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 10 * time.Second
	}

	if c.Content.MinLength == 0 {
		c.Content.MinLength = 50
	}
	if c.Content.MaxLength == 0 {
		c.Content.MaxLength = 1500
	}

	// set defaults for LLM, GOOGLE_API_KEY is the legacy key variable
	if c.LLM.Endpoint == "" {
		c.LLM.Endpoint = DefaultEndpoint
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.3
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1024
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}
	c.LLM.MaxBodyChars = c.Content.MaxLength

	// set defaults for extraction
	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 30 * time.Second
	}
	if c.Extraction.UserAgent == "" {
		c.Extraction.UserAgent = c.Fetch.UserAgent
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	for _, f := range cfg.Feeds {
		u, err := url.Parse(f)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid feed url %q", f)
		}
	}

	// validate LLM config
	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.Timeout < time.Second {
		return fmt.Errorf("llm timeout must be at least 1 second")
	}

	if cfg.Content.MinLength < 1 {
		return fmt.Errorf("content.min_length must be positive")
	}
	if cfg.Content.MaxLength < cfg.Content.MinLength {
		return fmt.Errorf("content.max_length must not be below content.min_length")
	}

	if cfg.Schedule.UpdateInterval < time.Minute {
		return fmt.Errorf("schedule.update_interval must be at least 1 minute")
	}
	if cfg.Fetch.Timeout < time.Second {
		return fmt.Errorf("fetch timeout must be at least 1 second")
	}

	// validate extraction config
	if cfg.Extraction.Enabled && cfg.Extraction.Timeout < time.Second {
		return fmt.Errorf("extraction timeout must be at least 1 second")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Server.PageSize < 1 {
		return fmt.Errorf("server.page_size must be at least 1")
	}
	if cfg.Server.TriggerRate < 1 {
		return fmt.Errorf("server.trigger_rate must be at least 1")
	}
	if u, err := url.Parse(cfg.Server.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.base_url must be an absolute URL")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() ServerConfig {
	return c.Server
}

// GetExtractionConfig returns content extraction configuration
func (c *Config) GetExtractionConfig() ExtractionConfig {
	return c.Extraction
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}

// GetFeeds returns the configured feed URLs
func (c *Config) GetFeeds() []string {
	return c.Feeds
}
