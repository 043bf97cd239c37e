package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.SetDefaults()
		return cfg
	}

	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{name: "valid config", modify: func(*Config) {}},
		{name: "missing feeds", modify: func(c *Config) { c.Feeds = nil }, errMsg: "at '/feeds': got null, want array"},
		{name: "empty feeds", modify: func(c *Config) { c.Feeds = []string{} }, errMsg: "at '/feeds': minItems: got 0, want 1"},
		{name: "missing listen", modify: func(c *Config) { c.Server.Listen = "" }, errMsg: "at '/server/listen': minLength"},
		{name: "missing dsn", modify: func(c *Config) { c.Database.DSN = "" }, errMsg: "at '/database/dsn': minLength"},
		{name: "missing model", modify: func(c *Config) { c.LLM.Model = "" }, errMsg: "at '/llm/model': minLength"},
		{name: "page size below minimum", modify: func(c *Config) { c.Server.PageSize = -5 },
			errMsg: "at '/server/page_size': minimum: got -5, want 1"},
		{name: "min length below minimum", modify: func(c *Config) { c.Content.MinLength = -1 },
			errMsg: "at '/content/min_length': minimum: got -1, want 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := VerifyAgainstEmbeddedSchema(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestVerify_SchemaErrors(t *testing.T) {
	cfg := &Config{Feeds: []string{"https://example.com/rss"}}
	cfg.SetDefaults()

	t.Run("invalid schema", func(t *testing.T) {
		err := verify(cfg, "{not json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse embedded schema")
	})

	t.Run("schema doesn't compile", func(t *testing.T) {
		err := verify(cfg, `{"type":"object","properties":{"feeds":{"minItems":"one"}}}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "compile schema")
	})

	t.Run("unknown property", func(t *testing.T) {
		schema := `{"$ref":"#/$defs/Config","$defs":{"Config":{"type":"object","properties":{"feeds":{"type":"array"}},
			"additionalProperties":false}}}`
		err := verify(cfg, schema)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
		assert.Contains(t, err.Error(), "additional properties")
	})

	t.Run("type mismatch", func(t *testing.T) {
		err := verify(cfg, `{"type":"object","properties":{"feeds":{"type":"string"}}}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at '/feeds': got array, want string")
	})
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema()
	require.NotNil(t, schema)
	def, ok := schema.Definitions["Config"]
	require.True(t, ok)
	assert.Equal(t, []string{"feeds"}, def.Required)
	_, ok = def.Properties.Get("llm")
	assert.True(t, ok)

	feeds, ok := def.Properties.Get("feeds")
	require.True(t, ok)
	require.NotNil(t, feeds.MinItems)
	assert.Equal(t, uint64(1), *feeds.MinItems)
}
