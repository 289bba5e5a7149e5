package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5000", cfg.Address())
	assert.Equal(t, "./documentation", cfg.Documents.Path)
	assert.True(t, cfg.Documents.LoadOnStart)
	assert.Equal(t, 2*time.Second, cfg.Documents.WatchDebounce)
	assert.Equal(t, 5, cfg.Search.Limit)
	assert.Equal(t, 3, cfg.Search.MinWordLength)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.Client.BaseURL)
	assert.Equal(t, 2*time.Minute, cfg.Client.Timeout)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docassist.yaml")
	data := []byte(`
server:
  port: 8081
documents:
  path: /srv/docs
  watch: true
  watch_debounce: 500ms
client:
  timeout: 10s
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "/srv/docs", cfg.Documents.Path)
	assert.True(t, cfg.Documents.Watch)
	assert.Equal(t, 500*time.Millisecond, cfg.Documents.WatchDebounce)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DOCASSIST_LLM_MODEL", "llama3.1:8b")
	t.Setenv("DOCASSIST_SERVER_PORT", "9000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "llama3.1:8b", cfg.LLM.Model)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: ServerConfig{Port: 5000},
			Search: SearchConfig{Limit: 5},
			LLM:    LLMConfig{Provider: "ollama"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"bad limit", func(c *Config) { c.Search.Limit = 0 }, true},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "gemini" }, true},
		{"openai without key", func(c *Config) { c.LLM.Provider = "openai" }, true},
		{"openai with key", func(c *Config) {
			c.LLM.Provider = "openai"
			c.LLM.APIKey = "sk-test"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
