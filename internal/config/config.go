package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for docassist
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Documents DocumentsConfig `mapstructure:"documents" yaml:"documents"`
	Search    SearchConfig    `mapstructure:"search" yaml:"search"`
	LLM       LLMConfig       `mapstructure:"llm" yaml:"llm"`
	Client    ClientConfig    `mapstructure:"client" yaml:"client"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host" yaml:"host"`
	Port         int      `mapstructure:"port" yaml:"port"`
	AllowOrigins []string `mapstructure:"allow_origins" yaml:"allow_origins"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// DocumentsConfig holds the documentation folder configuration
type DocumentsConfig struct {
	Path          string        `mapstructure:"path" yaml:"path"`
	LoadOnStart   bool          `mapstructure:"load_on_start" yaml:"load_on_start"`
	Watch         bool          `mapstructure:"watch" yaml:"watch"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce" yaml:"watch_debounce"`
}

// SearchConfig holds keyword search configuration
type SearchConfig struct {
	Limit         int `mapstructure:"limit" yaml:"limit"`
	MinWordLength int `mapstructure:"min_word_length" yaml:"min_word_length"`
}

// LLMConfig holds LLM provider configuration
type LLMConfig struct {
	Provider string `mapstructure:"provider" yaml:"provider"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	APIKey   string `mapstructure:"api_key" yaml:"api_key"`
	Model    string `mapstructure:"model" yaml:"model"`
}

// ClientConfig holds configuration for the chat widget and one-shot commands
type ClientConfig struct {
	BaseURL  string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Markdown bool          `mapstructure:"markdown" yaml:"markdown"`
	LogFile  string        `mapstructure:"log_file" yaml:"log_file"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	// A missing .env is not an error
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("DOCASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("database.path", "./data/documentation.db")

	v.SetDefault("documents.path", "./documentation")
	v.SetDefault("documents.load_on_start", true)
	v.SetDefault("documents.watch", false)
	v.SetDefault("documents.watch_debounce", 2*time.Second)

	v.SetDefault("search.limit", 5)
	v.SetDefault("search.min_word_length", 3)

	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.base_url", "http://localhost:11434/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "mistral")

	v.SetDefault("client.base_url", "http://127.0.0.1:5000")
	v.SetDefault("client.timeout", 2*time.Minute)
	v.SetDefault("client.markdown", false)
	v.SetDefault("client.log_file", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Validate checks values viper cannot constrain on its own
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Search.Limit <= 0 {
		return fmt.Errorf("invalid search.limit: %d", c.Search.Limit)
	}
	switch c.LLM.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("unknown llm.provider: %s", c.LLM.Provider)
	}
	if c.LLM.Provider == "openai" && c.LLM.APIKey == "" {
		return fmt.Errorf("llm.provider openai requires llm.api_key")
	}
	return nil
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
