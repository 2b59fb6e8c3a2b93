package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the agent service
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Planner PlannerConfig `mapstructure:"planner"`
	Tools   ToolsConfig   `mapstructure:"tools"`
	Storage StorageConfig `mapstructure:"storage"`
	Janitor JanitorConfig `mapstructure:"janitor"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig contains LLM provider configurations
type LLMConfig struct {
	Providers map[string]ProviderConfig `mapstructure:"providers"`
	Preferred string                    `mapstructure:"preferred"`
	Synthesis SynthesisConfig           `mapstructure:"synthesis"`
}

// ProviderConfig represents a single LLM provider configuration
type ProviderConfig struct {
	Type    string        `mapstructure:"type"` // openai, anthropic, local
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SynthesisConfig controls the response-synthesis request parameters.
type SynthesisConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// PlannerConfig selects the planning strategy
type PlannerConfig struct {
	Mode string `mapstructure:"mode"` // rules or llm
}

// ToolsConfig carries the tool allow-list used by plan validation
type ToolsConfig struct {
	Allowed []string `mapstructure:"allowed"`
}

// StorageConfig contains conversation store settings
type StorageConfig struct {
	Driver   string         `mapstructure:"driver"` // postgres, redis or memory
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JanitorConfig controls the background conversation sweeper
type JanitorConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Cron      string        `mapstructure:"cron"`
	IdleAfter time.Duration `mapstructure:"idle_after"`
}

// DSN builds a postgres connection string from the configured parts.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	host := p.Host
	if host == "" {
		host = "localhost"
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, host, port, p.DBName, ssl)
}

// Addr returns the host:port address for Redis.
func (r RedisConfig) Addr() string {
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return fmt.Sprintf("%s:%s", r.Host, port)
}

func (s ServerConfig) Validate() error {
	if s.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	return nil
}

func (l LLMConfig) Validate() error {
	for name, p := range l.Providers {
		switch p.Type {
		case "openai", "anthropic", "local":
		default:
			return fmt.Errorf("llm.providers.%s.type %q is not supported", name, p.Type)
		}
	}
	return nil
}

func (p PlannerConfig) Validate() error {
	if p.Mode != "rules" && p.Mode != "llm" {
		return fmt.Errorf("planner.mode must be rules or llm, got %q", p.Mode)
	}
	return nil
}

func (t ToolsConfig) Validate() error {
	if len(t.Allowed) == 0 {
		return fmt.Errorf("tools.allowed must list at least one tool")
	}
	return nil
}

// Load reads configuration from the given file (or the default search paths)
// and applies environment overrides with the AGENTD_ prefix.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("AGENTD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; defaults plus env cover the full surface.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("llm.preferred", "openai")
	v.SetDefault("llm.synthesis.temperature", 0.7)
	v.SetDefault("llm.synthesis.max_tokens", 1000)
	v.SetDefault("llm.providers.openai.type", "openai")
	v.SetDefault("llm.providers.openai.model", "gpt-4")
	v.SetDefault("llm.providers.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.providers.openai.timeout", "30s")
	v.SetDefault("llm.providers.anthropic.type", "anthropic")
	v.SetDefault("llm.providers.anthropic.model", "claude-3-5-sonnet-latest")
	v.SetDefault("llm.providers.anthropic.base_url", "https://api.anthropic.com")
	v.SetDefault("llm.providers.anthropic.timeout", "30s")
	v.SetDefault("planner.mode", "rules")
	v.SetDefault("tools.allowed", []string{"customer_search", "send_email_reminder"})
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("storage.postgres.sslmode", "disable")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("janitor.enabled", false)
	v.SetDefault("janitor.cron", "@hourly")
	v.SetDefault("janitor.idle_after", "24h")
}

// overrideFromEnv picks up the conventional vendor env vars for API keys so
// they never have to live in the config file.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if p, ok := cfg.LLM.Providers["openai"]; ok && p.APIKey == "" {
			p.APIKey = key
			cfg.LLM.Providers["openai"] = p
		}
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		if p, ok := cfg.LLM.Providers["anthropic"]; ok && p.APIKey == "" {
			p.APIKey = key
			cfg.LLM.Providers["anthropic"] = p
		}
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" && cfg.Storage.Postgres.URL == "" {
		cfg.Storage.Postgres.URL = dsn
	}
}

func validate(cfg *Config) error {
	if err := cfg.Server.Validate(); err != nil {
		return err
	}
	if err := cfg.LLM.Validate(); err != nil {
		return err
	}
	if err := cfg.Planner.Validate(); err != nil {
		return err
	}
	return cfg.Tools.Validate()
}
