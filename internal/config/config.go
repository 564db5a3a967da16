package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	AlphaVantage AlphaVantageConfig `yaml:"alpha_vantage"`
	OpenAI       OpenAIConfig       `yaml:"openai"`
	SMTP         SMTPConfig         `yaml:"smtp"`
	Telegram     TelegramConfig     `yaml:"telegram"`
	Auth         AuthConfig         `yaml:"auth"`
	Logging      LoggingConfig      `yaml:"logging"`
}

type ServerConfig struct {
	Port           int    `yaml:"port"`
	FrontendOrigin string `yaml:"frontend_origin"`
	StaticDir      string `yaml:"static_dir"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AlphaVantageConfig struct {
	APIKey string `yaml:"api_key"`
}

type OpenAIConfig struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	StartTLS *bool  `yaml:"starttls"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type AuthConfig struct {
	CodeTTLMinutes int `yaml:"code_ttl_minutes"`
	SessionTTLDays int `yaml:"session_ttl_days"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the YAML config at path. A missing file is not an error: every
// setting has a default and API keys can come from the environment, so the
// server can start with no config file at all.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.FrontendOrigin == "" {
		cfg.Server.FrontendOrigin = "http://localhost:3000"
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = "static"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/market.db"
	}
	if cfg.AlphaVantage.APIKey == "" {
		cfg.AlphaVantage.APIKey = os.Getenv("ALPHA_VANTAGE_API_KEY")
	}
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.OpenAI.TimeoutSeconds == 0 {
		cfg.OpenAI.TimeoutSeconds = 60
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = "no-reply@localhost"
	}
	if cfg.Auth.CodeTTLMinutes == 0 {
		cfg.Auth.CodeTTLMinutes = 10
	}
	if cfg.Auth.SessionTTLDays == 0 {
		cfg.Auth.SessionTTLDays = 7
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Auth.CodeTTLMinutes < 0 || c.Auth.SessionTTLDays < 0 {
		return fmt.Errorf("auth TTLs must be positive")
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	return nil
}

func (c *Config) OpenAITimeout() time.Duration {
	return time.Duration(c.OpenAI.TimeoutSeconds) * time.Second
}

func (c *Config) CodeTTL() time.Duration {
	return time.Duration(c.Auth.CodeTTLMinutes) * time.Minute
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLDays) * 24 * time.Hour
}

// SMTPStartTLS defaults to true when unset.
func (c *Config) SMTPStartTLS() bool {
	if c.SMTP.StartTLS == nil {
		return true
	}
	return *c.SMTP.StartTLS
}
