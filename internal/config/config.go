package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Input struct {
		File   string `yaml:"file"`
		Sheet  string `yaml:"sheet"`
		Column string `yaml:"column"`
	} `yaml:"input"`
	Output struct {
		File        string `yaml:"file"`
		RawFile     string `yaml:"raw_file"`
		CleanedFile string `yaml:"cleaned_file"`
		RoundTrip   bool   `yaml:"round_trip"`
	} `yaml:"output"`
	History struct {
		LookbackDays int `yaml:"lookback_days"`
	} `yaml:"history"`
	Proximity struct {
		Ratio float64 `yaml:"ratio"`
	} `yaml:"proximity"`
	DataSource struct {
		BaseURL           string  `yaml:"base_url"`
		APIKey            string  `yaml:"api_key"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"data_source"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("INPUT_FILE"); v != "" {
		c.Input.File = v
	}
	if v := os.Getenv("OUTPUT_FILE"); v != "" {
		c.Output.File = v
	}
	if v := os.Getenv("ROUND_TRIP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Output.RoundTrip = b
		}
	}
	if v := os.Getenv("LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.History.LookbackDays = n
		}
	}
	if v := os.Getenv("DATA_SOURCE_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_SOURCE_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		c.Schedule.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
}

// Validate checks that all required fields are set and values are in range.
func (c *Config) Validate() error {
	if c.Input.File == "" {
		return fmt.Errorf("input.file is required")
	}
	if c.Output.File == "" {
		return fmt.Errorf("output.file is required")
	}
	if c.Output.RoundTrip {
		if c.Output.RawFile == "" || c.Output.CleanedFile == "" {
			return fmt.Errorf("output.raw_file and output.cleaned_file are required in round_trip mode")
		}
		if c.Output.RawFile == c.Output.File || c.Output.CleanedFile == c.Output.File || c.Output.RawFile == c.Output.CleanedFile {
			return fmt.Errorf("output files must be distinct")
		}
	}
	if c.History.LookbackDays < 1 {
		return fmt.Errorf("history.lookback_days must be >= 1, got %d", c.History.LookbackDays)
	}
	if c.Proximity.Ratio <= 0 || c.Proximity.Ratio >= 1 {
		return fmt.Errorf("proximity.ratio must be between 0 and 1, got %g", c.Proximity.Ratio)
	}
	if c.DataSource.RequestsPerSecond < 0 {
		return fmt.Errorf("data_source.requests_per_second must be >= 0")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// TelegramEnabled reports whether notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
