package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Port            string        `mapstructure:"port"`             // HTTP listen port
	LogLevel        string        `mapstructure:"log_level"`        // zerolog level name
	LogPretty       bool          `mapstructure:"log_pretty"`       // human-readable console output
	DBPath          string        `mapstructure:"db_path"`          // SQLite file; empty keeps state in memory
	WordsDir        string        `mapstructure:"words_dir"`        // directory with words-<lang>.json; empty uses embedded lists
	DefaultLanguage string        `mapstructure:"default_language"` // language of the first round
	DefaultCategory string        `mapstructure:"default_category"` // word category of new rounds; empty uses every word
	DailySalt       string        `mapstructure:"daily_salt"`       // secret for the word of the day
	ClientOrigin    string        `mapstructure:"client_origin"`    // allowed CORS origin
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`  // per-request handler budget
}

// Load reads configuration from an optional ./config/config.yaml and the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("port", "5175")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("db_path", "./data/hangman.db")
	v.SetDefault("words_dir", "")
	v.SetDefault("default_language", "ar")
	v.SetDefault("default_category", "")
	v.SetDefault("daily_salt", "local_dev_salt")
	v.SetDefault("client_origin", "http://localhost:5173")
	v.SetDefault("request_timeout", "10s")

	// PORT, LOG_LEVEL, DB_PATH, ... An explicitly empty DB_PATH selects the
	// in-memory store, so empty values are honoured.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return &cfg, nil
}
