package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AlphaVantage struct {
	APIKey                string `json:"api_key" yaml:"api_key"`
	BaseURL               string `json:"base_url" yaml:"base_url"`
	MaxRequestsPerMinute  int    `json:"max_requests_per_minute" yaml:"max_requests_per_minute"`
	MinRequestIntervalSec int    `json:"min_request_interval_sec" yaml:"min_request_interval_sec"`
	Burst                 int    `json:"burst" yaml:"burst"`
}

type Schedule struct {
	IntervalSec int `json:"interval_sec" yaml:"interval_sec"`
	PollSec     int `json:"poll_sec" yaml:"poll_sec"`
}

type Config struct {
	AlphaVantage      AlphaVantage `json:"alphavantage" yaml:"alphavantage"`
	Symbols           []string     `json:"symbols" yaml:"symbols"`
	OutputFile        string       `json:"output_file" yaml:"output_file"`
	Schedule          Schedule     `json:"schedule" yaml:"schedule"`
	RequestTimeoutSec int          `json:"request_timeout_sec" yaml:"request_timeout_sec"`
	LogLevel          string       `json:"log_level" yaml:"log_level"`
}

func Default() Config {
	return Config{
		AlphaVantage: AlphaVantage{
			BaseURL: "https://www.alphavantage.co",
			Burst:   1,
		},
		Symbols:           []string{"AAPL", "MSFT", "GOOG", "NVDA", "IBM", "TSLA", "AMZN", "META", "CAT", "AMD"},
		OutputFile:        "multiple_stocks_data.csv",
		Schedule:          Schedule{IntervalSec: 3600, PollSec: 1},
		RequestTimeoutSec: 15,
		LogLevel:          "info",
	}
}

// Load reads the config file at path (JSON, or YAML for .yaml/.yml). If path
// is empty, config.json in the working directory is used when present.
// Variables from envFiles (default .env when present) are loaded into the
// process environment without overriding it, then the environment overrides
// the file.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := decode(path, b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return cfg, fmt.Errorf("load env file: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func decode(path string, b []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return json.Unmarshal(b, cfg)
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("ALPHAVANTAGE_BASE_URL"); v != "" {
		cfg.AlphaVantage.BaseURL = v
	}
	if x, ok := envInt("ALPHAVANTAGE_MAX_RPM"); ok && x >= 0 {
		cfg.AlphaVantage.MaxRequestsPerMinute = x
	}
	if x, ok := envInt("ALPHAVANTAGE_MIN_INTERVAL_SEC"); ok && x >= 0 {
		cfg.AlphaVantage.MinRequestIntervalSec = x
	}
	if x, ok := envInt("ALPHAVANTAGE_BURST"); ok && x > 0 {
		cfg.AlphaVantage.Burst = x
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.Symbols = SplitCSV(v)
	}
	if v := os.Getenv("CSV_FILE"); v != "" {
		cfg.OutputFile = v
	}
	if x, ok := envInt("INTERVAL_SEC"); ok && x > 0 {
		cfg.Schedule.IntervalSec = x
	}
	if x, ok := envInt("POLL_SEC"); ok && x > 0 {
		cfg.Schedule.PollSec = x
	}
	if x, ok := envInt("REQUEST_TIMEOUT_SEC"); ok && x > 0 {
		cfg.RequestTimeoutSec = x
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	x, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return x, true
}

// Validate reports the first setting that prevents the collector from starting.
func (c Config) Validate() error {
	if c.AlphaVantage.APIKey == "" {
		return errors.New("missing API key: set alphavantage.api_key or ALPHAVANTAGE_API_KEY")
	}
	if c.AlphaVantage.BaseURL == "" {
		return errors.New("missing alphavantage.base_url")
	}
	if len(c.Symbols) == 0 {
		return errors.New("no symbols configured")
	}
	for _, s := range c.Symbols {
		if strings.TrimSpace(s) == "" {
			return errors.New("empty symbol in list")
		}
	}
	if c.OutputFile == "" {
		return errors.New("missing output_file")
	}
	if c.Schedule.IntervalSec <= 0 {
		return fmt.Errorf("invalid schedule.interval_sec: %d", c.Schedule.IntervalSec)
	}
	if c.Schedule.PollSec <= 0 {
		return fmt.Errorf("invalid schedule.poll_sec: %d", c.Schedule.PollSec)
	}
	if c.RequestTimeoutSec <= 0 {
		return fmt.Errorf("invalid request_timeout_sec: %d", c.RequestTimeoutSec)
	}
	return nil
}

func (c Config) Interval() time.Duration { return time.Duration(c.Schedule.IntervalSec) * time.Second }

func (c Config) PollInterval() time.Duration { return time.Duration(c.Schedule.PollSec) * time.Second }

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

func (c Config) MinRequestInterval() time.Duration {
	return time.Duration(c.AlphaVantage.MinRequestIntervalSec) * time.Second
}

// SplitCSV splits a comma separated list, dropping blank entries.
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
