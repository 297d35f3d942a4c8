package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable applyEnv reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ALPHAVANTAGE_API_KEY", "ALPHAVANTAGE_BASE_URL", "ALPHAVANTAGE_MAX_RPM",
		"ALPHAVANTAGE_MIN_INTERVAL_SEC", "ALPHAVANTAGE_BURST", "SYMBOLS", "CSV_FILE",
		"INTERVAL_SEC", "POLL_SEC", "REQUEST_TIMEOUT_SEC", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, []string{"AAPL", "MSFT", "GOOG", "NVDA", "IBM", "TSLA", "AMZN", "META", "CAT", "AMD"}, cfg.Symbols)
	require.Equal(t, "multiple_stocks_data.csv", cfg.OutputFile)
	require.Equal(t, time.Hour, cfg.Interval())
	require.Equal(t, time.Second, cfg.PollInterval())
	// no API key ships with the defaults
	require.Error(t, cfg.Validate())
}

func TestLoad_JSON(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"alphavantage": {"api_key": "from-file", "max_requests_per_minute": 5},
		"symbols": ["IBM", "CAT"],
		"output_file": "out/quotes.csv",
		"schedule": {"interval_sec": 36}
	}`), 0o644))

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err, "an explicit env file must exist")

	cfg, err = Load(path, writeEnv(t, ""))
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.AlphaVantage.APIKey)
	require.Equal(t, 5, cfg.AlphaVantage.MaxRequestsPerMinute)
	require.Equal(t, []string{"IBM", "CAT"}, cfg.Symbols)
	require.Equal(t, "out/quotes.csv", cfg.OutputFile)
	require.Equal(t, 36*time.Second, cfg.Interval())
	// untouched keys keep their defaults
	require.Equal(t, 1, cfg.Schedule.PollSec)
	require.Equal(t, "https://www.alphavantage.co", cfg.AlphaVantage.BaseURL)
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
alphavantage:
  api_key: yaml-key
  min_request_interval_sec: 12
symbols: [NVDA, AMD]
schedule:
  interval_sec: 60
  poll_sec: 2
log_level: debug
`), 0o644))

	cfg, err := Load(path, writeEnv(t, ""))
	require.NoError(t, err)
	require.Equal(t, "yaml-key", cfg.AlphaVantage.APIKey)
	require.Equal(t, 12*time.Second, cfg.MinRequestInterval())
	require.Equal(t, []string{"NVDA", "AMD"}, cfg.Symbols)
	require.Equal(t, 2*time.Second, cfg.PollInterval())
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_BadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"symbols": "AAPL"`), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"alphavantage": {"api_key": "from-file"}}`), 0o644))

	t.Setenv("ALPHAVANTAGE_API_KEY", "from-env")
	t.Setenv("SYMBOLS", " AAPL, ,MSFT ")
	t.Setenv("CSV_FILE", "env.csv")
	t.Setenv("INTERVAL_SEC", "90")
	t.Setenv("POLL_SEC", "not-a-number")
	t.Setenv("ALPHAVANTAGE_MAX_RPM", "5")

	cfg, err := Load(path, writeEnv(t, ""))
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.AlphaVantage.APIKey)
	require.Equal(t, []string{"AAPL", "MSFT"}, cfg.Symbols)
	require.Equal(t, "env.csv", cfg.OutputFile)
	require.Equal(t, 90*time.Second, cfg.Interval())
	require.Equal(t, time.Second, cfg.PollInterval())
	require.Equal(t, 5, cfg.AlphaVantage.MaxRequestsPerMinute)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	env := writeEnv(t, "ALPHAVANTAGE_API_KEY=dotenv-key\nCSV_FILE=dotenv.csv\n")
	t.Setenv("CSV_FILE", "process.csv")
	t.Cleanup(func() { _ = os.Unsetenv("ALPHAVANTAGE_API_KEY") })

	cfg, err := Load("", env)
	require.NoError(t, err)
	require.Equal(t, "dotenv-key", cfg.AlphaVantage.APIKey)
	require.Equal(t, "process.csv", cfg.OutputFile)
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.AlphaVantage.APIKey = "k"
	require.NoError(t, valid.Validate())

	tests := map[string]func(*Config){
		"no key":        func(c *Config) { c.AlphaVantage.APIKey = "" },
		"no base url":   func(c *Config) { c.AlphaVantage.BaseURL = "" },
		"no symbols":    func(c *Config) { c.Symbols = nil },
		"blank symbol":  func(c *Config) { c.Symbols = []string{"AAPL", " "} },
		"no output":     func(c *Config) { c.OutputFile = "" },
		"zero interval": func(c *Config) { c.Schedule.IntervalSec = 0 },
		"zero poll":     func(c *Config) { c.Schedule.PollSec = 0 },
		"zero timeout":  func(c *Config) { c.RequestTimeoutSec = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			cfg.Symbols = append([]string(nil), valid.Symbols...)
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestSplitCSV(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, SplitCSV(" a,,b ,"))
	require.Empty(t, SplitCSV(""))
}

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
