package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const appName = "homeloan"

// Environment variables that override the config file.
const (
	EnvTheme      = "HOMELOAN_THEME"
	EnvServerAddr = "HOMELOAN_SERVER_ADDR"
	EnvStoreDSN   = "HOMELOAN_STORE_DSN"
	EnvRateLimit  = "HOMELOAN_RATE_LIMIT"
)

// Config holds all homeloan configuration.
type Config struct {
	Loan       LoanConfig       `toml:"loan"`
	Income     IncomeConfig     `toml:"income"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Store      StoreConfig      `toml:"store"`
}

// LoanConfig holds the values the calculator starts from.
type LoanConfig struct {
	HomePrice          float64 `toml:"home_price"`
	DownPaymentPercent float64 `toml:"down_payment_percent"`
	AnnualRatePercent  float64 `toml:"annual_rate_percent"`
	TermYears          int     `toml:"term_years"`
	Frequency          string  `toml:"frequency"`
}

// IncomeConfig holds income projection defaults.
type IncomeConfig struct {
	MonthlyIncome     float64 `toml:"monthly_income"`
	GrowthRatePercent float64 `toml:"growth_rate_percent"`
	Years             int     `toml:"years"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// RateLimit is the sustained requests per second; Burst the bucket size.
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
	CacheTTL  string  `toml:"cache_ttl"`
}

// StoreConfig holds the session store location.
type StoreConfig struct {
	DSN string `toml:"dsn"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Loan: LoanConfig{
			HomePrice:          500000,
			DownPaymentPercent: 20,
			AnnualRatePercent:  4.5,
			TermYears:          30,
			Frequency:          "monthly",
		},
		Income: IncomeConfig{
			MonthlyIncome:     5000,
			GrowthRatePercent: 3,
			Years:             10,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8787",
			RateLimit: 20,
			Burst:     40,
			CacheTTL:  "10m",
		},
		Store: StoreConfig{
			DSN: "file:homeloan?mode=memory&cache=shared",
		},
	}
}

// CacheTTLDuration parses Server.CacheTTL, falling back to ten minutes.
func (c Config) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.Server.CacheTTL)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// A .env file in the working directory is loaded first and environment
// overrides are applied last.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Appearance.Theme = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvStoreDSN); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv(EnvRateLimit); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Server.RateLimit = f
		}
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
