package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/tradeguard/stake"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the complete application configuration.
type Config struct {
	Settings SettingsConfig `json:"settings" yaml:"settings"`
	Storage  StorageConfig  `json:"storage" yaml:"storage"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Archive  ArchiveConfig  `json:"archive" yaml:"archive"`
	Hotkeys  HotkeysConfig  `json:"hotkeys" yaml:"hotkeys"`
	Log      LogConfig      `json:"log" yaml:"log"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics"`
}

// SettingsConfig holds the calculator settings used until the user edits
// and persists their own.
type SettingsConfig struct {
	InitialCapital        float64       `json:"initial_capital" yaml:"initial_capital"`
	InitialStake          float64       `json:"initial_stake" yaml:"initial_stake"`
	PayoutPercentage      *float64      `json:"payout_percentage,omitempty" yaml:"payout_percentage,omitempty"`
	WinIncreasePercentage float64       `json:"win_increase_percentage" yaml:"win_increase_percentage"`
	LossMultiplier        float64       `json:"loss_multiplier" yaml:"loss_multiplier"`
	MaxConsecutiveLosses  int           `json:"max_consecutive_losses" yaml:"max_consecutive_losses"`
	Assets                []AssetConfig `json:"assets" yaml:"assets"`
	SelectedAsset         int           `json:"selected_asset" yaml:"selected_asset"`
	StrategyName          string        `json:"strategy_name,omitempty" yaml:"strategy_name,omitempty"`
}

type AssetConfig struct {
	Name          string   `json:"name" yaml:"name"`
	DefaultPayout *float64 `json:"default_payout,omitempty" yaml:"default_payout,omitempty"`
}

// StorageConfig selects the persistence backend for settings and state.
type StorageConfig struct {
	Type  string      `json:"type" yaml:"type"` // "file", "sqlite", "mysql", "postgres" or "redis"
	Path  string      `json:"path,omitempty" yaml:"path,omitempty"`
	DSN   string      `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	Redis RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`
}

type RedisConfig struct {
	Addr     string `json:"addr,omitempty" yaml:"addr,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db,omitempty" yaml:"db,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type         string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile   string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	SessionsFile string `json:"sessions_file,omitempty" yaml:"sessions_file,omitempty"`
	DBPath       string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ArchiveConfig bounds the session archive. Zero keeps every session.
type ArchiveConfig struct {
	MaxSessions int `json:"max_sessions" yaml:"max_sessions"`
}

type HotkeysConfig struct {
	Win        string `json:"win" yaml:"win"`
	Loss       string `json:"loss" yaml:"loss"`
	NewSession string `json:"new_session" yaml:"new_session"`
	Reset      string `json:"reset" yaml:"reset"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn or error
}

type MetricsConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"` // empty disables the endpoint
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	return cfg, nil
}

// Load reads path, or starts from Default when path is empty, then applies
// .env and environment overrides. The result is validated once, after the
// overrides, so secrets may live only in the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = readFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides storage, journal and logging parameters from the
// environment. A .env file in the working directory is loaded first; real
// environment variables take precedence over it.
func (c *Config) ApplyEnv() error {
	_ = godotenv.Load()

	var err error
	c.Storage.Type = envStr("TRADEGUARD_STORAGE_TYPE", c.Storage.Type)
	c.Storage.Path = envStr("TRADEGUARD_STORAGE_PATH", c.Storage.Path)
	c.Storage.DSN = envStr("TRADEGUARD_STORAGE_DSN", c.Storage.DSN)
	c.Storage.Redis.Addr = envStr("TRADEGUARD_REDIS_ADDR", c.Storage.Redis.Addr)
	c.Storage.Redis.Password = envStr("TRADEGUARD_REDIS_PASSWORD", c.Storage.Redis.Password)
	if c.Storage.Redis.DB, err = envInt("TRADEGUARD_REDIS_DB", c.Storage.Redis.DB); err != nil {
		return err
	}
	c.Storage.Redis.Prefix = envStr("TRADEGUARD_REDIS_PREFIX", c.Storage.Redis.Prefix)

	c.Journal.Type = envStr("TRADEGUARD_JOURNAL_TYPE", c.Journal.Type)
	c.Journal.DBPath = envStr("TRADEGUARD_JOURNAL_DB", c.Journal.DBPath)

	if c.Archive.MaxSessions, err = envInt("TRADEGUARD_ARCHIVE_MAX_SESSIONS", c.Archive.MaxSessions); err != nil {
		return err
	}
	c.Log.Level = envStr("TRADEGUARD_LOG_LEVEL", c.Log.Level)
	c.Metrics.Addr = envStr("TRADEGUARD_METRICS_ADDR", c.Metrics.Addr)
	return nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Settings.ToSettings().Validate(); err != nil {
		return err
	}

	switch c.Storage.Type {
	case "file", "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path required for %s storage", c.Storage.Type)
		}
	case "mysql", "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn required for %s storage", c.Storage.Type)
		}
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr required for redis storage")
		}
	default:
		return fmt.Errorf("storage.type must be one of file, sqlite, mysql, postgres, redis")
	}

	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.SessionsFile == "" {
			return fmt.Errorf("journal trades_file and sessions_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}

	if c.Archive.MaxSessions < 0 {
		return fmt.Errorf("archive.max_sessions must not be negative")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}

	return c.Hotkeys.validate()
}

func (h HotkeysConfig) validate() error {
	seen := map[string]string{}
	for _, k := range []struct{ name, key string }{
		{"win", h.Win}, {"loss", h.Loss}, {"new_session", h.NewSession}, {"reset", h.Reset},
	} {
		if len([]rune(k.key)) != 1 {
			return fmt.Errorf("hotkeys.%s must be a single character", k.name)
		}
		key := strings.ToLower(k.key)
		if other, ok := seen[key]; ok {
			return fmt.Errorf("hotkeys.%s duplicates hotkeys.%s", k.name, other)
		}
		seen[key] = k.name
	}
	return nil
}

// ToSettings converts the configured values to engine settings.
func (s SettingsConfig) ToSettings() stake.Settings {
	out := stake.Settings{
		InitialCapital:        decimal.NewFromFloat(s.InitialCapital),
		InitialStake:          decimal.NewFromFloat(s.InitialStake),
		PayoutPercentage:      decPtr(s.PayoutPercentage),
		WinIncreasePercentage: decimal.NewFromFloat(s.WinIncreasePercentage),
		LossMultiplier:        decimal.NewFromFloat(s.LossMultiplier),
		MaxConsecutiveLosses:  s.MaxConsecutiveLosses,
		SelectedAsset:         s.SelectedAsset,
		StrategyName:          s.StrategyName,
	}
	for _, a := range s.Assets {
		out.Assets = append(out.Assets, stake.Asset{Name: a.Name, DefaultPayout: decPtr(a.DefaultPayout)})
	}
	return out
}

// FromSettings is the inverse of ToSettings.
func FromSettings(s stake.Settings) SettingsConfig {
	out := SettingsConfig{
		InitialCapital:        s.InitialCapital.InexactFloat64(),
		InitialStake:          s.InitialStake.InexactFloat64(),
		PayoutPercentage:      floatPtr(s.PayoutPercentage),
		WinIncreasePercentage: s.WinIncreasePercentage.InexactFloat64(),
		LossMultiplier:        s.LossMultiplier.InexactFloat64(),
		MaxConsecutiveLosses:  s.MaxConsecutiveLosses,
		SelectedAsset:         s.SelectedAsset,
		StrategyName:          s.StrategyName,
	}
	for _, a := range s.Assets {
		out.Assets = append(out.Assets, AssetConfig{Name: a.Name, DefaultPayout: floatPtr(a.DefaultPayout)})
	}
	return out
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Settings: FromSettings(stake.DefaultSettings()),
		Storage: StorageConfig{
			Type: "sqlite",
			Path: "./tradeguard.sqlite",
			Redis: RedisConfig{
				Prefix: "tg",
			},
		},
		Journal: JournalConfig{
			Type:         "sqlite",
			TradesFile:   "./trades.csv",
			SessionsFile: "./sessions.csv",
			DBPath:       "./journal.sqlite",
		},
		Hotkeys: HotkeysConfig{
			Win:        "w",
			Loss:       "l",
			NewSession: "n",
			Reset:      "r",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func decPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

func floatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
