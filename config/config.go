// Package config contains solve3 configuration definitions.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/solve3/go-solve3/engine"
	"github.com/solve3/go-solve3/log"
)

const (
	defaultDataDir = "./solve3"
	databaseFile   = "state.sql"
	lockFile       = "solve3.lock"
)

// Config defines the top level configuration.
type Config struct {
	BaseConfig `mapstructure:"main"`
	Engine     engine.Config `mapstructure:"engine"`
	Logging    LoggerConfig  `mapstructure:"logging"`
}

// BaseConfig defines storage and telemetry options.
type BaseConfig struct {
	DataDir    string `mapstructure:"data-folder"`
	ConfigFile string `mapstructure:"config"`
	// FileLock guards the data folder against a second server. Defaults to a file
	// inside of the data folder.
	FileLock string `mapstructure:"filelock"`

	CollectMetrics bool `mapstructure:"metrics"`
	MetricsPort    int  `mapstructure:"metrics-port"`

	DatabaseConnections     int           `mapstructure:"db-connections"`
	DatabaseBusyTimeout     time.Duration `mapstructure:"db-busy-timeout"`
	DatabaseLatencyMetering bool          `mapstructure:"db-latency-metering"`
}

// LoggerConfig holds the logging level for each module.
type LoggerConfig struct {
	Encoder  string `mapstructure:"log-encoder"`
	App      string `mapstructure:"app"`
	Engine   string `mapstructure:"engine"`
	Signers  string `mapstructure:"signers"`
	Campaign string `mapstructure:"campaign"`
	Token    string `mapstructure:"token"`
	Database string `mapstructure:"database"`
}

func defaultLoggingConfig() LoggerConfig {
	return LoggerConfig{
		Encoder:  log.ConsoleEncoder,
		App:      "info",
		Engine:   "info",
		Signers:  "info",
		Campaign: "info",
		Token:    "warn",
		Database: "warn",
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BaseConfig: BaseConfig{
			DataDir:             defaultDataDir,
			MetricsPort:         1010,
			DatabaseConnections: 16,
			DatabaseBusyTimeout: 5 * time.Second,
		},
		Engine:  engine.DefaultConfig(),
		Logging: defaultLoggingConfig(),
	}
}

// DatabasePath is the location of the sqlite database inside of the data folder.
func (cfg *Config) DatabasePath() string {
	return filepath.Join(cfg.DataDir, databaseFile)
}

// LockPath is the location of the server lock file.
func (cfg *Config) LockPath() string {
	if cfg.FileLock != "" {
		return cfg.FileLock
	}
	return filepath.Join(cfg.DataDir, lockFile)
}

// LoadConfig reads the config file into vip. The format is chosen by the file
// extension.
func LoadConfig(fileLocation string, vip *viper.Viper) error {
	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %w", err)
	}
	return nil
}

// Decode values loaded into vip on top of cfg.
func Decode(vip *viper.Viper, cfg *Config) error {
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	)
	if err := vip.Unmarshal(cfg, viper.DecodeHook(hook)); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// Load returns the default config overwritten by the file at path. Empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return &cfg, nil
	}
	vip := viper.New()
	if err := LoadConfig(path, vip); err != nil {
		return nil, err
	}
	if err := Decode(vip, &cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFile = path
	return &cfg, nil
}
