package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".config/wardrobe"

	defaultPenumbraURL     = "http://127.0.0.1:42069"
	defaultBridgeURL       = "http://127.0.0.1:42070"
	defaultPenumbraTimeout = 5 * time.Second
)

const (
	KeyEntriesPath     = "entries.path"
	KeySettingsPath    = "settings.path"
	KeyPenumbraURL     = "penumbra.url"
	KeyPenumbraTimeout = "penumbra.timeout"
	KeyPenumbraMinVer  = "penumbra.min_version"
	KeyBridgeURL       = "bridge.url"
	KeyBridgeExec      = "bridge.exec"
	KeyTickInterval    = "tick.interval"
	KeyAvailabilityTTL = "availability.ttl"
	KeyPoseBudget      = "pose.budget"
	KeyLogLevel        = "log.level"
	KeyLogPath         = "log.path"
)

type Config struct {
	EntriesPath     string
	SettingsPath    string
	PenumbraURL     string
	PenumbraTimeout time.Duration
	MinApiVersion   int
	BridgeURL       string
	BridgeExec      string
	TickInterval    time.Duration
	AvailabilityTTL time.Duration
	PoseBudget      int
	LogLevel        string
	LogPath         string
	// File is the config file that was read, empty when none exists.
	File            string
}

// envOverrides are applied on top of the config file. Empty values leave the file setting alone.
type envOverrides struct {
	ConfigFile      string `env:"WARDROBE_CONFIG"`
	EntriesPath     string `env:"WARDROBE_ENTRIES_PATH"`
	SettingsPath    string `env:"WARDROBE_SETTINGS_PATH"`
	PenumbraURL     string `env:"WARDROBE_PENUMBRA_URL"`
	PenumbraTimeout string `env:"WARDROBE_PENUMBRA_TIMEOUT"`
	MinApiVersion   string `env:"WARDROBE_PENUMBRA_MIN_VERSION"`
	BridgeURL       string `env:"WARDROBE_BRIDGE_URL"`
	BridgeExec      string `env:"WARDROBE_BRIDGE_EXEC"`
	TickInterval    string `env:"WARDROBE_TICK_INTERVAL"`
	AvailabilityTTL string `env:"WARDROBE_AVAILABILITY_TTL"`
	PoseBudget      string `env:"WARDROBE_POSE_BUDGET"`
	LogLevel        string `env:"WARDROBE_LOG_LEVEL"`
	LogPath         string `env:"WARDROBE_LOG_PATH"`
}

// Dir returns the directory holding config.toml and the default data files.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(homeDir, configDir), nil
}

// Load reads config.toml into v, applies WARDROBE_* overrides and returns the resolved values.
// v keeps the merged settings so repositories can read their paths from it.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		return Config{}, errors.New("viper instance is nil")
	}

	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	setDefaults(v, dir)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	if overrides.ConfigFile != "" {
		v.SetConfigFile(overrides.ConfigFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	for key, value := range overrides.byKey() {
		if value != "" {
			v.Set(key, value)
		}
	}

	cfg := Config{
		EntriesPath:     v.GetString(KeyEntriesPath),
		SettingsPath:    v.GetString(KeySettingsPath),
		PenumbraURL:     v.GetString(KeyPenumbraURL),
		PenumbraTimeout: v.GetDuration(KeyPenumbraTimeout),
		MinApiVersion:   v.GetInt(KeyPenumbraMinVer),
		BridgeURL:       v.GetString(KeyBridgeURL),
		BridgeExec:      v.GetString(KeyBridgeExec),
		TickInterval:    v.GetDuration(KeyTickInterval),
		AvailabilityTTL: v.GetDuration(KeyAvailabilityTTL),
		PoseBudget:      v.GetInt(KeyPoseBudget),
		LogLevel:        v.GetString(KeyLogLevel),
		LogPath:         v.GetString(KeyLogPath),
		File:            v.ConfigFileUsed(),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault(KeyEntriesPath, filepath.Join(dir, "entries.toml"))
	v.SetDefault(KeySettingsPath, filepath.Join(dir, "settings.toml"))
	v.SetDefault(KeyPenumbraURL, defaultPenumbraURL)
	v.SetDefault(KeyPenumbraTimeout, defaultPenumbraTimeout)
	v.SetDefault(KeyPenumbraMinVer, 4)
	v.SetDefault(KeyBridgeURL, defaultBridgeURL)
	v.SetDefault(KeyBridgeExec, "")
	v.SetDefault(KeyTickInterval, 50*time.Millisecond)
	v.SetDefault(KeyAvailabilityTTL, time.Duration(0))
	v.SetDefault(KeyPoseBudget, 8)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogPath, filepath.Join(dir, "wardrobe.log"))
}

func (o envOverrides) byKey() map[string]string {
	return map[string]string{
		KeyEntriesPath:     o.EntriesPath,
		KeySettingsPath:    o.SettingsPath,
		KeyPenumbraURL:     o.PenumbraURL,
		KeyPenumbraTimeout: o.PenumbraTimeout,
		KeyPenumbraMinVer:  o.MinApiVersion,
		KeyBridgeURL:       o.BridgeURL,
		KeyBridgeExec:      o.BridgeExec,
		KeyTickInterval:    o.TickInterval,
		KeyAvailabilityTTL: o.AvailabilityTTL,
		KeyPoseBudget:      o.PoseBudget,
		KeyLogLevel:        o.LogLevel,
		KeyLogPath:         o.LogPath,
	}
}

func (c Config) validate() error {
	if c.PenumbraTimeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyPenumbraTimeout)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%s must be positive", KeyTickInterval)
	}
	if c.AvailabilityTTL < 0 {
		return fmt.Errorf("%s must not be negative", KeyAvailabilityTTL)
	}
	if c.PoseBudget <= 0 {
		return fmt.Errorf("%s must be positive", KeyPoseBudget)
	}
	if c.MinApiVersion <= 0 {
		return fmt.Errorf("%s must be positive", KeyPenumbraMinVer)
	}

	return nil
}
