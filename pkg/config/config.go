// Package config provides configuration types, defaults and loading for the event planner.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matt-steen/event-planner/pkg/planner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. PLANNER_DB_PATH.
const EnvPrefix = "PLANNER"

// Config holds all configuration options.
type Config struct {
	DBPath    string `mapstructure:"db_path" yaml:"db_path"`
	LogPath   string `mapstructure:"log_path" yaml:"log_path"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	EventName string `mapstructure:"event_name" yaml:"event_name"`
	// MaxSeatsPerTable bounds the seat count of new rectangular tables.
	MaxSeatsPerTable int          `mapstructure:"max_seats_per_table" yaml:"max_seats_per_table"`
	UTable           UTableConfig `mapstructure:"u_table" yaml:"u_table"`
}

// UTableConfig is the layout of a U-table created from scratch.
type UTableConfig struct {
	Left   int `mapstructure:"left" yaml:"left"`
	Right  int `mapstructure:"right" yaml:"right"`
	Bottom int `mapstructure:"bottom" yaml:"bottom"`
}

// Dir is the directory holding the config file, the database and the log by default.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".event-planner"
	}

	return filepath.Join(home, ".config", "event-planner")
}

// DefaultPath is where the config file is looked up when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Defaults returns the configuration used for every unset key.
func Defaults() Config {
	layout := planner.DefaultUTable()

	return Config{
		DBPath:           filepath.Join(Dir(), "planner.sqlite"),
		LogPath:          filepath.Join(Dir(), "debug.log"),
		LogLevel:         "info",
		EventName:        "anniversaire mamie",
		MaxSeatsPerTable: 20,
		UTable:           UTableConfig{Left: layout.Left, Right: layout.Right, Bottom: layout.Bottom},
	}
}

// Load reads the config file at path (or DefaultPath when empty) over the defaults and applies
// environment overrides. A missing default config file is created; a missing explicit one is an
// error.
func Load(v *viper.Viper, path string) (Config, error) {
	defaults := Defaults()

	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("log_path", defaults.LogPath)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("event_name", defaults.EventName)
	v.SetDefault("max_seats_per_table", defaults.MaxSeatsPerTable)
	v.SetDefault("u_table.left", defaults.UTable.Left)
	v.SetDefault("u_table.right", defaults.UTable.Right)
	v.SetDefault("u_table.bottom", defaults.UTable.Bottom)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("error reading config %s: %w", path, err)
		}

		if writeErr := WriteDefaultConfig(path, defaults); writeErr != nil {
			log.Warn().Err(writeErr).Str("path", path).Msg("could not write default config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if c.MaxSeatsPerTable < 1 {
		return fmt.Errorf("max_seats_per_table must be at least 1, got %d", c.MaxSeatsPerTable)
	}

	if c.UTable.Left < 0 || c.UTable.Right < 0 || c.UTable.Bottom < 0 {
		return errors.New("u_table arms cannot be negative")
	}

	return nil
}

// Level parses the configured log level.
func (c Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	return level, nil
}

// UTableLayout converts the configured layout for the planner.
func (c Config) UTableLayout() planner.UTableInput {
	return planner.UTableInput{Left: c.UTable.Left, Right: c.UTable.Right, Bottom: c.UTable.Bottom}
}

// CheckSeatCount enforces the seat bound of new tables.
func (c Config) CheckSeatCount(seats int) error {
	if seats < 1 || seats > c.MaxSeatsPerTable {
		return fmt.Errorf("%w: a table has between 1 and %d seats, got %d",
			planner.ErrValidation, c.MaxSeatsPerTable, seats)
	}

	return nil
}

// WriteDefaultConfig writes cfg as yaml to path, creating the directory if needed.
func WriteDefaultConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	log.Info().Str("path", path).Msg("created default config")

	return nil
}
