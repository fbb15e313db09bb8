package utils

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBoardSize    = 25
	DefaultCellSize     = 1
	DefaultTickInterval = 333 * time.Millisecond
)

// ErrInvalidConfig is returned by Validate for values the game cannot start with
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the configuration for the game
type Config struct {
	BoardSize           int      `json:"board_size" yaml:"board_size"`
	CellSize            int      `json:"cell_size" yaml:"cell_size"`
	TickInterval        Duration `json:"tick_interval" yaml:"tick_interval"`
	Seed                int64    `json:"seed" yaml:"seed"`
	MaxGenerations      int      `json:"max_generations" yaml:"max_generations"`
	AutoRestart         bool     `json:"auto_restart" yaml:"auto_restart"`
	StagnationThreshold int      `json:"stagnation_threshold" yaml:"stagnation_threshold"`
	UseMemoryPool       bool     `json:"use_memory_pool" yaml:"use_memory_pool"`
	LogLevel            string   `json:"log_level" yaml:"log_level"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		BoardSize:           DefaultBoardSize,
		CellSize:            DefaultCellSize,
		TickInterval:        Duration(DefaultTickInterval),
		Seed:                0, // fresh random seed
		MaxGenerations:      0,
		AutoRestart:         false,
		StagnationThreshold: 5,
		UseMemoryPool:       true,
		LogLevel:            "info",
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// Validate rejects configurations that would build a malformed board or loop
func (c Config) Validate() error {
	if c.BoardSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "board_size must be positive, got %d", c.BoardSize)
	}
	if c.CellSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "cell_size must be positive, got %d", c.CellSize)
	}
	if c.TickInterval <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.MaxGenerations < 0 {
		return errors.Wrapf(ErrInvalidConfig, "max_generations must not be negative, got %d", c.MaxGenerations)
	}
	if c.AutoRestart && c.StagnationThreshold <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "stagnation_threshold must be positive with auto_restart, got %d", c.StagnationThreshold)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Duration is a time.Duration that decodes from strings like "333ms" or from integer nanoseconds
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return d.set(raw)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return d.set(raw)
}

func (d *Duration) set(raw any) error {
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "[Duration] bad duration %q", v)
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(int64(v))
	case int:
		*d = Duration(int64(v))
	default:
		return errors.Errorf("[Duration] unsupported value %v", raw)
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return level, errors.Wrapf(ErrInvalidConfig, "unknown log_level %q", name)
	}
	return level, nil
}
