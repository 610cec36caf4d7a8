package arbor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the construction-time defaults for nodes and scenes.
// It replaces process-wide mutable defaults: every node and scene takes its
// defaults from the Config it was built with.
type Config struct {
	// DefaultPivot is the normalized pivot given to new nodes.
	DefaultPivot Vec2 `toml:"default_pivot"`
	// DefaultShape selects the hit shape new nodes use when none is set.
	DefaultShape ShapeKind `toml:"default_shape"`
	// Collider answers relation queries between nodes. Nil means BoundsCollider.
	Collider Collider `toml:"-"`

	Debug         bool   `toml:"debug"`
	LogLevel      string `toml:"log_level"` // debug | info | warn | error
	MaxTreeDepth  int    `toml:"max_tree_depth"`
	MaxChildCount int    `toml:"max_child_count"`
}

// DefaultConfig returns the configuration used by NewNode and NewScene.
func DefaultConfig() Config {
	return Config{
		DefaultShape:  ShapeNone,
		LogLevel:      "warn",
		MaxTreeDepth:  debugMaxTreeDepth,
		MaxChildCount: debugMaxChildCount,
	}
}

// LoadConfig decodes TOML data on top of DefaultConfig and normalizes the result.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(data) == 0 {
		return cfg, nil
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and decodes a TOML config file. An empty path or a
// missing file yields DefaultConfig.
func LoadConfigFile(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultConfig(), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadConfig(content)
}

// normalize clamps the pivot, fills zero thresholds, and validates the log level.
func (c *Config) normalize() error {
	c.DefaultPivot = Vec2{clamp01(c.DefaultPivot.X), clamp01(c.DefaultPivot.Y)}
	if c.MaxTreeDepth <= 0 {
		c.MaxTreeDepth = debugMaxTreeDepth
	}
	if c.MaxChildCount <= 0 {
		c.MaxChildCount = debugMaxChildCount
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}
	return nil
}

// level returns the parsed log level, falling back to warn.
func (c Config) level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}
