package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dshills/keybot/internal/dispatch"
	"github.com/dshills/keybot/internal/logging"
	"github.com/dshills/keybot/internal/script/compiler"
)

// Config holds every keybot setting.
type Config struct {
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Dispatch DispatchConfig `toml:"dispatch" yaml:"dispatch"`
	Compiler CompilerConfig `toml:"compiler" yaml:"compiler"`
	History  HistoryConfig  `toml:"history" yaml:"history"`
	Watch    WatchConfig    `toml:"watch" yaml:"watch"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// DispatchConfig selects the dispatch backend.
type DispatchConfig struct {
	Backend    string `toml:"backend" yaml:"backend"`
	LuaHook    string `toml:"lua_hook" yaml:"lua_hook"`
	DeviceName string `toml:"device_name" yaml:"device_name"`
	Echo       bool   `toml:"echo" yaml:"echo"`
}

// CompilerConfig holds the timings used by tap and type statements.
type CompilerConfig struct {
	TapHold      Duration `toml:"tap_hold" yaml:"tap_hold"`
	TypeInterval Duration `toml:"type_interval" yaml:"type_interval"`
}

// Options converts the settings to compiler options.
func (c CompilerConfig) Options() compiler.Options {
	return compiler.Options{
		TapHold:      c.TapHold.Std(),
		TypeInterval: c.TypeInterval.Std(),
	}
}

// HistoryConfig configures the run history database. An empty path
// disables history.
type HistoryConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// WatchConfig configures script watching.
type WatchConfig struct {
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// DefaultDebounce is the default delay before a changed script is reloaded.
const DefaultDebounce = 200 * time.Millisecond

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Dispatch: DispatchConfig{
			Backend:    dispatch.BackendUinput,
			DeviceName: dispatch.DefaultDeviceName,
		},
		Compiler: CompilerConfig{
			TapHold:      Duration(compiler.DefaultTapHold),
			TypeInterval: Duration(compiler.DefaultTypeInterval),
		},
		Watch: WatchConfig{Debounce: Duration(DefaultDebounce)},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/keybot/config.toml, or the platform
// equivalent. It returns "" when no config directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "keybot", "config.toml")
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if !logging.IsValidLevel(c.Logging.Level) {
		return &ValidationError{Path: "logging.level", Value: c.Logging.Level, Message: "must be one of debug, info, warn, error"}
	}
	if !slices.Contains(dispatch.Backends(), c.Dispatch.Backend) {
		return &ValidationError{
			Path:    "dispatch.backend",
			Value:   c.Dispatch.Backend,
			Message: "must be one of " + strings.Join(dispatch.Backends(), ", "),
		}
	}
	if c.Dispatch.Backend == dispatch.BackendLua && c.Dispatch.LuaHook == "" {
		return &ValidationError{Path: "dispatch.lua_hook", Value: `""`, Message: "required by the lua backend"}
	}

	for path, d := range map[string]Duration{
		"compiler.tap_hold":      c.Compiler.TapHold,
		"compiler.type_interval": c.Compiler.TypeInterval,
		"watch.debounce":         c.Watch.Debounce,
	} {
		if d < 0 {
			return &ValidationError{Path: path, Value: d, Message: "must not be negative"}
		}
		if d > 0 && d.Std() < time.Millisecond {
			return &ValidationError{Path: path, Value: d, Message: "must be zero or at least 1ms (write durations as strings)"}
		}
	}
	return nil
}

// Set assigns one setting by its dotted path.
func (c *Config) Set(path, value string) error {
	var err error
	switch path {
	case "logging.level":
		c.Logging.Level = strings.ToLower(value)
	case "dispatch.backend":
		c.Dispatch.Backend = strings.ToLower(value)
	case "dispatch.lua_hook":
		c.Dispatch.LuaHook = value
	case "dispatch.device_name":
		c.Dispatch.DeviceName = value
	case "dispatch.echo":
		c.Dispatch.Echo, err = parseBool(value)
	case "compiler.tap_hold":
		c.Compiler.TapHold, err = ParseDuration(value)
	case "compiler.type_interval":
		c.Compiler.TypeInterval, err = ParseDuration(value)
	case "history.path":
		c.History.Path = value
	case "watch.debounce":
		c.Watch.Debounce, err = ParseDuration(value)
	default:
		return fmt.Errorf("unknown setting %q", path)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
