package config

import (
	"fmt"
	"os"
	"sort"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "KEYBOT_"

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// envMapping maps environment variables to setting paths.
var envMapping = map[string]string{
	EnvPrefix + "LOG_LEVEL":      "logging.level",
	EnvPrefix + "BACKEND":        "dispatch.backend",
	EnvPrefix + "LUA_HOOK":       "dispatch.lua_hook",
	EnvPrefix + "DEVICE_NAME":    "dispatch.device_name",
	EnvPrefix + "ECHO":           "dispatch.echo",
	EnvPrefix + "TAP_HOLD":       "compiler.tap_hold",
	EnvPrefix + "TYPE_INTERVAL":  "compiler.type_interval",
	EnvPrefix + "HISTORY":        "history.path",
	EnvPrefix + "WATCH_DEBOUNCE": "watch.debounce",
}

// EnvVars returns the recognised environment variables, sorted.
func EnvVars() []string {
	names := make([]string, 0, len(envMapping))
	for name := range envMapping {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyEnv overrides settings from the environment. A nil lookup reads the
// process environment. Empty values are treated as set.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, name := range EnvVars() {
		val, ok := lookup(name)
		if !ok {
			continue
		}
		if err := c.Set(envMapping[name], val); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
