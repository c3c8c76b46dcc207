// Package config loads keybot settings.
//
// Settings come from three layers, lowest precedence first: built-in
// defaults, a TOML or YAML file, and KEYBOT_* environment variables.
// Command-line flags are applied on top by the CLI.
//
// Example config.toml:
//
//	[logging]
//	level = "debug"
//
//	[dispatch]
//	backend = "lua"
//	lua_hook = "~/.config/keybot/hook.lua"
//
//	[compiler]
//	tap_hold = "40ms"
//	type_interval = "25ms"
package config
