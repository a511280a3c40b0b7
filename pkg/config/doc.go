// Package config handles configuration management for the installer.
// It merges embedded defaults, the "extra" section of composer.json, an
// optional project config file in TOML or YAML, environment variables and
// command-line overrides, in that order, using koanf.
package config
