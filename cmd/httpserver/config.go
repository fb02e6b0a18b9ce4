package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// ServerConfig is the on-disk configuration for the registry server.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	WindowSeconds int64  `toml:"challenge_window_seconds"`
}

// DefaultServerConfig returns the configuration used when no file is given.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:          ":8080",
		WindowSeconds: 300,
	}
}

// LoadServerConfig reads a TOML config file, filling unset fields with
// defaults.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to load server config %s: %w", path, err)
	}
	return cfg, nil
}
