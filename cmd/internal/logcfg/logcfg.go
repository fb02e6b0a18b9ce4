package logcfg

import (
	"os"

	logs "github.com/danmuck/smplog"
)

const envConfigPath = "SMPLOG_CONFIG"

// Load resolves logging configuration for the registry binaries: an explicit
// env override first, then project-local config files, then defaults.
func Load() logs.Config {
	if path := os.Getenv(envConfigPath); path != "" {
		if cfg, err := logs.ConfigFromFile(path); err == nil {
			return cfg
		}
	}

	candidates := []string{
		"./claim_chain.log.toml",
		"./local/claim_chain.log.toml",
	}

	for _, path := range candidates {
		if cfg, err := logs.ConfigFromFile(path); err == nil {
			return cfg
		}
	}

	return logs.DefaultConfig()
}
