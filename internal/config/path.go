package config

import (
	"os"
)

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "VELARCHIVER_CONFIG"

// DefaultConfigFile is where the archiver looks for configuration when
// EnvConfigPath is unset; `velarchiver init` writes here.
const DefaultConfigFile = "/etc/velarchiver/config.yaml"

func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultConfigFile
}
