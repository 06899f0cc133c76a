package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads the config file named by VELARCHIVER_CONFIG or the default
// path. Any key can be overridden through the environment as
// VELARCHIVER_<KEY> with dots as underscores, e.g. VELARCHIVER_S3_BUCKET.
// With checkPerms set, a file readable by group or world is rejected; the
// config may carry static credentials.
func Load(checkPerms bool) (*viper.Viper, error) {
	path := ResolveConfigPath()

	if checkPerms {
		if err := checkConfigPermissions(path); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("VELARCHIVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return v, nil
}

func checkConfigPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		// A missing file fails in ReadInConfig with a clearer error.
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if mode := info.Mode().Perm(); mode&0077 != 0 {
		return fmt.Errorf("config file %s is group or world accessible (mode %s, want 0600)", path, mode)
	}
	return nil
}
