package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Write renders cfg as YAML at path, creating parent directories as
// needed. Mode 0600: the file may carry static credentials.
func Write(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir for %s: %w", path, err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Default returns the config skeleton written by `velarchiver init`.
func Default() *Config {
	return &Config{
		S3: &S3Config{
			Profile: "default",
			Region:  "us-east-1",
			Bucket:  "",
		},
		Archive: &ArchiveConfig{
			Format:           FormatGzip,
			CompressionLevel: DefaultCompressionLevel,
			WorkDir:          DefaultWorkDir,
		},
		Transfer: &TransferConfig{
			MultipartThresholdMB: DefaultThresholdMB,
			PartSizeMB:           DefaultPartSizeMB,
			Concurrency:          DefaultConcurrency,
		},
		Run: &RunConfig{
			IgnoreSuffixes: []string{".tar.gz", ".tar.zst"},
			LogPrefix:      DefaultLogPrefix,
			Tags: []TagConfig{
				{Key: "ArchiveStatus", Value: "ReadyForGlacier"},
			},
		},
	}
}
