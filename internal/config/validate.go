package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingS3     = errors.New("s3 configuration is required")
	ErrMissingBucket = errors.New("s3.bucket is required")
	ErrInvalidFormat = errors.New("invalid archive.format: must be 'gzip' or 'zstd'")
)

func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.S3 == nil {
		return ErrMissingS3
	}
	if strings.TrimSpace(cfg.S3.Bucket) == "" {
		return ErrMissingBucket
	}

	if cfg.Archive != nil {
		switch cfg.Archive.Format {
		case "", FormatGzip, FormatZstd:
		default:
			return fmt.Errorf("%w: got %q", ErrInvalidFormat, cfg.Archive.Format)
		}
		if cfg.Archive.CompressionLevel < 0 || cfg.Archive.CompressionLevel > 9 {
			return fmt.Errorf("archive.compression_level must be between 0 and 9, got %d", cfg.Archive.CompressionLevel)
		}
	}

	if cfg.Transfer != nil {
		if cfg.Transfer.MultipartThresholdMB < 0 {
			return fmt.Errorf("transfer.multipart_threshold_mb must not be negative, got %d", cfg.Transfer.MultipartThresholdMB)
		}
		if cfg.Transfer.PartSizeMB < 0 {
			return fmt.Errorf("transfer.part_size_mb must not be negative, got %d", cfg.Transfer.PartSizeMB)
		}
		if cfg.Transfer.Concurrency < 0 {
			return fmt.Errorf("transfer.concurrency must not be negative, got %d", cfg.Transfer.Concurrency)
		}
	}

	if cfg.Run != nil {
		for i, tag := range cfg.Run.Tags {
			if strings.TrimSpace(tag.Key) == "" {
				return fmt.Errorf("run.tags[%d]: key must not be empty", i)
			}
		}
	}

	return nil
}
