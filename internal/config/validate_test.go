package config

import (
	"errors"
	"testing"
)

func TestValidate_NilConfig(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Error("Validate(nil) should fail")
	}
}

func TestValidate_MissingS3(t *testing.T) {
	err := Validate(&Config{})
	if !errors.Is(err, ErrMissingS3) {
		t.Errorf("err = %v, want ErrMissingS3", err)
	}
}

func TestValidate_MissingBucket(t *testing.T) {
	err := Validate(&Config{S3: &S3Config{Bucket: "  "}})
	if !errors.Is(err, ErrMissingBucket) {
		t.Errorf("err = %v, want ErrMissingBucket", err)
	}
}

func TestValidate_Format(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"empty", "", false},
		{"gzip", "gzip", false},
		{"zstd", "zstd", false},
		{"unknown", "lz4", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				S3:      &S3Config{Bucket: "b"},
				Archive: &ArchiveConfig{Format: tt.format},
			}
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(format=%q) = %v, wantErr=%v", tt.format, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("err = %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestValidate_CompressionLevelRange(t *testing.T) {
	cfg := &Config{
		S3:      &S3Config{Bucket: "b"},
		Archive: &ArchiveConfig{CompressionLevel: 11},
	}
	if err := Validate(cfg); err == nil {
		t.Error("compression_level 11 should fail")
	}
}

func TestValidate_NegativeTransferValues(t *testing.T) {
	cfg := &Config{
		S3:       &S3Config{Bucket: "b"},
		Transfer: &TransferConfig{Concurrency: -1},
	}
	if err := Validate(cfg); err == nil {
		t.Error("negative concurrency should fail")
	}
}

func TestValidate_EmptyTagKey(t *testing.T) {
	cfg := &Config{
		S3:  &S3Config{Bucket: "b"},
		Run: &RunConfig{Tags: []TagConfig{{Key: "", Value: "x"}}},
	}
	if err := Validate(cfg); err == nil {
		t.Error("empty tag key should fail")
	}
}
