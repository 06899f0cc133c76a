package s3

import (
	"context"
	"errors"
	"testing"
)

func TestResolveConfigPartialCredentials(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"access key only", Options{AccessKey: "AKIAEXAMPLE"}},
		{"secret key only", Options{SecretKey: "sekrit"}},
		{"blank secret", Options{AccessKey: "AKIAEXAMPLE", SecretKey: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveConfig(context.Background(), tt.opts)
			if !errors.Is(err, ErrPartialCredentials) {
				t.Fatalf("ResolveConfig error = %v, want ErrPartialCredentials", err)
			}
		})
	}
}

func TestResolveConfigStaticCredentials(t *testing.T) {
	cfg, err := ResolveConfig(context.Background(), Options{
		AccessKey: "AKIAEXAMPLE",
		SecretKey: "sekrit",
		Region:    "eu-west-1",
	})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	if cfg.Region != "eu-west-1" {
		t.Errorf("Region = %q, want eu-west-1", cfg.Region)
	}
	creds, err := cfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if creds.AccessKeyID != "AKIAEXAMPLE" || creds.SecretAccessKey != "sekrit" {
		t.Errorf("Retrieve returned %q/%q", creds.AccessKeyID, creds.SecretAccessKey)
	}
}

func TestResolveConfigNoCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("AWS_SESSION_TOKEN", "")
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent/aws-config")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent/aws-credentials")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	t.Setenv("AWS_CONTAINER_CREDENTIALS_RELATIVE_URI", "")
	t.Setenv("AWS_WEB_IDENTITY_TOKEN_FILE", "")

	_, err := ResolveConfig(context.Background(), Options{Region: "us-east-1"})
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("ResolveConfig error = %v, want ErrNoCredentials", err)
	}
}
