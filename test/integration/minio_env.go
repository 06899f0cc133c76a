//go:build integration

package integration

import (
	"os"
	"strings"
)

// minioTarget points the integration tests at a live MinIO instance. Every
// field can be overridden through the matching VELARCHIVER_MINIO_* variable.
type minioTarget struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func minioFromEnv() minioTarget {
	return minioTarget{
		Endpoint:  strings.TrimSuffix(envOr("VELARCHIVER_MINIO_ENDPOINT", "http://localhost:9000"), "/"),
		AccessKey: envOr("VELARCHIVER_MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey: envOr("VELARCHIVER_MINIO_SECRET_KEY", "minioadmin"),
		Bucket:    envOr("VELARCHIVER_MINIO_BUCKET", "velarchiver-test"),
	}
}
