// Package doctor runs preflight checks for the archiver: configuration,
// credentials, bucket reachability, scratch space and the run lock.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"VelArchiver/internal/config"
	"VelArchiver/internal/lock"
	"VelArchiver/internal/s3"
)

type CheckResult struct {
	Name   string
	OK     bool
	Detail string
}

func Run(ctx context.Context, cfg *config.Config) []CheckResult {
	var results []CheckResult

	ok, detail := checkConfig(cfg)
	results = append(results, CheckResult{Name: "config", OK: ok, Detail: detail})

	if cfg != nil && cfg.S3 != nil {
		ok, detail = checkCredentials(ctx, cfg)
		results = append(results, CheckResult{Name: "credentials", OK: ok, Detail: detail})
		ok, detail = checkS3(ctx, cfg)
		results = append(results, CheckResult{Name: "s3", OK: ok, Detail: detail})
	} else {
		results = append(results, CheckResult{Name: "credentials", OK: false, Detail: "s3 not configured"})
		results = append(results, CheckResult{Name: "s3", OK: false, Detail: "s3 not configured"})
	}

	ok, detail = checkWorkDir(config.WorkDir(cfg))
	results = append(results, CheckResult{Name: "work dir", OK: ok, Detail: detail})

	ok, detail = checkLocalLock(config.LockDir(cfg))
	results = append(results, CheckResult{Name: "local lock", OK: ok, Detail: detail})

	return results
}

func checkConfig(cfg *config.Config) (bool, string) {
	if cfg == nil {
		return false, "configuration not loaded"
	}
	if err := config.Validate(cfg); err != nil {
		return false, fmt.Sprintf("validation failed: %v", err)
	}
	return true, "configuration valid"
}

// checkCredentials reports the credential failure class distinctly so an
// operator knows whether keys are absent or half-configured.
func checkCredentials(ctx context.Context, cfg *config.Config) (bool, string) {
	_, err := s3.ResolveConfig(ctx, clientOptions(cfg))
	switch {
	case err == nil:
		return true, "credentials resolved"
	case errors.Is(err, s3.ErrPartialCredentials):
		return false, "partial credentials: set both access_key and secret_key"
	case errors.Is(err, s3.ErrNoCredentials):
		return false, fmt.Sprintf("missing credentials: %v", err)
	default:
		return false, fmt.Sprintf("credential resolution failed: %v", err)
	}
}

func checkS3(ctx context.Context, cfg *config.Config) (bool, string) {
	client, err := s3.New(ctx, clientOptions(cfg))
	if err != nil {
		return false, fmt.Sprintf("s3 client init failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.ListObjects(ctx, "", 1); err != nil {
		return false, fmt.Sprintf("s3 list failed: %v", err)
	}
	return true, fmt.Sprintf("s3 OK (bucket=%s)", cfg.S3.Bucket)
}

func checkWorkDir(dir string) (bool, string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Sprintf("create work dir %s failed: %v", dir, err)
	}
	f, err := os.CreateTemp(dir, "velarchiver-doctor-*")
	if err != nil {
		return false, fmt.Sprintf("create temp file failed in %s: %v", dir, err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString("test"); err != nil {
		f.Close()
		return false, fmt.Sprintf("write temp file failed: %v", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Sprintf("close temp file failed: %v", err)
	}
	return true, fmt.Sprintf("work dir writable (%s)", dir)
}

func checkLocalLock(dir string) (bool, string) {
	l := lock.NewLocal(lock.LocalOptions{Dir: dir, Name: "doctor"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Acquire(ctx); err != nil {
		return false, fmt.Sprintf("local lock acquire failed: %v", err)
	}
	if err := l.Release(context.Background()); err != nil {
		return false, fmt.Sprintf("local lock release failed: %v", err)
	}
	return true, fmt.Sprintf("local lock dir accessible (%s)", l.Path())
}

func clientOptions(cfg *config.Config) s3.Options {
	return s3.Options{
		Profile:            cfg.S3.Profile,
		Region:             cfg.S3.Region,
		Endpoint:           cfg.S3.Endpoint,
		AccessKey:          cfg.S3.AccessKey,
		SecretKey:          cfg.S3.SecretKey,
		Bucket:             cfg.S3.Bucket,
		PathStyle:          cfg.S3.PathStyle,
		InsecureSkipVerify: cfg.S3.TLS != nil && cfg.S3.TLS.InsecureSkipVerify,
	}
}
