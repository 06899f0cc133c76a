package doctor

import (
	"context"
	"strings"
	"testing"

	"VelArchiver/internal/config"
)

func TestCheckWorkDir(t *testing.T) {
	ok, detail := checkWorkDir(t.TempDir())
	if !ok {
		t.Errorf("checkWorkDir failed: %s", detail)
	}
}

func TestCheckLocalLock(t *testing.T) {
	ok, detail := checkLocalLock(t.TempDir())
	if !ok {
		t.Errorf("checkLocalLock failed: %s", detail)
	}
}

func TestCheckCredentialsPartial(t *testing.T) {
	cfg := &config.Config{S3: &config.S3Config{
		Bucket:    "b",
		AccessKey: "AKIAEXAMPLE",
	}}
	ok, detail := checkCredentials(context.Background(), cfg)
	if ok {
		t.Fatal("partial credentials passed the check")
	}
	if !strings.Contains(detail, "partial credentials") {
		t.Errorf("detail = %q, want partial classification", detail)
	}
}

func TestCheckCredentialsStatic(t *testing.T) {
	cfg := &config.Config{S3: &config.S3Config{
		Bucket:    "b",
		AccessKey: "AKIAEXAMPLE",
		SecretKey: "sekrit",
		Region:    "us-east-1",
	}}
	ok, detail := checkCredentials(context.Background(), cfg)
	if !ok {
		t.Errorf("static credentials failed the check: %s", detail)
	}
}

func TestRunWithoutS3Section(t *testing.T) {
	cfg := &config.Config{
		Archive: &config.ArchiveConfig{WorkDir: t.TempDir()},
		Lock:    &config.LockConfig{Dir: t.TempDir()},
	}
	results := Run(context.Background(), cfg)

	byName := make(map[string]CheckResult)
	for _, r := range results {
		byName[r.Name] = r
	}
	if byName["config"].OK {
		t.Error("config check passed without an s3 section")
	}
	if byName["credentials"].OK || byName["s3"].OK {
		t.Error("remote checks passed without an s3 section")
	}
	if !byName["work dir"].OK {
		t.Errorf("work dir check failed: %s", byName["work dir"].Detail)
	}
	if !byName["local lock"].OK {
		t.Errorf("local lock check failed: %s", byName["local lock"].Detail)
	}
}
