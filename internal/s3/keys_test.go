package s3

import (
	"regexp"
	"testing"
	"time"
)

func TestFormatTimestamp(t *testing.T) {
	ts := FormatTimestamp(time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC))
	if ts != "2024-03-09-14-05-07" {
		t.Fatalf("FormatTimestamp = %q", ts)
	}
}

func TestFormatTimestampConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("plus2", 2*60*60)
	ts := FormatTimestamp(time.Date(2024, 3, 9, 14, 5, 7, 0, loc))
	if ts != "2024-03-09-12-05-07" {
		t.Fatalf("FormatTimestamp = %q, want UTC rendering", ts)
	}
}

func TestArchiveKey(t *testing.T) {
	key := ArchiveKey("2024-03-09-14-05-07", ".tar.gz")
	if key != "weekly-archive-2024-03-09-14-05-07.tar.gz" {
		t.Fatalf("ArchiveKey = %q", key)
	}
	pattern := regexp.MustCompile(`^weekly-archive-\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}\.tar\.gz$`)
	if !pattern.MatchString(key) {
		t.Fatalf("ArchiveKey %q does not match naming convention", key)
	}
}

func TestLogKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{"with prefix", "archival-logs", "archival-logs/go-log-2024-03-09-14-05-07.txt"},
		{"nested prefix", "logs/runs", "logs/runs/go-log-2024-03-09-14-05-07.txt"},
		{"empty prefix", "", "go-log-2024-03-09-14-05-07.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogKey(tt.prefix, "2024-03-09-14-05-07")
			if got != tt.want {
				t.Errorf("LogKey(%q) = %q, want %q", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestParseArchiveTimestamp(t *testing.T) {
	when := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	key := ArchiveKey(FormatTimestamp(when), ".tar.gz")

	got, err := ParseArchiveTimestamp(key)
	if err != nil {
		t.Fatalf("ParseArchiveTimestamp(%q): %v", key, err)
	}
	if !got.Equal(when) {
		t.Fatalf("ParseArchiveTimestamp = %v, want %v", got, when)
	}
}

func TestParseArchiveTimestampZstd(t *testing.T) {
	got, err := ParseArchiveTimestamp("weekly-archive-2024-03-09-14-05-07.tar.zst")
	if err != nil {
		t.Fatalf("ParseArchiveTimestamp: %v", err)
	}
	if got.Hour() != 14 || got.Second() != 7 {
		t.Fatalf("ParseArchiveTimestamp = %v", got)
	}
}

func TestParseArchiveTimestampRejectsForeignKeys(t *testing.T) {
	for _, key := range []string{
		"archival-logs/go-log-2024-03-09-14-05-07.txt",
		"weekly-archive-not-a-timestamp.tar.gz",
		"data/report.csv",
	} {
		if _, err := ParseArchiveTimestamp(key); err == nil {
			t.Errorf("ParseArchiveTimestamp(%q): expected error", key)
		}
	}
}
