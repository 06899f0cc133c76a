package s3

import (
	"fmt"
	"strings"
	"time"
)

const (
	// TimestampLayout is the wire format for run timestamps embedded in
	// object keys: YYYY-MM-DD-HH-MM-SS.
	TimestampLayout = "2006-01-02-15-04-05"

	// ArchiveKeyPrefix names weekly archives in the bucket root.
	ArchiveKeyPrefix = "weekly-archive-"

	// LogFilePrefix names run logs under the configured log prefix.
	LogFilePrefix = "go-log-"
)

// FormatTimestamp renders t in the key timestamp layout. Keys always carry
// UTC so runs from different hosts sort consistently.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ArchiveKey builds the bucket key for one run's archive. ext carries the
// leading dot, e.g. ".tar.gz".
func ArchiveKey(timestamp, ext string) string {
	return ArchiveKeyPrefix + timestamp + ext
}

// LogKey builds the bucket key for one run's log file under prefix.
func LogKey(prefix, timestamp string) string {
	name := LogFilePrefix + timestamp + ".txt"
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// ParseArchiveTimestamp extracts the run timestamp from an archive key. It
// returns an error for keys that do not follow the archive naming.
func ParseArchiveTimestamp(key string) (time.Time, error) {
	if !strings.HasPrefix(key, ArchiveKeyPrefix) {
		return time.Time{}, fmt.Errorf("key %q is not an archive key", key)
	}
	rest := strings.TrimPrefix(key, ArchiveKeyPrefix)
	if idx := strings.Index(rest, ".tar"); idx >= 0 {
		rest = rest[:idx]
	}
	ts, err := time.Parse(TimestampLayout, rest)
	if err != nil {
		return time.Time{}, fmt.Errorf("key %q: bad timestamp: %w", key, err)
	}
	return ts, nil
}
