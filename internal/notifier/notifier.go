package notifier

import (
	"context"
	"time"
)

// Notifier reports run lifecycle events to an external channel. All methods
// are best effort from the pipeline's point of view; a failed notification
// never fails the run.
type Notifier interface {
	NotifyStart(ctx context.Context, bucket, runID string) error
	NotifySuccess(ctx context.Context, bucket, archiveKey string, duration time.Duration, size int64, savedPercent float64) error
	NotifyError(ctx context.Context, bucket, runID string, err error) error
}
