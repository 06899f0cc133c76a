package mirror

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"VelArchiver/internal/s3"
)

// Store is the remote side of a mirror run.
type Store interface {
	ListObjects(ctx context.Context, prefix string, maxKeys int32) ([]s3.Object, error)
	Download(ctx context.Context, key, localPath string) error
}

// Outcome reports what one mirror run actually transferred.
type Outcome struct {
	Downloaded []string
	Skipped    int
	Bytes      int64
}

type Mirror struct {
	store Store
	rules Rules
	log   *logrus.Logger
}

func New(store Store, rules Rules, log *logrus.Logger) *Mirror {
	return &Mirror{store: store, rules: rules, log: log}
}

// Run enumerates the bucket and materializes every non-excluded object under
// root, preserving key structure. Local paths are root + key; keys with
// trailing separators or empty names get no special handling, they fail or
// succeed on whatever the filesystem does with the derived path. The first
// download or filesystem error aborts the scan.
func (m *Mirror) Run(ctx context.Context, root string) (*Outcome, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create working root %s: %w", root, err)
	}

	objects, err := m.store.ListObjects(ctx, "", 0)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{}
	for _, obj := range objects {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if m.rules.Excludes(obj.Key) {
			m.log.Infof("Skipping %s due to ignore pattern", obj.Key)
			outcome.Skipped++
			continue
		}

		localPath := filepath.Join(root, filepath.FromSlash(obj.Key))
		if err := m.store.Download(ctx, obj.Key, localPath); err != nil {
			return nil, err
		}
		m.log.Infof("Downloaded %s to %s", obj.Key, localPath)
		outcome.Downloaded = append(outcome.Downloaded, obj.Key)
		outcome.Bytes += obj.Size
	}
	return outcome, nil
}
