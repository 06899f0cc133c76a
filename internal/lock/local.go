package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	DefaultLockDir = "/var/run/velarchiver"

	// DefaultName is the lock file stem; one archiver run per host.
	DefaultName = "run"
)

// LocalLocker guards a run with an O_EXCL lock file carrying the holder's
// pid. A file older than the TTL is treated as left behind by a crashed
// run and taken over; TTL zero disables takeover.
type LocalLocker struct {
	path string
	ttl  time.Duration

	mu   sync.Mutex
	file *os.File
	held bool
}

type LocalOptions struct {
	Dir  string
	Name string
	TTL  time.Duration
}

func NewLocal(opts LocalOptions) *LocalLocker {
	dir := opts.Dir
	if dir == "" {
		dir = DefaultLockDir
	}
	name := opts.Name
	if name == "" || filepath.Base(name) != name {
		name = DefaultName
	}
	return &LocalLocker{
		path: filepath.Join(dir, name+".lock"),
		ttl:  opts.TTL,
	}
}

func (l *LocalLocker) Path() string {
	return l.path
}

func (l *LocalLocker) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return errors.New("run lock already held by this process")
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}

	// At most two create attempts: the second only after a stale file
	// has been cleared.
	for attempt := 0; ; attempt++ {
		file, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0640)
		if err == nil {
			return l.claim(file)
		}
		if !os.IsExist(err) {
			return fmt.Errorf("create lock file: %w", err)
		}
		if attempt > 0 {
			return fmt.Errorf("lock file %s reappeared during takeover", l.path)
		}
		if err := l.clearStale(); err != nil {
			return err
		}
	}
}

// claim stamps the freshly created lock file with the holder's pid.
func (l *LocalLocker) claim(file *os.File) error {
	_, err := fmt.Fprintf(file, "%d\n", os.Getpid())
	if err == nil {
		err = file.Sync()
	}
	if err != nil {
		file.Close()
		os.Remove(l.path)
		return fmt.Errorf("stamp lock file: %w", err)
	}
	l.file = file
	l.held = true
	return nil
}

// clearStale removes the current lock file if it has outlived the TTL.
func (l *LocalLocker) clearStale() error {
	if l.ttl <= 0 {
		return fmt.Errorf("lock file exists: %s (another run may be in progress)", l.path)
	}
	info, err := os.Stat(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Holder released between our open and stat.
			return nil
		}
		return fmt.Errorf("lock file exists and stat failed: %w", err)
	}
	age := time.Since(info.ModTime())
	if age < l.ttl {
		return fmt.Errorf("lock file exists: %s (held for %s, TTL %s)", l.path, age.Round(time.Second), l.ttl)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale lock file: %w", err)
	}
	return nil
}

// Release is a no-op when the lock is not held.
func (l *LocalLocker) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		return nil
	}
	l.held = false

	closeErr := l.file.Close()
	l.file = nil
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("close lock file: %w", closeErr)
	}
	return nil
}
