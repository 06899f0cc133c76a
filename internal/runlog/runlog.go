// Package runlog owns the per-run log file that is published to the bucket
// at the end of a run.
package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Log writes timestamped lines to both the run log file and stderr. The
// file half is what gets uploaded; the stderr half is for operators and
// journald.
type Log struct {
	*logrus.Logger
	file *os.File
	path string
}

func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}

	logger := logrus.New()
	logger.SetOutput(io.MultiWriter(f, os.Stderr))
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return &Log{Logger: logger, file: f, path: path}, nil
}

func (l *Log) Path() string {
	return l.path
}

// Close detaches and closes the log file. Later lines still reach stderr,
// so cleanup problems after log publication remain visible. Safe to call
// more than once.
func (l *Log) Close() error {
	if l.file == nil {
		return nil
	}
	l.Logger.SetOutput(os.Stderr)
	err := l.file.Close()
	l.file = nil
	return err
}
