package pipeline

import (
	"path/filepath"
	"time"

	"VelArchiver/internal/mirror"
	"VelArchiver/internal/s3"
)

// RunContext is one run's identity and local layout. It is fixed at run
// start; every local path the pipeline touches is derived from it.
type RunContext struct {
	Timestamp string
	Bucket    string
	LogPrefix string
	Rules     mirror.Rules

	WorkDir     string
	MirrorDir   string
	ArchiveStem string
	LogPath     string
}

func NewRunContext(now time.Time, bucket, workDir, logPrefix string, rules mirror.Rules) RunContext {
	return RunContext{
		Timestamp:   s3.FormatTimestamp(now),
		Bucket:      bucket,
		LogPrefix:   logPrefix,
		Rules:       rules,
		WorkDir:     workDir,
		MirrorDir:   filepath.Join(workDir, "s3_files"),
		ArchiveStem: filepath.Join(workDir, "weekly-archive"),
		LogPath:     filepath.Join(workDir, "run-log.txt"),
	}
}

// ScratchPaths lists every local path a run may have created. The mirror
// tree comes first so its removal is attempted even when later entries
// fail.
func (r RunContext) ScratchPaths(archiveExt string) []string {
	return []string{
		r.MirrorDir,
		r.ArchiveStem + ".tar",
		r.ArchiveStem + archiveExt,
		r.LogPath,
	}
}
