package pipeline

import (
	"context"
	"fmt"

	"VelArchiver/internal/archive"
	"VelArchiver/internal/mirror"
	"VelArchiver/internal/report"
	"VelArchiver/internal/runlog"
	"VelArchiver/internal/s3"
)

// Stage names one phase of a run. A run moves through the stages in
// declaration order; any failure jumps straight to StageCleanup, which is
// reached exactly once and is the only terminal stage.
type Stage string

const (
	StageInit          Stage = "Init"
	StageMirroring     Stage = "Mirroring"
	StageArchiving     Stage = "Archiving"
	StageUploading     Stage = "Uploading"
	StageTagging       Stage = "Tagging"
	StageLogPublishing Stage = "LogPublishing"
	StageCleanup       Stage = "Cleanup"
)

// Store is the remote side of a run.
type Store interface {
	mirror.Store
	UploadFile(ctx context.Context, key, path, contentType string, opts s3.TransferOptions) error
	PutObjectTags(ctx context.Context, key string, tags []s3.Tag) error
}

// Summary reports what a successful run produced.
type Summary struct {
	ArchiveKey      string
	LogKey          string
	Mirrored        int
	OriginalBytes   int64
	CompressedBytes int64
	SavingsPercent  float64
}

type Pipeline struct {
	store    Store
	builder  *archive.Builder
	transfer s3.TransferOptions
	tags     []s3.Tag
	log      *runlog.Log
	run      RunContext

	stage   Stage
	cleaned bool
}

func New(store Store, builder *archive.Builder, transfer s3.TransferOptions, tags []s3.Tag, log *runlog.Log, run RunContext) *Pipeline {
	return &Pipeline{
		store:    store,
		builder:  builder,
		transfer: transfer,
		tags:     tags,
		log:      log,
		run:      run,
		stage:    StageInit,
	}
}

func (p *Pipeline) Stage() Stage {
	return p.stage
}

// Run executes the full mirror-archive-upload sequence. Cleanup always
// runs, whichever stage fails; a cleanup failure never masks the stage
// error that caused it.
func (p *Pipeline) Run(ctx context.Context) (summary *Summary, err error) {
	defer func() {
		if cleanupErr := p.Cleanup(); cleanupErr != nil {
			if err == nil {
				summary = nil
				err = cleanupErr
			} else {
				p.log.Errorf("cleanup after failed run: %v", cleanupErr)
			}
		}
	}()

	p.enter(StageMirroring)
	m := mirror.New(p.store, p.run.Rules, p.log.Logger)
	outcome, err := m.Run(ctx, p.run.MirrorDir)
	if err != nil {
		return nil, p.fail(err)
	}

	p.enter(StageArchiving)
	built, err := p.builder.Build(ctx, p.run.MirrorDir, p.run.ArchiveStem)
	if err != nil {
		return nil, p.fail(err)
	}
	digest, err := archive.Digest(built.Path)
	if err != nil {
		return nil, p.fail(err)
	}

	p.enter(StageUploading)
	archiveKey := s3.ArchiveKey(p.run.Timestamp, p.builder.Extension())
	if err := p.store.UploadFile(ctx, archiveKey, built.Path, p.builder.ContentType(), p.transfer); err != nil {
		return nil, p.fail(err)
	}
	p.log.Infof("Uploaded %s to S3 bucket %s", archiveKey, p.run.Bucket)

	p.enter(StageTagging)
	tags := make([]s3.Tag, 0, len(p.tags)+1)
	tags = append(tags, p.tags...)
	tags = append(tags, s3.Tag{Key: "ContentDigest", Value: digest})
	if err := p.store.PutObjectTags(ctx, archiveKey, tags); err != nil {
		return nil, p.fail(err)
	}
	p.log.Infof("Tagged %s with %d tags", archiveKey, len(tags))

	savings, percent, err := report.SizeSavings(built.OriginalBytes, built.CompressedBytes)
	if err != nil {
		return nil, p.fail(err)
	}
	p.log.Infof("Archive saved %d bytes (%.1f%% of original size)", savings, percent)

	p.enter(StageLogPublishing)
	logKey := s3.LogKey(p.run.LogPrefix, p.run.Timestamp)
	if err := p.store.UploadFile(ctx, logKey, p.log.Path(), "", p.transfer); err != nil {
		return nil, p.fail(err)
	}
	p.log.Infof("Uploaded log file to S3 at %s", logKey)

	return &Summary{
		ArchiveKey:      archiveKey,
		LogKey:          logKey,
		Mirrored:        len(outcome.Downloaded),
		OriginalBytes:   built.OriginalBytes,
		CompressedBytes: built.CompressedBytes,
		SavingsPercent:  percent,
	}, nil
}

func (p *Pipeline) enter(stage Stage) {
	p.stage = stage
	p.log.Infof("Stage %s started", stage)
}

func (p *Pipeline) fail(err error) error {
	p.log.Errorf("Stage %s failed: %v", p.stage, err)
	return fmt.Errorf("stage %s: %w", p.stage, err)
}
