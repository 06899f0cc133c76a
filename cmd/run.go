package cmd

import (
	"context"
	"time"

	"VelArchiver/internal/archive"
	"VelArchiver/internal/config"
	"VelArchiver/internal/lock"
	"VelArchiver/internal/mirror"
	"VelArchiver/internal/pipeline"
	"VelArchiver/internal/runlog"
	"VelArchiver/internal/s3"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Mirror the bucket, archive it, upload and tag the result",
	Long:  "Run one archival pass: mirror the configured bucket to the work directory, pack the mirror into a compressed tar archive, upload it, tag it, and publish the run log back to the bucket. Local scratch files are removed whether the run succeeds or fails.",
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	v, err := config.Load(false)
	if err != nil {
		return err
	}
	cfg, err := config.Unmarshal(v)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	locker := lock.NewLocal(lock.LocalOptions{
		Dir: config.LockDir(cfg),
		TTL: time.Duration(config.LockTTLMinutes(cfg)) * time.Minute,
	})
	if err := locker.Acquire(ctx); err != nil {
		return err
	}
	defer func() { _ = locker.Release(ctx) }()

	s3Client, err := s3.New(ctx, s3.Options{
		Profile:            cfg.S3.Profile,
		Region:             cfg.S3.Region,
		Endpoint:           cfg.S3.Endpoint,
		AccessKey:          cfg.S3.AccessKey,
		SecretKey:          cfg.S3.SecretKey,
		Bucket:             cfg.S3.Bucket,
		PathStyle:          cfg.S3.PathStyle,
		InsecureSkipVerify: cfg.S3.TLS != nil && cfg.S3.TLS.InsecureSkipVerify,
	})
	if err != nil {
		return err
	}

	notif := notifierFromConfig(cfg, func(msg string) { cmd.PrintErrln("Warning:", msg) })

	rules := mirror.ForRun(config.IgnoreSuffixes(cfg), config.LogPrefix(cfg))
	run := pipeline.NewRunContext(time.Now(), cfg.S3.Bucket, config.WorkDir(cfg), config.LogPrefix(cfg), rules)

	if notif != nil {
		_ = notif.NotifyStart(ctx, cfg.S3.Bucket, run.Timestamp)
	}

	runLog, err := runlog.Open(run.LogPath)
	if err != nil {
		if notif != nil {
			_ = notif.NotifyError(ctx, cfg.S3.Bucket, run.Timestamp, err)
		}
		return err
	}

	builder := archive.New(config.ArchiveFormat(cfg), config.CompressionLevel(cfg), runLog.Logger)
	transfer := s3.TransferOptions{
		ThresholdBytes: int64(config.MultipartThresholdMB(cfg)) * 1024 * 1024,
		PartSizeBytes:  int64(config.PartSizeMB(cfg)) * 1024 * 1024,
		Concurrency:    config.Concurrency(cfg),
	}
	var tags []s3.Tag
	for _, t := range config.Tags(cfg) {
		tags = append(tags, s3.Tag{Key: t.Key, Value: t.Value})
	}

	cmd.Printf("Archiving bucket %q (run %s) ...\n", cfg.S3.Bucket, run.Timestamp)
	start := time.Now()
	summary, err := pipeline.New(s3Client, builder, transfer, tags, runLog, run).Run(ctx)
	duration := time.Since(start)
	if err != nil {
		if notif != nil {
			_ = notif.NotifyError(ctx, cfg.S3.Bucket, run.Timestamp, err)
		}
		cmd.Printf("Failed after %s: %v\n", duration.Round(time.Second), err)
		return err
	}

	if notif != nil {
		_ = notif.NotifySuccess(ctx, cfg.S3.Bucket, summary.ArchiveKey, duration, summary.CompressedBytes, summary.SavingsPercent)
	}

	cmd.Printf("Mirrored %d objects\n", summary.Mirrored)
	cmd.Printf("Uploaded %s (%d bytes, saved %.1f%%)\n", summary.ArchiveKey, summary.CompressedBytes, summary.SavingsPercent)
	cmd.Printf("Published run log to %s\n", summary.LogKey)
	cmd.Printf("OK in %s\n", duration.Round(time.Second))
	return nil
}
