package cmd

import (
	"context"

	"VelArchiver/internal/config"
	"VelArchiver/internal/s3"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List weekly archives in the bucket",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
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

	objects, err := s3Client.ListObjects(ctx, s3.ArchiveKeyPrefix, 0)
	if err != nil {
		return err
	}

	count := 0
	for _, obj := range objects {
		ts, err := s3.ParseArchiveTimestamp(obj.Key)
		if err != nil {
			continue
		}
		cmd.Printf("%s  %12d  %s\n", ts.Format("2006-01-02 15:04:05"), obj.Size, obj.Key)
		count++
	}
	if count == 0 {
		cmd.Printf("No archives found in bucket %q\n", cfg.S3.Bucket)
	}
	return nil
}
