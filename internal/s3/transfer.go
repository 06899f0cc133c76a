package s3

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Tag is one key/value pair attached to a remote object. Order is
// significant: PutObjectTags sends tags in slice order.
type Tag struct {
	Key   string
	Value string
}

type TransferOptions struct {
	// ThresholdBytes selects the strategy: files at or above it go through
	// the multipart path, smaller files in a single PutObject.
	ThresholdBytes int64

	// PartSizeBytes is the multipart chunk size before the 5 MiB floor.
	PartSizeBytes int64

	// Concurrency bounds in-flight part uploads.
	Concurrency int
}

const (
	DefaultThresholdBytes = 25 * 1024 * 1024
	DefaultPartSizeBytes  = MinPartSizeBytes
	DefaultConcurrency    = 10
)

func (o TransferOptions) withDefaults() TransferOptions {
	if o.ThresholdBytes <= 0 {
		o.ThresholdBytes = DefaultThresholdBytes
	}
	if o.PartSizeBytes < MinPartSizeBytes {
		o.PartSizeBytes = MinPartSizeBytes
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	return o
}

// UploadFile transfers the file at path to key, choosing single-shot or
// multipart by size. Failures are not retried here; the caller owns retry
// policy for the whole run.
func (c *Client) UploadFile(ctx context.Context, key, path, contentType string, opts TransferOptions) error {
	opts = opts.withDefaults()

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() >= opts.ThresholdBytes {
		return c.uploadMultipart(ctx, key, path, contentType, info.Size(), opts)
	}
	return c.uploadSingle(ctx, key, path, contentType, info.Size())
}

func (c *Client) uploadSingle(ctx context.Context, key, path, contentType string, size int64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := c.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("upload %s to bucket %s: %w", key, c.bucket, err)
	}
	return nil
}

// PutObjectTags attaches tags to an already-uploaded object. This is a
// second remote call, not atomic with the upload: a crash in between leaves
// the object untagged, which a later audit can detect by listing tags.
func (c *Client) PutObjectTags(ctx context.Context, key string, tags []Tag) error {
	set := make([]types.Tag, 0, len(tags))
	for _, t := range tags {
		set = append(set, types.Tag{
			Key:   aws.String(t.Key),
			Value: aws.String(t.Value),
		})
	}
	_, err := c.client.PutObjectTagging(ctx, &s3.PutObjectTaggingInput{
		Bucket:  aws.String(c.bucket),
		Key:     aws.String(key),
		Tagging: &types.Tagging{TagSet: set},
	})
	if err != nil {
		return fmt.Errorf("tag %s in bucket %s: %w", key, c.bucket, err)
	}
	return nil
}
