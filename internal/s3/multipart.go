package s3

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	// MinPartSizeBytes is the S3 minimum for every part except the last.
	MinPartSizeBytes = 5 * 1024 * 1024

	// maxParts is the S3 limit on parts per multipart upload.
	maxParts = 10000
)

// uploadMultipart pushes one file as a multipart upload with bounded part
// concurrency. Parts may complete in any order; CompleteMultipartUpload
// receives them sorted by part number. Any part failure aborts the whole
// upload so no orphaned parts accumulate in the bucket.
func (c *Client) uploadMultipart(ctx context.Context, key, path, contentType string, size int64, opts TransferOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	partSize := opts.PartSizeBytes
	if n := (size + partSize - 1) / partSize; n > maxParts {
		partSize = (size + maxParts - 1) / maxParts
	}
	numParts := int((size + partSize - 1) / partSize)
	if numParts == 0 {
		numParts = 1
	}

	createInput := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		createInput.ContentType = aws.String(contentType)
	}
	created, err := c.client.CreateMultipartUpload(ctx, createInput)
	if err != nil {
		return fmt.Errorf("create multipart upload %s in bucket %s: %w", key, c.bucket, err)
	}
	uploadID := created.UploadId

	defer func() {
		if uploadID == nil {
			return
		}
		_, _ = c.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
			Bucket:   aws.String(c.bucket),
			Key:      aws.String(key),
			UploadId: uploadID,
		})
	}()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	completed := make([]types.CompletedPart, numParts)
	sem := make(chan struct{}, opts.Concurrency)

	for i := 0; i < numParts; i++ {
		mu.Lock()
		failed := firstErr != nil
		mu.Unlock()
		if failed {
			break
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if err := ctx.Err(); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			offset := int64(idx) * partSize
			length := partSize
			if offset+length > size {
				length = size - offset
			}
			partNumber := int32(idx + 1)

			out, err := c.client.UploadPart(ctx, &s3.UploadPartInput{
				Bucket:        aws.String(c.bucket),
				Key:           aws.String(key),
				UploadId:      uploadID,
				PartNumber:    aws.Int32(partNumber),
				Body:          io.NewSectionReader(f, offset, length),
				ContentLength: aws.Int64(length),
			})
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("upload part %d of %s: %w", partNumber, key, err)
				}
				mu.Unlock()
				return
			}
			completed[idx] = types.CompletedPart{
				ETag:       out.ETag,
				PartNumber: aws.Int32(partNumber),
			}
		}(i)
	}
	wg.Wait()

	if firstErr != nil {
		return fmt.Errorf("multipart upload %s to bucket %s: %w", key, c.bucket, firstErr)
	}

	_, err = c.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(c.bucket),
		Key:      aws.String(key),
		UploadId: uploadID,
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	if err != nil {
		return fmt.Errorf("complete multipart upload %s in bucket %s: %w", key, c.bucket, err)
	}
	uploadID = nil
	return nil
}
