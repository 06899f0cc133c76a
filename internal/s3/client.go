package s3

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Options struct {
	Profile            string
	Region             string
	Endpoint           string
	AccessKey          string
	SecretKey          string
	Bucket             string
	PathStyle          bool
	InsecureSkipVerify bool
}

// api is the subset of the S3 service client the wrapper calls. *s3.Client
// satisfies it; tests substitute an in-memory fake.
type api interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	PutObjectTagging(ctx context.Context, params *s3.PutObjectTaggingInput, optFns ...func(*s3.Options)) (*s3.PutObjectTaggingOutput, error)
	CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error)
	UploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error)
	CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error)
	AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error)
}

type Client struct {
	client     api
	downloader *manager.Downloader
	bucket     string
}

// Object is one bucket entry as seen by enumeration.
type Object struct {
	Key  string
	Size int64
}

func New(ctx context.Context, opts Options) (*Client, error) {
	cfg, err := ResolveConfig(ctx, opts)
	if err != nil {
		return nil, err
	}

	var baseEndpoint *string
	if strings.TrimSpace(opts.Endpoint) != "" {
		endpointURL, err := url.Parse(strings.TrimSpace(opts.Endpoint))
		if err != nil {
			return nil, fmt.Errorf("s3 endpoint: %w", err)
		}
		if endpointURL.Scheme == "" {
			endpointURL.Scheme = "https"
			endpointURL, _ = url.Parse(endpointURL.String())
		}
		baseEndpoint = aws.String(endpointURL.String())
	}

	httpClient := http.DefaultClient
	if opts.InsecureSkipVerify {
		httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = baseEndpoint
		o.UsePathStyle = opts.PathStyle
		o.HTTPClient = httpClient
	})

	return &Client{
		client:     client,
		downloader: manager.NewDownloader(client),
		bucket:     opts.Bucket,
	}, nil
}

func (c *Client) Bucket() string {
	return c.bucket
}

// ListObjects enumerates bucket contents under prefix. maxKeys of 0 means
// unlimited.
func (c *Client) ListObjects(ctx context.Context, prefix string, maxKeys int32) ([]Object, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	if maxKeys > 0 {
		input.MaxKeys = aws.Int32(maxKeys)
	}
	var objects []Object
	paginator := s3.NewListObjectsV2Paginator(c.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list bucket %s: %w", c.bucket, err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			objects = append(objects, Object{
				Key:  *obj.Key,
				Size: aws.ToInt64(obj.Size),
			})
		}
		if maxKeys > 0 && int32(len(objects)) >= maxKeys {
			break
		}
	}
	return objects, nil
}

// Download fetches one object into localPath, creating parent directories.
func (c *Client) Download(ctx context.Context, key, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("create dir for %s: %w", localPath, err)
	}
	f, err := os.OpenFile(localPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	_, err = c.downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("download %s from bucket %s: %w", key, c.bucket, err)
	}
	return nil
}
