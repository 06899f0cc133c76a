package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

var (
	// ErrNoCredentials means no usable credentials were found anywhere in
	// the resolution chain.
	ErrNoCredentials = errors.New("no credentials found")

	// ErrPartialCredentials means exactly one of access key and secret key
	// was configured.
	ErrPartialCredentials = errors.New("incomplete credentials: access key and secret key must both be set")
)

// ResolveConfig builds an aws.Config from Options. Static keys win over the
// named profile; setting only one of the pair is rejected before any network
// call is made.
func ResolveConfig(ctx context.Context, opts Options) (aws.Config, error) {
	access := strings.TrimSpace(opts.AccessKey)
	secret := strings.TrimSpace(opts.SecretKey)

	if (access == "") != (secret == "") {
		return aws.Config{}, ErrPartialCredentials
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if access != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(access, secret, ""),
		))
	} else if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}

	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		return aws.Config{}, fmt.Errorf("%w: %v", ErrNoCredentials, err)
	}
	return cfg, nil
}
