package source

import (
	"context"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	s3Scheme      = "s3://"
	DefaultRegion = "us-east-1"
)

// ObjectGetter is the subset of the S3 client the loader uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Loader struct {
	client ObjectGetter
}

func NewS3Loader(client ObjectGetter) *S3Loader {
	return &S3Loader{client: client}
}

// NewS3LoaderFromProfile builds a client from the shared AWS config. An empty profile uses
// the default credential chain.
func NewS3LoaderFromProfile(ctx context.Context, profile, region string) (*S3Loader, error) {
	opts := []func(*config.LoadOptions) error{config.WithDefaultRegion(DefaultRegion)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return NewS3Loader(s3.NewFromConfig(awsCfg)), nil
}

func ParseS3Location(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("invalid s3 location %q: missing %s prefix", location, s3Scheme)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 location %q: expected s3://bucket/key", location)
	}
	return bucket, key, nil
}

func (l *S3Loader) Load(ctx context.Context, location string) (string, error) {
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return "", err
	}

	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awssdk.String(bucket),
		Key:    awssdk.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get object %s: %w", location, err)
	}
	defer out.Body.Close()

	if out.ContentLength != nil && *out.ContentLength > MaxDocumentBytes {
		return "", fmt.Errorf("failed to read %s: %w", location, ErrDocumentTooLarge)
	}
	return readLimited(out.Body, location)
}
