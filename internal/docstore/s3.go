package docstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectClient defines the S3 operations needed by S3Provider.
type ObjectClient interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]string, error)
}

// S3Provider reads transcript documents from an S3 bucket.
type S3Provider struct {
	bucket string
	prefix string
	client ObjectClient
}

// NewS3Provider creates a provider for the given bucket and key prefix.
func NewS3Provider(bucket, prefix string, client ObjectClient) *S3Provider {
	return &S3Provider{
		bucket: bucket,
		prefix: prefix,
		client: client,
	}
}

// List returns document names under the configured prefix, with the prefix
// stripped so names are relative like the other backends.
func (p *S3Provider) List(ctx context.Context) ([]string, error) {
	keys, err := p.client.ListObjects(ctx, p.bucket, p.keyPrefix())
	if err != nil {
		return nil, err
	}

	var result []string
	prefixLen := len(p.keyPrefix())
	for _, key := range keys {
		if len(key) > prefixLen {
			result = append(result, key[prefixLen:])
		}
	}
	sort.Strings(result)
	return result, nil
}

// Read downloads a named document.
func (p *S3Provider) Read(ctx context.Context, name string) ([]byte, error) {
	return p.client.GetObject(ctx, p.bucket, p.keyPrefix()+name)
}

func (p *S3Provider) keyPrefix() string {
	if p.prefix == "" {
		return ""
	}
	return p.prefix + "/"
}

// AWSObjectClient implements ObjectClient using AWS SDK v2.
type AWSObjectClient struct {
	s3Client *s3.Client
}

// NewAWSObjectClient wraps an AWS S3 client.
func NewAWSObjectClient(s3Client *s3.Client) *AWSObjectClient {
	return &AWSObjectClient{s3Client: s3Client}
}

// GetObject retrieves an object from S3.
func (c *AWSObjectClient) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	result, err := c.s3Client.GetObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", key, bucket, err)
	}
	defer func() { _ = result.Body.Close() }()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	return data, nil
}

// ListObjects lists object keys under a prefix. A missing bucket or prefix
// returns an empty list so startup ingestion tolerates an empty deployment.
func (c *AWSObjectClient) ListObjects(ctx context.Context, bucket, prefix string) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(c.s3Client, input)

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			var noSuchBucket *types.NoSuchBucket
			if errors.As(err, &noSuchBucket) {
				return []string{}, nil
			}
			var notFound *types.NotFound
			if errors.As(err, &notFound) {
				return []string{}, nil
			}
			return nil, fmt.Errorf("failed to list objects with prefix %s in bucket %s: %w", prefix, bucket, err)
		}

		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}

	return keys, nil
}
