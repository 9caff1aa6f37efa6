package worker

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Object is a downloaded posting document
type Object struct {
	Data        []byte
	ContentType string
}

// ObjectGetter downloads posting documents by key
type ObjectGetter interface {
	Get(ctx context.Context, key string) (*Object, error)
}

// S3Config locates a bucket on S3 or an S3-compatible service such as R2
type S3Config struct {
	Bucket    string
	Endpoint  string // empty uses the AWS endpoint for Region
	Region    string
	AccessKey string
	SecretKey string
	// PathStyle addresses the bucket in the URL path rather than the host name
	PathStyle bool
}

// S3Objects reads posting documents from one bucket
type S3Objects struct {
	client *s3.Client
	bucket string
}

// NewS3Objects builds an S3 client. Static credentials are used when both keys are
// set; otherwise the default AWS credential chain applies.
func NewS3Objects(ctx context.Context, cfg S3Config) (*S3Objects, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})
	return &S3Objects{client: client, bucket: cfg.Bucket}, nil
}

// Get downloads one object
func (o *S3Objects) Get(ctx context.Context, key string) (*Object, error) {
	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return &Object{Data: buf.Bytes(), ContentType: aws.ToString(out.ContentType)}, nil
}
