package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Options configure an S3Disk. Endpoint is empty for AWS and set for
// MinIO, R2 or Spaces.
type S3Options struct {
	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string
	URL      string
}

// S3Disk stores objects in an S3-compatible bucket.
type S3Disk struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Disk(ctx context.Context, o S3Options) (*S3Disk, error) {
	if o.Bucket == "" {
		return nil, errors.New("storage/s3: S3_BUCKET is not configured")
	}
	if o.Region == "" {
		o.Region = "us-east-1"
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(o.Region)}
	if o.Key != "" && o.Secret != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.Key, o.Secret, ""),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage/s3: load config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if o.Endpoint != "" {
		clientOpts = append(clientOpts, func(so *s3.Options) {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		})
	}

	baseURL := strings.TrimRight(o.URL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", o.Bucket, o.Region)
	}

	return &S3Disk{
		client:  s3.NewFromConfig(cfg, clientOpts...),
		bucket:  o.Bucket,
		baseURL: baseURL,
	}, nil
}

func (d *S3Disk) Name() string    { return "s3" }
func (d *S3Disk) BaseURL() string { return d.baseURL }

func (d *S3Disk) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(strings.TrimLeft(key, "/")),
		Body:   r,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := d.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("storage/s3: put %s: %w", key, err)
	}
	return nil
}

func (d *S3Disk) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(strings.TrimLeft(key, "/")),
	})
	if err != nil {
		return nil, fmt.Errorf("storage/s3: get %s: %w", key, err)
	}
	return out.Body, nil
}

func (d *S3Disk) Exists(ctx context.Context, key string) (bool, error) {
	_, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(strings.TrimLeft(key, "/")),
	})
	if err == nil {
		return true, nil
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return false, nil
	}
	return false, fmt.Errorf("storage/s3: head %s: %w", key, err)
}

func (d *S3Disk) Delete(ctx context.Context, key string) error {
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(strings.TrimLeft(key, "/")),
	})
	if err != nil {
		return fmt.Errorf("storage/s3: delete %s: %w", key, err)
	}
	return nil
}
