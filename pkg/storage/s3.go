package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appconfig "github.com/travlrgetaways/travlr/config"
)

type s3Disk struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3 builds an S3-backed disk from the STORAGE_S3_* settings. A custom
// endpoint supports MinIO and other S3-compatible stores.
func NewS3(ctx context.Context) (Disk, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(appconfig.StorageS3Region()),
	}

	if key := appconfig.StorageS3Key(); key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, appconfig.StorageS3Secret(), ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint := appconfig.StorageS3Endpoint(); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Disk{
		client:  client,
		bucket:  appconfig.StorageS3Bucket(),
		baseURL: strings.TrimSuffix(appconfig.StorageS3URL(), "/"),
	}, nil
}

func (d *s3Disk) Put(ctx context.Context, path string, r io.Reader) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(strings.TrimPrefix(path, "/")),
		Body:   r,
	})
	return err
}

func (d *s3Disk) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(strings.TrimPrefix(path, "/")),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out.Body, nil
}

func (d *s3Disk) Delete(ctx context.Context, path string) error {
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(strings.TrimPrefix(path, "/")),
	})
	return err
}

func (d *s3Disk) Exists(ctx context.Context, path string) (bool, error) {
	_, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(strings.TrimPrefix(path, "/")),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (d *s3Disk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimPrefix(path, "/")
}
