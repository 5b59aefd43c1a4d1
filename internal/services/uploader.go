package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UploaderProvider defines the interface for backup artifact uploads.
type UploaderProvider interface {
	UploadFile(ctx context.Context, localPath, folder, contentType string) error
}

// S3Uploader uploads backup artifacts to an S3 bucket under a fixed prefix.
type S3Uploader struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Uploader creates an uploader for the given bucket and key prefix.
// When accessKey/secretKey are empty the default AWS credential chain is used.
func NewS3Uploader(ctx context.Context, region, bucket, prefix, accessKey, secretKey string) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Uploader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// UploadFile puts a local file under {prefix}/{folder}/{basename} in the
// bucket.
func (u *S3Uploader) UploadFile(ctx context.Context, localPath, folder, contentType string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("could not open artifact %s: %w", localPath, err)
	}
	defer f.Close()

	key := fmt.Sprintf("%s/%s/%s", u.prefix, folder, filepath.Base(localPath))
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}
