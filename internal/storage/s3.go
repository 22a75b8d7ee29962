package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/RangerAkash1/workflow-builder/backend/internal/util"
)

// NewS3Client builds an S3 client from AWS_* environment variables, or nil
// when the bucket is not configured so callers can skip archival entirely.
func NewS3Client(ctx context.Context) *s3.Client {
	bucket := util.GetEnv("AWS_BUCKET")
	if bucket == "" {
		return nil
	}

	region := util.GetEnv("AWS_REGION")
	endpoint := util.GetEnv("AWS_ENDPOINT")
	accessKey := util.GetEnv("AWS_ACCESS_KEY")
	secretKey := util.GetEnv("AWS_SECRET_KEY")

	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(region),
		config.WithBaseEndpoint(endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
	)
	if err != nil {
		return nil
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
}

// ObjectKey is the canonical key for a stored file: prefix/key with the
// original filename's extension. PutFile and DeleteFile both derive keys
// through it so archived files can be found again from metadata alone.
func ObjectKey(prefix, name, key string) string {
	return fmt.Sprintf("%s/%s%s", prefix, key, filepath.Ext(name))
}

// PutFile stores a file under prefix/key preserving the original extension.
// Returns the object key used.
func PutFile(ctx context.Context, client *s3.Client, prefix, name, key string, file io.ReadSeeker) (string, error) {
	bucket := util.GetEnv("AWS_BUCKET")

	mimeType := mime.TypeByExtension(filepath.Ext(name))
	objectKey := ObjectKey(prefix, name, key)

	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(objectKey),
		Body:        file,
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return objectKey, nil
}

// DeleteFile removes an object by key.
func DeleteFile(ctx context.Context, client *s3.Client, key string) error {
	bucket := util.GetEnv("AWS_BUCKET")
	_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}
