package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNotConfigured = errors.New("s3 uploader not configured")

// ObjectPutter is the subset of *s3.Client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Uploader struct {
	Client ObjectPutter
	Bucket string
	Prefix string
}

// NewS3Uploader returns a disabled uploader when bucket is empty.
func NewS3Uploader(ctx context.Context, bucket, region, prefix string) (*S3Uploader, error) {
	if bucket == "" {
		return &S3Uploader{Client: nil, Bucket: "", Prefix: prefix}, nil
	}
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	if region == "" {
		region = "eu-central-1"
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Uploader{Client: s3.NewFromConfig(cfg), Bucket: bucket, Prefix: prefix}, nil
}

func (u *S3Uploader) Enabled() bool { return u != nil && u.Client != nil && u.Bucket != "" }

// Key places name under <prefix><runID>/.
func (u *S3Uploader) Key(runID, name string) string {
	return path.Join(strings.TrimSuffix(u.Prefix, "/"), runID, name)
}

// UploadFile uploads a local export and returns its s3:// URI.
func (u *S3Uploader) UploadFile(ctx context.Context, runID, filePath string) (string, error) {
	if !u.Enabled() {
		return "", ErrNotConfigured
	}
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer f.Close()

	key := u.Key(runID, filepath.Base(filePath))
	_, err = u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &u.Bucket,
		Key:         &key,
		Body:        f,
		ContentType: aws.String(ContentType(filePath)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", u.Bucket, key), nil
}

// UploadJSON stores v as <prefix><runID>/<name>.
func (u *S3Uploader) UploadJSON(ctx context.Context, runID, name string, v any) (string, error) {
	if !u.Enabled() {
		return "", ErrNotConfigured
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	key := u.Key(runID, name)
	_, err = u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &u.Bucket,
		Key:         &key,
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", u.Bucket, key), nil
}

func ContentType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".parquet":
		return "application/vnd.apache.parquet"
	case ".db":
		return "application/vnd.sqlite3"
	default:
		return "application/octet-stream"
	}
}
