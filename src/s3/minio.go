package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"typeshift/src/config"
)

// URLPrefix marks object locations in import and export arguments.
const URLPrefix = "s3://"

// ParseURL splits "s3://bucket/key" into bucket and key.
func ParseURL(url string) (bucket, key string, err error) {
	if !strings.HasPrefix(url, URLPrefix) {
		return "", "", fmt.Errorf("not an s3 url: %s", url)
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(url, URLPrefix), "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 url must name a bucket and a key: %s", url)
	}
	return bucket, key, nil
}

// IsURL reports whether location names an object.
func IsURL(location string) bool {
	return strings.HasPrefix(location, URLPrefix)
}

// ObjectStore reads and writes objects on S3 or an S3 compatible store such
// as MinIO.
type ObjectStore struct {
	client *s3.Client
}

// NewObjectStore creates a client from the settings. A custom endpoint
// switches to path-style addressing, which MinIO requires.
func NewObjectStore(ctx context.Context, settings config.S3Settings) (*ObjectStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(settings.Region),
	}
	if settings.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if settings.Endpoint != "" {
			logrus.Debugf("Using S3 endpoint %s", settings.Endpoint)
			o.BaseEndpoint = aws.String(settings.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &ObjectStore{client: client}, nil
}

// Reader returns the body of an object.
func (m *ObjectStore) Reader(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	logrus.Debugf("S3 Reader: %s/%s", bucket, key)

	result, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}

	return result.Body, nil
}

// Writer returns a writer that uploads the object on Close.
func (m *ObjectStore) Writer(ctx context.Context, bucket, key string) (io.WriteCloser, error) {
	logrus.Debugf("S3 Writer: %s/%s", bucket, key)

	return &objectWriter{
		client: m.client,
		bucket: bucket,
		key:    key,
		ctx:    ctx,
	}, nil
}

// List returns the keys under a prefix.
func (m *ObjectStore) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	var objects []string
	paginator := s3.NewListObjectsV2Paginator(m.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, aws.ToString(obj.Key))
		}
	}

	return objects, nil
}

// objectWriter buffers an upload in memory.
type objectWriter struct {
	client *s3.Client
	bucket string
	key    string
	ctx    context.Context
	buffer bytes.Buffer
	closed bool
}

func (w *objectWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("write to closed object %s/%s", w.bucket, w.key)
	}
	return w.buffer.Write(p)
}

// Close uploads the buffered data.
func (w *objectWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	logrus.Infof("Uploading %s/%s with %d bytes", w.bucket, w.key, w.buffer.Len())

	_, err := w.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
		Body:   bytes.NewReader(w.buffer.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s/%s: %w", w.bucket, w.key, err)
	}
	return nil
}
