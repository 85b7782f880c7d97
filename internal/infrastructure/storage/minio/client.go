// Package minio stores feed bundles in S3-compatible object storage and
// serves them as a feed source.
package minio

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/JurisCompare/internal/config"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// ObjectAPI is the subset of the MinIO SDK the client uses.
type ObjectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// sdkAdapter narrows *minio.Client to ObjectAPI.
type sdkAdapter struct {
	*minio.Client
}

func (a sdkAdapter) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return a.Client.GetObject(ctx, bucketName, objectName, opts)
}

// Client reads and writes objects in one bucket.
type Client struct {
	api    ObjectAPI
	bucket string
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewClient connects to cfg.Endpoint and creates the bucket when missing.
func NewClient(cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	sdk, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create minio client")
	}

	c := NewClientWithAPI(sdkAdapter{sdk}, cfg.Bucket, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.EnsureBucket(ctx, cfg.Region); err != nil {
		return nil, err
	}

	c.logger.Info("MinIO client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

// NewClientWithAPI wraps an existing API implementation.
func NewClientWithAPI(api ObjectAPI, bucket string, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{api: api, bucket: bucket, logger: log.Named("minio")}
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string { return c.bucket }

// EnsureBucket creates the bucket when it does not exist.
func (c *Client) EnsureBucket(ctx context.Context, region string) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to check bucket").WithDetail("bucket=" + c.bucket)
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to create bucket").WithDetail("bucket=" + c.bucket)
	}
	c.logger.Info("Created bucket", logging.String("bucket", c.bucket))
	return nil
}

// GetObject reads the whole object.  A missing object is NotFound.
func (c *Client) GetObject(ctx context.Context, key string) ([]byte, error) {
	if c.isClosed() {
		return nil, errors.New(errors.ErrCodeStorageError, "minio client is closed")
	}
	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, key)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapError(err, key)
	}
	return data, nil
}

// PutObject writes data under key.
func (c *Client) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	if c.isClosed() {
		return errors.New(errors.ErrCodeStorageError, "minio client is closed")
	}
	_, err := c.api.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return mapError(err, key)
	}
	c.logger.Debug("Object stored", logging.String("key", key), logging.Int("bytes", len(data)))
	return nil
}

// StatObject returns the object's metadata.
func (c *Client) StatObject(ctx context.Context, key string) (minio.ObjectInfo, error) {
	info, err := c.api.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return minio.ObjectInfo{}, mapError(err, key)
	}
	return info, nil
}

// HealthCheck verifies the bucket is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "minio health check failed")
	}
	if !exists {
		return errors.New(errors.ErrCodeStorageError, "bucket missing").WithDetail("bucket=" + c.bucket)
	}
	return nil
}

// Close marks the client closed.  The SDK holds no connections to release.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func mapError(err error, key string) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return errors.Wrap(err, errors.ErrCodeNotFound, "object not found").WithDetail("key=" + key)
	}
	return errors.Wrap(err, errors.ErrCodeStorageError, "object storage request failed").WithDetail("key=" + key)
}

//Personal.AI order the ending
