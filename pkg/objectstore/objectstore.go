package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store is the interface the rest of the application depends on.
// It is satisfied by Client and by test fakes.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (*StoredObject, error)
	SignURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// StoredObject describes an object after a successful upload.
type StoredObject struct {
	Key       string
	PublicURL string
}

// Config holds object storage connection details.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Client talks to a MinIO/S3-compatible object storage service.
// It holds no local state; every method is a remote call.
type Client struct {
	client *miniogo.Client
	bucket string
	scheme string
}

// NewClient creates a new object storage client for the configured bucket.
func NewClient(cfg Config) (*Client, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	log.Printf("Object storage client created for bucket %q at %s", cfg.Bucket, cfg.Endpoint)

	return &Client{
		client: client,
		bucket: cfg.Bucket,
		scheme: scheme,
	}, nil
}

// Put uploads data to the bucket under key. Re-uploading an existing key
// replaces its content (upsert); it never fails on conflict.
func (c *Client) Put(ctx context.Context, key string, data []byte, contentType string) (*StoredObject, error) {
	_, err := c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), miniogo.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	return &StoredObject{
		Key:       key,
		PublicURL: c.publicURL(key),
	}, nil
}

// SignURL returns a URL granting read access to the object at key for ttl.
// It fails if the backing object does not exist.
func (c *Client) SignURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	// Presigning is a local signature computation, so probe the object first
	// to surface missing keys as an error rather than a signed 404.
	if _, err := c.client.StatObject(ctx, c.bucket, key, miniogo.StatObjectOptions{}); err != nil {
		return "", fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	u, err := c.client.PresignedGetObject(ctx, c.bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for object %s: %w", key, err)
	}
	return u.String(), nil
}

// publicURL builds the canonical unauthenticated URL for an object.
func (c *Client) publicURL(key string) string {
	u := url.URL{
		Scheme: c.scheme,
		Host:   c.client.EndpointURL().Host,
		Path:   fmt.Sprintf("/%s/%s", c.bucket, key),
	}
	return u.String()
}
