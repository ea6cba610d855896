// Package storage wraps Alibaba Cloud OSS for file attachments. Every upload
// returns a public URL for clients plus the object key, which doubles as the
// deletion handle.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/siakadcloud/siakad-backend/internal/config"
)

// extByContentType lists the attachment types the API accepts.
var extByContentType = map[string]string{
	"application/pdf":  ".pdf",
	"application/zip":  ".zip",
	"image/jpeg":       ".jpg",
	"image/png":        ".png",
	"text/csv":         ".csv",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// AllowedContentType reports whether uploads of this MIME type are accepted.
func AllowedContentType(ct string) bool {
	_, ok := extByContentType[ct]
	return ok
}

// Client is an OSS-backed file store.
type Client struct {
	bucket    *oss.Bucket
	publicURL string
	log       zerolog.Logger
}

// New connects to the configured OSS bucket. Returns a disabled client when
// no access key is configured, so local development works without OSS;
// uploads then fail explicitly and deletes are no-ops.
func New(cfg *config.Config, log zerolog.Logger) (*Client, error) {
	c := &Client{log: log.With().Str("component", "storage").Logger()}
	if cfg.OSSAccessKey == "" {
		c.log.Warn().Msg("OSS credentials not configured, file uploads disabled")
		return c, nil
	}

	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, fmt.Errorf("oss client: %w", err)
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, fmt.Errorf("oss bucket %s: %w", cfg.OSSBucket, err)
	}

	c.bucket = bucket
	c.publicURL = fmt.Sprintf("https://%s.%s", cfg.OSSBucket, cfg.OSSEndpoint)
	c.log.Info().Str("bucket", cfg.OSSBucket).Msg("OSS connected")
	return c, nil
}

// Upload stores r under a fresh UUID key inside folder and returns the
// public URL and the object key. Callers must treat upload failure of a
// required file as a request failure.
func (c *Client) Upload(ctx context.Context, folder string, r io.Reader, contentType string) (url, key string, err error) {
	ext, ok := extByContentType[contentType]
	if !ok {
		return "", "", fmt.Errorf("unsupported content type %s", contentType)
	}
	if c.bucket == nil {
		return "", "", fmt.Errorf("object storage is not configured")
	}

	key = path.Join(folder, uuid.New().String()+ext)
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := c.bucket.PutObject(key, r, opts...); err != nil {
		return "", "", fmt.Errorf("oss put %s: %w", key, err)
	}
	return c.publicURL + "/" + key, key, nil
}

// Fetch opens the object stored under key for reading. The caller closes it.
func (c *Client) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	if c.bucket == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	body, err := c.bucket.GetObject(key, oss.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("oss get %s: %w", key, err)
	}
	return body, nil
}

// Delete removes the object stored under key, best effort: failures are
// logged and swallowed so cleanup never blocks the primary operation.
func (c *Client) Delete(ctx context.Context, key string) {
	if c.bucket == nil || key == "" {
		return
	}
	if err := c.bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("best-effort object delete failed")
	}
}
