package storage

import (
	"context"
	"fmt"

	"footnote/config"
)

// NewBlobStoresFromConfig creates the video and thumbnail stores based on
// the storage config type. Both share one client configuration and differ
// only in bucket.
func NewBlobStoresFromConfig(ctx context.Context, cfg config.StorageConfig) (videos BlobStore, thumbnails BlobStore, err error) {
	switch cfg.Type {
	case "memory":
		base := cfg.PublicBaseURL
		if base == "" {
			base = "memory://local"
		}
		return NewMemoryStore(publicURL(base, "videos")), NewMemoryStore(publicURL(base, "thumbnails")), nil
	case "s3":
		opts := S3Options{
			Endpoint:      cfg.Endpoint,
			Region:        cfg.Region,
			Bucket:        cfg.Bucket,
			AccessKey:     cfg.AccessKey,
			SecretKey:     cfg.SecretKey,
			PublicBaseURL: cfg.PublicBaseURL,
		}
		videoStore, err := NewS3Store(ctx, opts)
		if err != nil {
			return nil, nil, err
		}

		opts.Bucket = cfg.ThumbnailBucket
		if opts.Bucket == "" {
			opts.Bucket = cfg.Bucket
		}
		thumbnailStore, err := NewS3Store(ctx, opts)
		if err != nil {
			return nil, nil, err
		}
		return videoStore, thumbnailStore, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
