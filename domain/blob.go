package domain

import (
	"context"
	"io"
)

const (
	BucketProfiles    = "profiles"
	BucketMarketplace = "marketplace"
)

// BlobStore uploads files and hands back their public URL
type BlobStore interface {
	Upload(ctx context.Context, bucket, name, contentType string, body io.Reader) (publicURL string, err error)
}
