package storage

import (
	"context"
	"io"
)

const (
	ImageFolder = "prapti-foundation-images"
	VideoFolder = "prapti-foundation-videos"
)

type UploadResult struct {
	URL      string
	PublicID string
}

// Storage is the blob store behind every image and video. Uploads happen
// before the owning document is written; destroys are best-effort cleanup.
type Storage interface {
	UploadImage(ctx context.Context, file io.Reader) (UploadResult, error)
	UploadVideo(ctx context.Context, file io.Reader) (UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
	DestroyVideo(ctx context.Context, publicID string) error
	// ThumbnailURL derives a poster image URL from a stored video.
	ThumbnailURL(videoPublicID string) string
}
