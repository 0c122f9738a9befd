package storage

const (
	MaxImageSize = 10 << 20  // 10MB per image
	MaxVideoSize = 500 << 20 // 500MB per video
)

var allowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/webp":    true,
	"image/gif":     true,
	"image/bmp":     true,
	"image/tiff":    true,
	"image/svg+xml": true,
}

var allowedVideoTypes = map[string]bool{
	"video/mp4":  true,
	"video/mov":  true,
	"video/avi":  true,
	"video/wmv":  true,
	"video/flv":  true,
	"video/webm": true,
	"video/mkv":  true,
	// common browser-reported aliases
	"video/quicktime": true,
	"video/x-msvideo": true,
}

func AllowedImageType(mime string) bool {
	return allowedImageTypes[mime]
}

func AllowedVideoType(mime string) bool {
	return allowedVideoTypes[mime]
}
