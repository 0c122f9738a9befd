package videos

import (
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/categories"
)

type Video struct {
	ID                string          `bson:"_id,omitempty" json:"id"`
	Title             string          `bson:"title" json:"title"`
	Description       string          `bson:"description" json:"description"`
	Thumbnail         string          `bson:"thumbnail" json:"thumbnail"`
	VideoURL          string          `bson:"videoUrl" json:"videoUrl"`
	Date              time.Time       `bson:"date" json:"date"`
	CategoryID        string          `bson:"category" json:"-"`
	Category          *categories.Ref `bson:"-" json:"category,omitempty"`
	Duration          string          `bson:"duration" json:"duration"`
	PublicID          string          `bson:"publicId" json:"publicId"`
	ThumbnailPublicID string          `bson:"thumbnailPublicId,omitempty" json:"thumbnailPublicId,omitempty"`
	IsActive          bool            `bson:"isActive" json:"isActive"`
	CreatedAt         time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// UploadMeta is the text portion of the multipart upload.
type UploadMeta struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"required,max=1000"`
	Category    string `validate:"required"`
	Duration    string `validate:"required,duration"`
	Date        string
}

type UpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Category    *string `json:"category"`
	Duration    *string `json:"duration" validate:"omitempty,duration"`
	Date        *string `json:"date"`
	IsActive    *bool   `json:"isActive"`
}

type ListFilter struct {
	Category  string
	Search    string
	SortBy    string
	SortOrder int
	Page      int64
	Limit     int64
}

func parseDate(raw string, location *time.Location, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(location), nil
	}
	return time.ParseInLocation("2006-01-02", raw, location)
}
