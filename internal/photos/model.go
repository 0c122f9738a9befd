package photos

import (
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/categories"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/images"
)

type Photo struct {
	ID          string          `bson:"_id,omitempty" json:"id"`
	Title       string          `bson:"title" json:"title"`
	Description string          `bson:"description" json:"description"`
	Images      []images.Image  `bson:"images" json:"images"`
	CategoryID  string          `bson:"category" json:"-"`
	Category    *categories.Ref `bson:"-" json:"category,omitempty"`
	Date        time.Time       `bson:"date" json:"date"`
	Location    string          `bson:"location" json:"location"`
	IsActive    bool            `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// CreateRequest carries pre-uploaded image references; the upload endpoints
// build the same payload from multipart files instead.
type CreateRequest struct {
	Title       string         `json:"title" validate:"required,max=100"`
	Description string         `json:"description" validate:"required,max=500"`
	Images      []images.Image `json:"images" validate:"required,min=1,max=10,dive"`
	Category    string         `json:"category" validate:"required"`
	Date        string         `json:"date"`
	Location    string         `json:"location" validate:"omitempty,max=100"`
}

type UpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Category    *string `json:"category"`
	Date        *string `json:"date"`
	Location    *string `json:"location" validate:"omitempty,max=100"`
	IsActive    *bool   `json:"isActive"`
}

// UploadMeta is the text portion of a multipart upload.
type UploadMeta struct {
	Title       string `validate:"required,max=100"`
	Description string `validate:"required,max=500"`
	Category    string `validate:"required"`
	Date        string
	Location    string `validate:"omitempty,max=100"`
}

type ListFilter struct {
	Category  string
	Search    string
	SortBy    string
	SortOrder int
	Page      int64
	Limit     int64
}

// parseDate accepts RFC3339 or a plain YYYY-MM-DD date; empty falls back.
func parseDate(raw string, location *time.Location, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(location), nil
	}
	return time.ParseInLocation("2006-01-02", raw, location)
}
