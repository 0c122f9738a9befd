package awards

import (
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/categories"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/images"
)

type Award struct {
	ID          string          `bson:"_id,omitempty" json:"id"`
	Title       string          `bson:"title" json:"title"`
	Description string          `bson:"description" json:"description"`
	Images      []images.Image  `bson:"images" json:"images"`
	CategoryID  string          `bson:"category" json:"-"`
	Category    *categories.Ref `bson:"-" json:"category,omitempty"`
	Date        time.Time       `bson:"date" json:"date"`
	IsActive    bool            `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt" json:"updatedAt"`
}

type CreateRequest struct {
	Title       string         `json:"title" validate:"required,max=200"`
	Description string         `json:"description" validate:"required,max=1000"`
	Images      []images.Image `json:"images" validate:"required,min=1,max=10,dive"`
	Category    string         `json:"category" validate:"required"`
	Date        string         `json:"date"`
}

type UpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Category    *string `json:"category"`
	Date        *string `json:"date"`
	IsActive    *bool   `json:"isActive"`
}

type UploadMeta struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"required,max=1000"`
	Category    string `validate:"required"`
	Date        string
}

type ListFilter struct {
	Category  string
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
