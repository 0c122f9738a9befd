package blogs

import (
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/categories"
)

const defaultAuthor = "Prapti Foundation"

type Blog struct {
	ID         string          `bson:"_id,omitempty" json:"id"`
	Title      string          `bson:"title" json:"title"`
	Content    string          `bson:"content" json:"content"`
	CategoryID string          `bson:"category" json:"-"`
	Category   *categories.Ref `bson:"-" json:"category,omitempty"`
	Image      string          `bson:"image" json:"image"`
	Author     string          `bson:"author" json:"author"`
	CreatedAt  time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time       `bson:"updatedAt" json:"updatedAt"`
}

type CreateRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category" validate:"required"`
	Image    string `json:"image" validate:"required,url"`
	Author   string `json:"author" validate:"omitempty,max=100"`
}

// UpdateRequest merges onto the stored post: absent fields keep their value.
type UpdateRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Image    *string `json:"image" validate:"omitempty,url"`
	Author   *string `json:"author" validate:"omitempty,max=100"`
}

type ListFilter struct {
	Category string
	Page     int64
	Limit    int64
}
