package testimonials

import "time"

type Testimonial struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Quote      string    `bson:"quote" json:"quote"`
	Name       string    `bson:"name" json:"name"`
	Profession string    `bson:"profession" json:"profession"`
	Rate       float64   `bson:"rate" json:"rate"`
	IsActive   bool      `bson:"isActive" json:"isActive"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

type CreateRequest struct {
	Quote      string  `json:"quote" validate:"required,min=10,max=1000"`
	Name       string  `json:"name" validate:"required,min=2,max=100"`
	Profession string  `json:"profession" validate:"required,min=2,max=150"`
	Rate       float64 `json:"rate" validate:"required,halfstep"`
	IsActive   *bool   `json:"isActive"`
}

type UpdateRequest struct {
	Quote      *string  `json:"quote" validate:"omitempty,min=10,max=1000"`
	Name       *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Profession *string  `json:"profession" validate:"omitempty,min=2,max=150"`
	Rate       *float64 `json:"rate" validate:"omitempty,halfstep"`
	IsActive   *bool    `json:"isActive"`
}

type ListFilter struct {
	Rate      float64
	Search    string
	SortBy    string
	SortOrder int
	Page      int64
	Limit     int64
}

// Stats summarizes the collection for the admin dashboard.
type Stats struct {
	Total      int64   `json:"total"`
	Active     int64   `json:"active"`
	Inactive   int64   `json:"inactive"`
	Recent     int64   `json:"recent"`
	AvgRating  float64 `json:"avgRating"`
	MaxRating  float64 `json:"maxRating"`
	MinRating  float64 `json:"minRating"`
}
