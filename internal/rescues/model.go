package rescues

import "time"

// Rescue is a before/after story: exactly two images, never fewer.
type Rescue struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	Title            string    `bson:"title" json:"title"`
	Description      string    `bson:"description" json:"description"`
	BeforeImage      string    `bson:"beforeImage" json:"beforeImage"`
	BeforePublicID   string    `bson:"beforePublicId" json:"-"`
	AfterImage       string    `bson:"afterImage" json:"afterImage"`
	AfterPublicID    string    `bson:"afterPublicId" json:"-"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

type CreateMeta struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"required,max=2000"`
}

type UpdateMeta struct {
	Title       string `validate:"omitempty,max=200"`
	Description string `validate:"omitempty,max=2000"`
}
