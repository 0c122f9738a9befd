package models

import "time"

const (
	CategoryPhoto  = "photo"
	CategoryVideo  = "video"
	CategoryBlogs  = "blogs"
	CategoryAward  = "award"
	CategoryRescue = "rescue"
)

// CategoryTypes lists every valid category type tag.
var CategoryTypes = []string{CategoryPhoto, CategoryVideo, CategoryBlogs, CategoryAward, CategoryRescue}

func ValidCategoryType(t string) bool {
	for _, v := range CategoryTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Admin struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
