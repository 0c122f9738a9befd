package impact

import "time"

// Impact is one published set of headline numbers for the landing page.
type Impact struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	DogsRescued int64     `bson:"dogsRescued" json:"dogsRescued"`
	DogsAdopted int64     `bson:"dogsAdopted" json:"dogsAdopted"`
	Volunteers  int64     `bson:"volunteers" json:"volunteers"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

type UpsertRequest struct {
	DogsRescued int64 `json:"dogsRescued" validate:"min=0"`
	DogsAdopted int64 `json:"dogsAdopted" validate:"min=0"`
	Volunteers  int64 `json:"volunteers" validate:"min=0"`
}
