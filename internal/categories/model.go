package categories

import "time"

type Category struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Type      string    `bson:"type" json:"type"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Ref is the populated category embedded in entity responses.
type Ref struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
	Type string `bson:"type" json:"type"`
}

func (c Category) Ref() Ref {
	return Ref{ID: c.ID, Name: c.Name, Type: c.Type}
}

type CreateRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Type string `json:"type" validate:"required,oneof=photo video blogs award rescue"`
}

type UpdateRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}
