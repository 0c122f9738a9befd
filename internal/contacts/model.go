package contacts

import "time"

type Contact struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Subject   string    `bson:"subject" json:"subject"`
	Message   string    `bson:"message" json:"message"`
	IsRead    bool      `bson:"isRead" json:"isRead"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type SendRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Subject        string `json:"subject" validate:"required,max=200"`
	Message        string `json:"message" validate:"required,max=2000"`
	RecaptchaToken string `json:"recaptchaToken"`
}

type ListFilter struct {
	// Read filters on isRead when set.
	Read  *bool
	Page  int64
	Limit int64
}
