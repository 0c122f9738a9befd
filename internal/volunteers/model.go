package volunteers

import "time"

type Volunteer struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	FirstName    string    `bson:"firstName" json:"firstName"`
	LastName     string    `bson:"lastName" json:"lastName"`
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone" json:"phone"`
	Address      string    `bson:"address" json:"address"`
	District     string    `bson:"district" json:"district"`
	State        string    `bson:"state" json:"state"`
	Pincode      string    `bson:"pincode" json:"pincode"`
	Availability string    `bson:"availability" json:"availability"`
	Interests    []string  `bson:"interests" json:"interests"`
	Experience   string    `bson:"experience,omitempty" json:"experience,omitempty"`
	Reason       string    `bson:"reason" json:"reason"`
	SubmittedAt  time.Time `bson:"submittedAt" json:"submittedAt"`
}

type ApplyRequest struct {
	FirstName      string   `json:"firstName" validate:"required,max=50"`
	LastName       string   `json:"lastName" validate:"required,max=50"`
	Email          string   `json:"email" validate:"required,email"`
	Phone          string   `json:"phone" validate:"required,numeric,min=10,max=15"`
	Address        string   `json:"address" validate:"required,max=300"`
	District       string   `json:"district" validate:"required,max=100"`
	State          string   `json:"state" validate:"required,max=100"`
	Pincode        string   `json:"pincode" validate:"required,numeric,len=6"`
	Availability   string   `json:"availability" validate:"required,oneof=weekdays weekends both flexible"`
	Interests      []string `json:"interests" validate:"required,min=1,dive,oneof=animal-care fundraising events photography transportation administration other"`
	Experience     string   `json:"experience" validate:"omitempty,max=1000"`
	Reason         string   `json:"reason" validate:"required,max=1000"`
	RecaptchaToken string   `json:"recaptchaToken"`
}
