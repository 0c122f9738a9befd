package validation

import (
	"math"
	"regexp"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	durationRegex := regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?$`)
	v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return durationRegex.MatchString(value)
	})

	objectIDRegex := regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return objectIDRegex.MatchString(value)
	})

	// Ratings are whole or half numbers between 1 and 5.
	v.RegisterValidation("halfstep", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(float64)
		if !ok {
			return false
		}
		if value < 1 || value > 5 {
			return false
		}
		return math.Mod(value*2, 1) == 0
	})

	return &Validator{v: v}
}

func (v *Validator) Struct(s interface{}) error {
	return v.v.Struct(s)
}

func (v *Validator) ValidationErrors(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok {
		return ve
	}
	return nil
}
