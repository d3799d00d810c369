package validator

import (
	"time"

	models "github.com/dairyflats/aerobook/internal"
	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("airport_code", validateAirportCode)
	v.RegisterValidation("future_or_today", validateFutureOrToday)

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// Bookings are for today or later; dates in the past name flights that
// already departed.
func validateFutureOrToday(fl validator.FieldLevel) bool {
	date, err := time.Parse(models.DateFormat, fl.Field().String())
	if err != nil {
		return false
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return !date.Before(today)
}

// Airport codes are case-sensitive 4-character identifiers (ICAO style).
func validateAirportCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 4 {
		return false
	}
	for _, r := range code {
		alpha := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
		digit := r >= '0' && r <= '9'
		if !alpha && !digit {
			return false
		}
	}
	return true
}
