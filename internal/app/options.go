package app

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/gcprivacy/internal/garmin"
)

// Options are the fully resolved inputs for one run, after flags, config
// file, environment, and interactive prompts have been merged.
// All fields are validated using go-playground/validator tags before any
// request is issued.
type Options struct {
	Username  string `validate:"required"`
	Password  string `validate:"required"`
	StartDate string `validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `validate:"omitempty,datetime=2006-01-02"`
	Privacy   string `validate:"required"`
	Limit     int    `validate:"gt=0"`
}

// Validate checks the options using go-playground/validator plus the
// privacy level parser. Date strings must be real calendar dates; ordering
// between start and end is not checked because the service defines the
// behavior of an inverted range.
func (o *Options) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	if _, err := garmin.ParsePrivacyLevel(o.Privacy); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}
