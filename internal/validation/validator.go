// Package validation provides HTTP request validation utilities using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/linkstash/linkstash-server/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove options like omitempty, -
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain error carrying a
// field→messages map, or nil if the struct is valid.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to a domain validation error.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Collect all messages per field. A field can fail several rules.
	fields := make(domainerrors.Fields)
	for _, e := range validationErrs {
		fields[e.Field()] = append(fields[e.Field()], v.friendlyMessage(e))
	}

	return domainerrors.ValidationWithFields("validation failed", fields)
}

func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("is too short (minimum %s characters)", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	case "dive":
		return "contains an invalid entry"
	default:
		return "is invalid"
	}
}
