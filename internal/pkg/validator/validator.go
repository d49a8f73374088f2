// Package validator wraps go-playground/validator behind a single call that
// handlers use after binding.
package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the struct's validate tags and returns a field-to-tag map,
// or nil when everything passes. The map feeds the error envelope's details.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
