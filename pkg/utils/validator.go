package utils

import "github.com/go-playground/validator/v10"

// RequestValidator подключает validator к echo.Context.Validate.
type RequestValidator struct {
	validate *validator.Validate
}

func NewValidator(v *validator.Validate) *RequestValidator {
	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.validate.Struct(i)
}
