package lib

import "github.com/go-playground/validator/v10"

// CustomValidator plugs go-playground/validator into echo's Context.Validate.
type CustomValidator struct {
	Validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.Validator.Struct(i)
}
