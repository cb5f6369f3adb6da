package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// moneyRe accepts a decimal with at most 10 digits total and 2 fraction digits,
// matching the numeric(10,2) column type.
var moneyRe = regexp.MustCompile(`^\d{1,8}(\.\d{1,2})?$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		return moneyRe.MatchString(fl.Field().String())
	})
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}
