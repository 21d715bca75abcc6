package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterValidation("image_source", validateImageSource, true)
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

type Validator struct{}

func (v *Validator) ValidateStruct(payload interface{}) *[]error {
	return validateStruct(payload)
}

func (v *Validator) ValidateValue(value any, rules string) error {
	return validateField(value, rules)
}

var ValidatorInstance = Validator{}

func validateStruct(payload interface{}) *[]error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &[]error{err}
	}
	errs := []error{}
	for _, fieldErr := range validationErrs {
		errs = append(errs, errors.New(describe(fieldErr)))
	}
	return &errs
}

func validateField(value any, rules string) error {
	err := validate.Var(value, rules)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		return errors.New(describe(validationErrs[0]))
	}
	return err
}

func describe(fieldErr validator.FieldError) string {
	field := fieldErr.Field()
	if field == "" {
		field = "value"
	}
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "image_source":
		return "provide exactly one of imageUrl or imageBase64"
	case "http_url":
		return fmt.Sprintf("%s must be an http or https url", field)
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fieldErr.Param())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, fieldErr.Tag())
	}
}
