package handler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator builds the DTO validator. Field names in error maps use
// the wire (json) names, not the Go names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldErrors runs struct validation and converts the result into a
// field-name to messages map suitable for a 422 body. An empty map
// means the DTO is valid.
func fieldErrors(v *validator.Validate, dto any) map[string][]string {
	errs := make(map[string][]string)

	err := v.Struct(dto)
	if err == nil {
		return errs
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs[""] = append(errs[""], err.Error())
		return errs
	}

	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errs[field] = append(errs[field], fmt.Sprintf("%s must not be null", field))
		case "alphanum":
			errs[field] = append(errs[field], fmt.Sprintf("%s must contain only letters or digits", field))
		default:
			errs[field] = append(errs[field], fmt.Sprintf("%s is invalid", field))
		}
	}

	return errs
}
