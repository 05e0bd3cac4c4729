// Package validation turns struct-tag validation failures into field-level
// error messages keyed by the field's JSON name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a field name to its error message. An empty map means valid.
type FieldErrors map[string]string

func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

var (
	// local@domain.tld, nothing stricter
	basicEmailRE = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	// MM/YY with month 01-12
	expiryRE = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("basic_email", matches(basicEmailRE))
	_ = v.RegisterValidation("expiry", matches(expiryRE))

	return &Validator{validate: v}
}

// Struct validates s and returns one message per failing field, for the first rule it fails.
func (v *Validator) Struct(s any) FieldErrors {
	errs := FieldErrors{}

	err := v.validate.Struct(s)
	if err == nil {
		return errs
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range validationErrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = message(fe)
	}

	return errs
}

func message(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email", "basic_email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "expiry":
		return fmt.Sprintf("%s must be in MM/YY format with a month between 01 and 12", field)
	case "number", "numeric":
		return fmt.Sprintf("%s must contain only digits", field)
	case "len":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be exactly %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}
