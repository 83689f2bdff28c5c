package apperr

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Messages maps a failing validator tag ("required", "email", "max", ...) to
// the banner text shown for it. The "required" entry doubles as the fallback.
type Messages map[string]string

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared struct validator. Field names reported in
// errors come from the `form` tag so they match the HTML input names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// CheckStruct validates v against its struct tags.
// A missing value outranks a malformed one when choosing the message.
// PRE: v is a struct or pointer to struct
// POST: returns nil, or a *ValidationError naming every offending form field
func CheckStruct(v any, msgs Messages) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make([]string, 0, len(fieldErrs))
	message := ""
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
		if message == "" && (fe.Tag() == "required" || fe.Tag() == "gt") {
			message = msgs["required"]
		}
	}
	if message == "" {
		for _, fe := range fieldErrs {
			if m, ok := msgs[fe.Tag()]; ok {
				message = m
				break
			}
		}
	}
	if message == "" {
		message = msgs["required"]
	}
	return Invalid(message, fields...)
}
