package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"dukkan/backend/internal/store"
)

// opError is a client-facing failure. Its message is returned verbatim and
// it matches every sentinel in kinds under errors.Is.
type opError struct {
	message string
	kinds   []error
}

func (e *opError) Error() string   { return e.message }
func (e *opError) Unwrap() []error { return e.kinds }

func invalid(format string, args ...any) error {
	return &opError{message: fmt.Sprintf(format, args...), kinds: []error{store.ErrInvalidInput}}
}

func notFound(format string, args ...any) error {
	return &opError{message: fmt.Sprintf(format, args...), kinds: []error{store.ErrNotFound}}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct reports the first failing field using messages, keyed by
// JSON field name.
func validateStruct(v any, messages map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return invalid("%v", err)
	}
	first := fieldErrs[0]
	if msg, ok := messages[first.Field()]; ok {
		return invalid("%s", msg)
	}
	return invalid("Invalid %s", first.Field())
}
