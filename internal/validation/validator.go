// Package validation holds the process-wide go-playground validator.
//
// Field names in errors are the JSON names of the struct fields, and
// domain.Coordinate and domain.DateTime values validate as their submitted
// text so that `required` rejects absent, null and empty values alike.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"sighting-intake-service/internal/domain"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single failed rule.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// Error collects every failed rule of one ValidateStruct call.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether any failure used the given tag.
func (e *Error) Has(tag string) bool {
	for _, f := range e.Fields {
		if f.Tag == tag {
			return true
		}
	}
	return false
}

// GetValidator returns the shared validator, building it on first use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			c, ok := v.Interface().(domain.Coordinate)
			if !ok {
				return nil
			}
			return c.Text()
		}, domain.Coordinate{})

		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			d, ok := v.Interface().(domain.DateTime)
			if !ok {
				return nil
			}
			return d.Text()
		}, domain.DateTime{})
	})

	return validate
}

// ValidateStruct validates s and returns nil or an *Error.
func ValidateStruct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Error{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			Field:   fe.Namespace(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translate(fe),
		}
	}
	return &Error{Fields: out}
}

var messageTemplates = map[string]string{
	"required": "%s is required",
	"url":      "%s must be a valid URL",
}

var paramTemplates = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
}

func translate(fe validator.FieldError) string {
	field := fe.Field()
	if t, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(t, field)
	}
	if t, ok := paramTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(t, field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
