// Package validator checks request payloads against their `validate`
// struct tags and reports each failing field.
package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one failing field in a validated payload.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

func (e FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("field %s failed rule %s=%s", e.Field, e.Rule, e.Param)
	}
	return fmt.Sprintf("field %s failed rule %s", e.Field, e.Rule)
}

var validate = validator.New()

// Struct validates data against its tags. A nil result means the
// payload is acceptable.
func Struct(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var out []FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		out = append(out, FieldError{
			Field: fe.StructNamespace(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}
