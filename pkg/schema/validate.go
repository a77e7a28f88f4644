package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ViolationError describes the first field that breaks a documented
// constraint of a payload.
type ViolationError struct {
	Field string
	Rule  string
	Value any
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("field %s violates %q (got %v)", e.Field, e.Rule, e.Value)
}

// Validate checks a single decoded payload against its struct tags.
func Validate(v any) error {
	return violation(validate.Struct(v), "")
}

// ValidateList checks every element of a decoded array payload.
// The reported field is prefixed with the element index.
func ValidateList[T any](items []T) error {
	for i := range items {
		if err := violation(validate.Struct(items[i]), fmt.Sprintf("[%d].", i)); err != nil {
			return err
		}
	}
	return nil
}

func violation(err error, prefix string) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	// Namespace is "Type.Field.Sub"; drop the root type name.
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	rule := fe.Tag()
	if fe.Param() != "" {
		rule += "=" + fe.Param()
	}
	return &ViolationError{Field: prefix + field, Rule: rule, Value: fe.Value()}
}
