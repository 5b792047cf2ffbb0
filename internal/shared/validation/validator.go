package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Path     string
	Problems map[string]string
}

func NewValidationError(problems map[string]string, path ...string) *ValidationError {
	return &ValidationError{strings.Join(path, "."), problems}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Problems))
	for field := range e.Problems {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	fmt.Fprintf(&b, "validation errors found in '%s':\n", e.Path)
	for _, field := range fields {
		fmt.Fprintf(&b, "  %s: %s\n", field, e.Problems[field])
	}
	return b.String()
}

func (e *ValidationError) Is(other error) bool {
	_, ok := other.(*ValidationError)
	return ok
}

// MissingFieldError reports a required key absent from a document.
type MissingFieldError struct {
	Path  string
	Field string
}

func NewMissingFieldError(field string, path ...string) *MissingFieldError {
	return &MissingFieldError{strings.Join(path, "."), field}
}

func (e *MissingFieldError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("required key '%s' is missing", e.Field)
	}
	return fmt.Sprintf("required key '%s' is missing in '%s'", e.Field, e.Path)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report problems under the JSON name the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// RegisterRule adds a string validation tag usable in `validate` struct tags.
func RegisterRule(tag string, rule func(string) bool) error {
	return validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return rule(fl.Field().String())
	})
}

// Struct validates s against its `validate` tags. Field problems are
// returned as a *ValidationError keyed by JSON field name.
func Struct(s any, path ...string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems[fe.Field()] = describe(fe)
	}
	return NewValidationError(problems, path...)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "len":
		return fmt.Sprintf("must be %s characters long", fe.Param())
	default:
		return fmt.Sprintf("failed '%s' check", fe.Tag())
	}
}
