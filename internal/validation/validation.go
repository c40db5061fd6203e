// Package validation checks request payloads and path/query parameters and
// reports every violation as a structured list of field errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validatable is implemented by request payloads that know their own constraints.
type Validatable interface {
	Validate() error
}

// FieldError is a single violated constraint.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Errors is the ValidationError result: one entry per violated constraint.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+" "+fe.Error)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field names in reported errors are
// taken from json tags.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates s against its `validate` tags and returns Errors on failure.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, verr := range verrs {
		out = append(out, FieldError{Field: verr.Field(), Error: message(verr)})
	}
	return out
}

func message(verr validator.FieldError) string {
	kind := verr.Kind()
	if kind == reflect.Ptr {
		kind = verr.Type().Elem().Kind()
	}
	switch verr.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		if kind == reflect.String {
			return fmt.Sprintf("must be at least %s characters", verr.Param())
		}
		return fmt.Sprintf("must be at least %s", verr.Param())
	case "max", "lte":
		if kind == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", verr.Param())
		}
		return fmt.Sprintf("must not exceed %s", verr.Param())
	}
	if verr.Param() != "" {
		return fmt.Sprintf("failed %s=%s", verr.Tag(), verr.Param())
	}
	return "failed " + verr.Tag()
}

// IntParam parses a path or query value and checks it lies in [lo, hi].
func IntParam(name, raw string, lo, hi int) (int, error) {
	if raw == "" {
		return 0, Errors{{Field: name, Error: "is required"}}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, Errors{{Field: name, Error: "must be a valid integer"}}
	}
	if n < lo {
		return 0, Errors{{Field: name, Error: fmt.Sprintf("must be at least %d", lo)}}
	}
	if n > hi {
		return 0, Errors{{Field: name, Error: fmt.Sprintf("must not exceed %d", hi)}}
	}
	return n, nil
}
