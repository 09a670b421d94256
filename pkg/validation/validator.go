// Package validation wraps go-playground/validator with JSON field names in its messages.
package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fkhayef/checkin/pkg/response"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// New creates a new validator instance
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON field names for validation error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Error maps field names to human-readable problems
type Error struct {
	Fields map[string]string `json:"fields"`
}

// Error implements the error interface
func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Struct validates s and returns *Error for rule violations
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fieldName(fe)] = message(fe)
	}
	return out
}

func fieldName(fe validator.FieldError) string {
	// Namespace is "Struct.field[0]"; drop the struct name
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "is required when " + fe.Param() + " is absent"
	case "min":
		return fmt.Sprintf("must have at least %s characters or items", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s characters or items", fe.Param())
	case "e164":
		return "must be an E.164 phone number like +15551234567"
	case "uuid", "uuid4":
		return "must be a UUID"
	case "dive":
		return "has an invalid element"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// Check validates s and writes a 422 (or 400) response on failure.
// It reports whether the handler may continue.
func (v *Validator) Check(w http.ResponseWriter, s interface{}) bool {
	err := v.Struct(s)
	if err == nil {
		return true
	}
	var verr *Error
	if errors.As(err, &verr) {
		response.ValidationFailed(w, verr.Fields)
		return false
	}
	response.BadRequest(w, "Invalid request")
	return false
}
