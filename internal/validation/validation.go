// Package validation checks decoded request payloads against their struct
// tags and reports failures as a ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is matched (errors.Is) by every validation failure.
var ErrInvalid = errors.New("validation failed")

// FieldError describes one rejected field using its JSON name.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// Error is the ValidationError returned to callers.
type Error struct {
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return e.Message + ": " + strings.Join(parts, ", ")
}

// Is lets errors.Is(err, ErrInvalid) match any *Error.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// New builds a ValidationError with a plain message.
func New(message string) error {
	return &Error{Message: message}
}

var (
	once     sync.Once
	instance *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(sf reflect.StructField) string {
			name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return sf.Name
			}
			return name
		})
	})
	return instance
}

// Struct validates v and returns a *Error carrying message when any rule fails.
func Struct(v any, message string) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Message: fmt.Sprintf("%s: %v", message, err)}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   jsonPath(fe),
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: ruleMessage(fe.Tag(), fe.Param()),
		})
	}
	return &Error{Message: message, Fields: fields}
}

// jsonPath drops the root struct name from the namespace, e.g.
// "createRequest.items[0].quantity" becomes "items[0].quantity".
func jsonPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func ruleMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "max":
		return "must be at most " + param
	case "numeric":
		return "must contain only digits"
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
