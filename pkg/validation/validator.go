package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/go-account-service/pkg/helpers"
)

// Init configures the global validator used by Gin's binding.
// - Uses json (then form) tag names in errors.
// - Registers alias tags for common validations.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Configure(v)
	}
}

// Configure applies tag naming and aliases to v.
func Configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	// min/max count runes; bcrypt's limit is in bytes.
	if err := v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= helpers.MaxPasswordBytes
	}); err != nil {
		panic(err)
	}
	v.RegisterAlias("pwd", "min=1,bcryptlen")
	v.RegisterAlias("uname", "min=3,max=32,excludesall= /\\")
}

// FieldError is a structured validation failure surfaced in the error envelope.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ToDetails converts validation/binding errors into entries for the envelope's errors array.
func ToDetails(err error) []any {
	if err == nil {
		return []any{}
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return []any{FieldError{Field: "payload", Tag: "json", Message: "invalid json"}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]any, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: formatFieldError(fe)})
		}
		return out
	}

	return []any{FieldError{Field: "payload", Message: "invalid payload"}}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "is required when " + param + " is not present"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "excludesall":
		return "must not contain any of '" + param + "'"
	case "pwd", "bcryptlen":
		return "must be 1 to 72 bytes long"
	case "uname":
		return "must be 3-32 characters without spaces or slashes"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", fe.Tag(), param)
		}
		return fmt.Sprintf("validation failed for '%s'", fe.Tag())
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
