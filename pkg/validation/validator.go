package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Password policy shared by binding tags and service-layer patch checks.
var (
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters long")
	ErrPasswordForbidden = errors.New("password cannot contain \"password\"")
)

// CheckPassword applies the account password policy to a plain password.
func CheckPassword(plain string) error {
	if len(plain) < 6 {
		return ErrPasswordTooShort
	}
	if strings.Contains(plain, "password") {
		return ErrPasswordForbidden
	}
	return nil
}

// standalone validator for values arriving outside gin binding (patch maps)
var std = validator.New()

// CheckEmail reports whether the value matches the email-address grammar.
func CheckEmail(email string) bool {
	return std.Var(email, "required,email") == nil
}

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the custom pwd rule for the account password policy.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("pwd", func(fl validator.FieldLevel) bool {
			return CheckPassword(fl.Field().String()) == nil
		})
	}
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	// Validation errors from validator.v10
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "pwd":
		return "must be at least 6 characters and must not contain \"password\""
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + param + " characters long"
		}
		return "must be at least " + param
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + param + " characters long"
		}
		return "must be at most " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(param, " ", ", ")
	case "uuid":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	case "numeric":
		return "must be a number"
	case "boolean":
		return "must be true or false"
	case "alphanum":
		return "must contain alphanumeric characters only"
	default:
		if param != "" {
			return "failed validation: " + tag + "=" + param
		}
		return "failed validation: " + tag
	}
}
