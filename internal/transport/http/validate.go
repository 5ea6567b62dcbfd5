package http

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json names so details line up with what the
	// client actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		var upper, lower, digit, special bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsDigit(r):
				digit = true
			default:
				special = true
			}
		}
		return upper && lower && digit && special
	})

	return v
}

// decodeAndValidate unmarshals the body into dst and runs struct validation,
// writing a field-by-field 400 on failure. Returns false when the request has
// already been answered.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed json body"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		details := map[string]string{}
		if ok := asValidationErrors(err, &verrs); ok {
			for _, fe := range verrs {
				details[fe.Field()] = messageFor(fe)
			}
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation error", Details: details})
		return false
	}
	return true
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		*target = verrs
		return true
	}
	return false
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters long"
	case "max":
		return "must be at most " + fe.Param() + " characters long"
	case "alphanum":
		return "must be alphanumeric"
	case "alpha":
		return "must contain only letters"
	case "numeric":
		return "must contain only digits"
	case "uuid4":
		return "must be a valid uuid"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "password":
		return "must contain at least one uppercase letter, one lowercase letter, one number, and one special character"
	default:
		return "invalid value"
	}
}
