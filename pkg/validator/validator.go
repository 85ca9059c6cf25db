package validator

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/liverylab/catalog/pkg/httpx"
)

// TagOpaqueID accepts the opaque ids used for liveries, owners and cursors:
// 1..128 printable ASCII characters with no whitespace and no comma, so an id
// always survives a comma-delimited list round trip.
const TagOpaqueID = "opaqueid"

const maxOpaqueIDLen = 128

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

		// ignore unexported or explicitly ignored
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := validate.RegisterValidation(TagOpaqueID, validateOpaqueID); err != nil {
		panic(err)
	}
}

func validateOpaqueID(fl validator.FieldLevel) bool {
	return IsOpaqueID(fl.Field().String())
}

// IsOpaqueID reports whether s satisfies TagOpaqueID.
func IsOpaqueID(s string) bool {
	if s == "" || len(s) > maxOpaqueIDLen {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) || unicode.IsSpace(r) || r == ',' {
			return false
		}
	}
	return true
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// Var validates a single value against a validator tag expression, e.g.
// Var("12", "number,min=1").
func Var(value any, tag string) error {
	return validate.Var(value, tag)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// field name → human-readable message. Slice elements are keyed as
// "tags[2]".
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs
	}
	for _, e := range ve {
		errs[fieldKey(e)] = formatFieldError(e)
	}
	return errs
}

// fieldKey strips the top-level struct name from the namespace.
func fieldKey(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case TagOpaqueID:
		return fmt.Sprintf("Must be 1-%d printable characters without spaces or commas", maxOpaqueIDLen)
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at least %s items", e.Param())
		}
		return fmt.Sprintf("Minimum length is %s", e.Param())
	case "max":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at most %s items", e.Param())
		}
		return fmt.Sprintf("Maximum length is %s", e.Param())
	case "printascii":
		return "Must contain only printable ASCII characters"
	case "lowercase":
		return "Must be lowercase"
	case "number", "numeric":
		return "Must be a numeric value"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", e.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", e.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

// ValidateRequest decodes the JSON request body into T, validates it, and
// writes an appropriate error response if either step fails: 413 past the
// body cap, 400 for malformed JSON, 422 for failed validation.
// Returns (parsedStruct, true) on success or (nil, false) on failure.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if err := httpx.DecodeJSON(r, &req); err != nil {
		if httpx.IsBodyTooLarge(err) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	if err := Validate(&req); err != nil {
		httpx.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "Validation failed",
			"fields": FormatValidationErrors(err),
		})
		return nil, false
	}
	return &req, true
}
