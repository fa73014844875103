// Package handlers – validation translator.
//
// This file deterministically maps binding/validation failures onto the error
// taxonomy. Gin's JSON binding is backed by go-playground/validator; the
// translator inspects the raw validator errors and renders the uniform
// envelope under a precedence rule:
//
//  1. Missing-required-field errors win and aggregate into one MISSING_FIELDS
//     response listing every missing field in declared order.
//  2. Otherwise the first invalid-value error is taken. Enum (oneof)
//     violations on fields with a registered code (see enumFieldCodes) get
//     that code; everything else falls back to INVALID_PARAMS.
//  3. A body that cannot be parsed as JSON at all maps to
//     INVALID_REQUEST_BODY.
//
// Field messages are capitalized and period-terminated. Missing fields read
// exactly "Field required."; enum violations enumerate the permitted values
// in declared order, quoted and comma-separated.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// upperCaser capitalizes the first rune of field messages.
var upperCaser = cases.Upper(language.English)

func init() {
	// Report struct fields by their json names so envelope field names match
	// the wire format.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON binds the request body into obj and, on failure, writes the
// translated validation envelope. It reports whether binding succeeded.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		failValidation(c, err)
		return false
	}
	return true
}

// failValidation translates a binding error into the envelope and aborts.
func failValidation(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		status, code, msg, fields := translateFieldErrors(verrs)
		fail(c, status, code, msg, fields...)
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		fail(c, http.StatusBadRequest, CodeInvalidParams, "Validation error.",
			FieldError{
				Name:    typeErr.Field,
				Message: capitalize(fmt.Sprintf("value is not a valid %s.", typeErr.Type.Kind())),
			})
		return
	}

	// Syntax errors, EOF, wrong top-level shape: the body is not usable JSON.
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		fail(c, http.StatusBadRequest, CodeInvalidRequestBody, "Request body is empty or truncated.")
		return
	}
	fail(c, http.StatusBadRequest, CodeInvalidRequestBody, "Request body is not valid JSON.")
}

// translateFieldErrors applies the precedence rule to a set of validator
// errors and produces the envelope ingredients.
func translateFieldErrors(verrs validator.ValidationErrors) (int, ErrorCode, string, []FieldError) {
	var missing []FieldError
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, FieldError{Name: fe.Field(), Message: "Field required."})
		}
	}
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = f.Name
		}
		msg := fmt.Sprintf("Request is missing required fields: [%s].", strings.Join(names, ", "))
		return http.StatusBadRequest, CodeMissingFields, msg, missing
	}

	fe := verrs[0]
	code := CodeInvalidParams
	message := "Invalid value."
	switch fe.Tag() {
	case "oneof":
		if c, ok := enumFieldCodes[fe.Field()]; ok {
			code = c
		}
		permitted := strings.Fields(fe.Param())
		for i, p := range permitted {
			permitted[i] = "'" + p + "'"
		}
		message = fmt.Sprintf("Value is not a valid enumeration member; permitted: %s.",
			strings.Join(permitted, ", "))
	case "uuid", "uuid4":
		message = "Value is not a valid uuid."
	default:
		message = capitalize(fe.Tag() + " constraint failed.")
	}

	fields := []FieldError{{Name: fe.Field(), Message: message}}
	return http.StatusBadRequest, code, "Validation error.", fields
}

// capitalize upper-cases the first rune and guarantees a terminating period.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	_ = r
	s = upperCaser.String(s[:size]) + s[size:]
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}
