// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints: the uniform error envelope, consistent JSON serialization, and
// helpers for common HTTP patterns. The goal is to guarantee identical
// response shapes for both success and failure cases, making the API
// predictable and machine-friendly.
//
// Conventions:
//   - All error responses return an Envelope wrapping an APIError with a
//     stable code, its statically mapped type, the HTTP status, a
//     human-readable message, and a (possibly empty) fields list.
//   - fail() centralizes error formatting; 5xx responses are logged with
//     request context, and internal error detail never reaches the client.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-users-api/internal/http/apierr"
	"github.com/tbourn/go-users-api/internal/http/middleware"
)

// FieldError names one offending request field with a human-readable message.
type FieldError = apierr.FieldError

// APIError is the body of the uniform error envelope.
type APIError = apierr.APIError

// Envelope is the wrapper returned by every failing endpoint.
type Envelope = apierr.Envelope

// NewEnvelope builds the uniform error envelope for a code, deriving the
// type from the code's static mapping. A nil fields slice is rendered as [].
func NewEnvelope(status int, code ErrorCode, msg string, fields []FieldError) Envelope {
	return apierr.New(status, code, msg, fields)
}

// fail aborts the request with the uniform error envelope.
//
// Server errors (>=500) are logged with the request-scoped logger; the
// message written to the client for 5xx must already be generic.
func fail(c *gin.Context, status int, code ErrorCode, msg string, fields ...FieldError) {
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", string(code)).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, NewEnvelope(status, code, msg, fields))
}

// Fail is the exported variant of fail().
//
// External packages (e.g., router setup) call Fail to return consistent
// envelopes without depending on unexported helpers.
func Fail(c *gin.Context, status int, code ErrorCode, msg string, fields ...FieldError) {
	fail(c, status, code, msg, fields...)
}

// failUnknown logs the original error server-side and renders the generic
// UNKNOWN_ERROR envelope. Internal exception text never leaks to the client.
func failUnknown(c *gin.Context, err error) {
	lg := middleware.LoggerFrom(c)
	lg.Error().Err(err).Msg("unhandled error")
	fail(c, http.StatusInternalServerError, CodeUnknownError, apierr.MsgUnknown)
}

// ok writes a success JSON response with the given status code.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
