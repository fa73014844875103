// Package handlers re-exports the API error taxonomy from apierr so handler
// code and its callers keep short names; the definitions live in the leaf
// package, shared with the middleware.
package handlers

import "github.com/tbourn/go-users-api/internal/http/apierr"

// ErrorType is the coarse classification carried alongside every error code.
type ErrorType = apierr.ErrorType

// ErrorCode is the stable, machine-readable error identifier.
type ErrorCode = apierr.ErrorCode

const (
	TypeRecordNotFound           = apierr.TypeRecordNotFound
	TypeInvalidRequestParameters = apierr.TypeInvalidRequestParameters
	TypeUnauthorizedRequest      = apierr.TypeUnauthorizedRequest
	TypeUnknownError             = apierr.TypeUnknownError

	CodeUnknownError            = apierr.CodeUnknownError
	CodeEndpointNotFound        = apierr.CodeEndpointNotFound
	CodeMethodNotAllowed        = apierr.CodeMethodNotAllowed
	CodeItemNotFound            = apierr.CodeItemNotFound
	CodeInvalidParams           = apierr.CodeInvalidParams
	CodeInvalidRequestBody      = apierr.CodeInvalidRequestBody
	CodeInvalidRequestSignature = apierr.CodeInvalidRequestSignature
	CodeMissingFields           = apierr.CodeMissingFields
	CodeInvalidColor            = apierr.CodeInvalidColor
)

// enumFieldCodes maps request field names to their dedicated enum-violation
// codes. Fields without an entry fall back to INVALID_PARAMS.
var enumFieldCodes = map[string]ErrorCode{
	"color": CodeInvalidColor,
}
