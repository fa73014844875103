// Package apierr owns the API error taxonomy and the uniform error envelope.
//
// The taxonomy is a closed enumeration of error codes, each statically bound
// to exactly one error type and rendered with an HTTP status. Clients are
// expected to branch on these codes for programmatic error handling; the
// code→type mapping is total, so every envelope carries both.
//
// The package is a leaf with no internal dependencies so both the handlers
// and the middleware render failures from one definition, keeping the taxonomy
// strings from drifting between the two layers.
//
// Example response:
//
//	{
//	  "error": {
//	    "code": "MISSING_FIELDS",
//	    "type": "INVALID_REQUEST_PARAMETERS",
//	    "status_code": 400,
//	    "message": "Request is missing required fields: [brand, color].",
//	    "fields": [{"name": "brand", "message": "Field required."}]
//	  }
//	}
package apierr

// ErrorType is the coarse classification carried alongside every error code.
type ErrorType string

const (
	TypeRecordNotFound           ErrorType = "RECORD_NOT_FOUND"
	TypeInvalidRequestParameters ErrorType = "INVALID_REQUEST_PARAMETERS"
	TypeUnauthorizedRequest      ErrorType = "UNAUTHORIZED_REQUEST"
	TypeUnknownError             ErrorType = "UNKNOWN_ERROR"
)

// ErrorCode is the stable, machine-readable error identifier.
type ErrorCode string

const (
	CodeUnknownError            ErrorCode = "UNKNOWN_ERROR"
	CodeEndpointNotFound        ErrorCode = "ENDPOINT_NOT_FOUND"
	CodeMethodNotAllowed        ErrorCode = "METHOD_NOT_ALLOWED"
	CodeItemNotFound            ErrorCode = "ITEM_NOT_FOUND"
	CodeInvalidParams           ErrorCode = "INVALID_PARAMS"
	CodeInvalidRequestBody      ErrorCode = "INVALID_REQUEST_BODY"
	CodeInvalidRequestSignature ErrorCode = "INVALID_REQUEST_SIGNATURE"
	CodeMissingFields           ErrorCode = "MISSING_FIELDS"

	// Field-specific validation codes.
	CodeInvalidColor ErrorCode = "INVALID_COLOR"
)

// MsgUnknown is the generic client-facing message for unexpected failures.
// Internal error detail is logged server-side, never rendered.
const MsgUnknown = "An unknown error occurred. Please try again later."

// codeTypes statically binds each code to its type. The mapping is total;
// Type() falls back to UNKNOWN_ERROR only for codes outside the enumeration.
var codeTypes = map[ErrorCode]ErrorType{
	CodeUnknownError:            TypeUnknownError,
	CodeEndpointNotFound:        TypeRecordNotFound,
	CodeMethodNotAllowed:        TypeInvalidRequestParameters,
	CodeItemNotFound:            TypeRecordNotFound,
	CodeInvalidParams:           TypeInvalidRequestParameters,
	CodeInvalidRequestBody:      TypeInvalidRequestParameters,
	CodeInvalidRequestSignature: TypeUnauthorizedRequest,
	CodeMissingFields:           TypeInvalidRequestParameters,
	CodeInvalidColor:            TypeInvalidRequestParameters,
}

// Type returns the error type statically bound to the code.
func (c ErrorCode) Type() ErrorType {
	if t, ok := codeTypes[c]; ok {
		return t
	}
	return TypeUnknownError
}

// FieldError names one offending request field with a human-readable message.
type FieldError struct {
	Name    string `json:"name" example:"color"`
	Message string `json:"message" example:"Field required."`
}

// APIError is the body of the uniform error envelope.
type APIError struct {
	Code       ErrorCode    `json:"code" example:"ITEM_NOT_FOUND"`
	Type       ErrorType    `json:"type" example:"RECORD_NOT_FOUND"`
	StatusCode int          `json:"status_code" example:"404"`
	Message    string       `json:"message" example:"Item not found."`
	Fields     []FieldError `json:"fields"`
}

// Envelope is the wrapper returned by every failing endpoint.
type Envelope struct {
	Error APIError `json:"error"`
}

// New builds the uniform error envelope for a code, deriving the type from
// the code's static mapping. A nil fields slice is rendered as [].
func New(status int, code ErrorCode, msg string, fields []FieldError) Envelope {
	if fields == nil {
		fields = []FieldError{}
	}
	return Envelope{Error: APIError{
		Code:       code,
		Type:       code.Type(),
		StatusCode: status,
		Message:    msg,
		Fields:     fields,
	}}
}
