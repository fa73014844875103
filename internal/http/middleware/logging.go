// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the request correlation ID injector, the structured
// request/response logger, and a panic-safe recovery handler:
//
//   - RequestID() stamps every request with a freshly generated UUIDv4,
//     exposed on the X-Request-ID response header and the Gin context. The
//     identifier is never derived from client-supplied input.
//   - RequestLogger() emits exactly one structured log entry per non-health-
//     check exchange: method, path, status, latency, the captured request
//     body (raw and parsed), the trimmed response body, a query-parameter
//     blob, and any tracking identifiers placed in the request context.
//   - Recovery() converts panics into the uniform UNKNOWN_ERROR envelope
//     while preserving the correlation ID and emitting a stack trace to logs.
//   - LoggerFrom() retrieves the request-scoped logger to enrich logs within
//     handlers and services.
//
// Body capture is resilient: a body that cannot be read or parsed as JSON is
// still logged raw, with the parsed-body field rendered as an explicit null;
// malformed encodings never fail the request.
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-users-api/internal/http/apierr"
)

const (
	// requestIDKey is the Gin context key under which the request ID is stored.
	requestIDKey = "requestID"
	// trackingIDsKey is the Gin context key for request-scoped tracking ids.
	trackingIDsKey = "trackingIDs"
	// RequestIDHeader is the HTTP header carrying the correlation ID.
	RequestIDHeader = "X-Request-ID"
	// TruncationMarker replaces dropped response-body content in log records.
	TruncationMarker = "<TRUNCATED>"
	// DefaultMaxResponseBody is the response-body log budget applied when no
	// explicit budget is configured.
	DefaultMaxResponseBody = 16 << 10
)

// RequestID attaches a fresh correlation identifier to every request.
//
// A new UUIDv4 is generated per request; incoming X-Request-ID headers are
// deliberately ignored so the identifier can never be spoofed or reused.
// The ID is written to the response header and the Gin context before any
// downstream middleware runs, so even NoRoute/NoMethod and panic responses
// carry it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := uuid.NewString()
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(RequestIDHeader, rid)
		c.Next()
	}
}

// RequestIDFrom returns the correlation identifier stamped on the request.
func RequestIDFrom(c *gin.Context) string {
	rid, _ := c.Get(requestIDKey)
	return asString(rid)
}

// SetTrackingIDs stores request-scoped tracking identifiers that the request
// logger will attach to the exchange's log record.
func SetTrackingIDs(c *gin.Context, ids map[string]string) {
	c.Set(trackingIDsKey, ids)
}

// LogOptions configures the request/response logger.
type LogOptions struct {
	// MaxRequestBody caps the raw request body bytes kept per record.
	// A value <= 0 disables the cap.
	MaxRequestBody int
	// MaxResponseBody is the serialized response-body budget per record.
	// A value <= 0 selects DefaultMaxResponseBody.
	MaxResponseBody int
	// Skip decides whether an exchange is excluded from logging. When nil,
	// SkipHealthCheck is used. Injectable for testing.
	Skip func(*gin.Context) bool
	// MaskHeaders lists additional header names to fully mask in log records.
	MaskHeaders []string
}

// SkipHealthCheck reports whether the request is a liveness probe
// (GET / or GET /health). Probe exchanges are excluded from request logging
// to avoid log-volume noise.
func SkipHealthCheck(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet {
		return false
	}
	p := c.Request.URL.Path
	return p == "/" || p == "/health"
}

// bodyRecorder duplicates response writes into a buffer so the logger can
// capture the body without interfering with the client response.
type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// RequestLogger writes one structured log record per request/response pair.
//
// Place this after RequestID() so records include the correlation ID. The
// log level follows the outcome: error for 5xx, warn for 4xx, info otherwise.
func RequestLogger(opts LogOptions) gin.HandlerFunc {
	skip := opts.Skip
	if skip == nil {
		skip = SkipHealthCheck
	}
	budget := opts.MaxResponseBody
	if budget <= 0 {
		budget = DefaultMaxResponseBody
	}
	maskSet := buildMaskSet(opts.MaskHeaders)

	return func(c *gin.Context) {
		if skip(c) {
			c.Next()
			return
		}

		start := time.Now()

		// Capture the request body and restore it for the handler chain.
		raw := readBody(c)
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err != nil {
			parsed = nil
		}
		rawStr := string(raw)
		if opts.MaxRequestBody > 0 && len(rawStr) > opts.MaxRequestBody {
			rawStr = rawStr[:opts.MaxRequestBody] + TruncationMarker
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			// Route not matched (404/405).
			path = c.Request.URL.Path
		}

		var respBody any
		if err := json.Unmarshal(rec.buf.Bytes(), &respBody); err != nil {
			respBody = nil
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}

		ev = ev.
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Str("request_body_raw", rawStr).
			Interface("request_body", parsed).
			Interface("response_body", TrimResponseBody(respBody, budget)).
			Interface("request_query_params_blob", QueryParamsBlob(c.Request.URL.Query())).
			Interface("headers", safeHeaders(c.Request.Header, maskSet))

		if ids, ok := c.Get(trackingIDsKey); ok {
			ev = ev.Interface("tracking_ids", ids)
		}
		ev.Msg("request")
	}
}

// readBody drains the request body and restores it. When the read is cut
// short (for instance by an upstream MaxBytesReader cap) the bytes read so
// far are kept, so the record still carries the body prefix.
func readBody(c *gin.Context) []byte {
	if c.Request.Body == nil {
		return nil
	}
	raw, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	return raw
}

// TrimResponseBody bounds a parsed response body for logging.
//
// The policy is uniform across body shapes: list values are serialized
// element by element and cut with a single TruncationMarker once the running
// size would exceed the budget (a budget of 0 yields exactly one marker,
// never an empty list); non-list values whose serialized size exceeds the
// budget are replaced by the marker. Object bodies are trimmed per top-level
// field so one oversized field cannot erase its siblings from the record.
func TrimResponseBody(body any, budget int) any {
	if m, ok := body.(map[string]any); ok {
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = trimValue(v, budget)
		}
		return out
	}
	return trimValue(body, budget)
}

func trimValue(v any, budget int) any {
	if list, ok := v.([]any); ok {
		size := 0
		out := make([]any, 0, len(list))
		for _, el := range list {
			b, err := json.Marshal(el)
			if err != nil {
				b = []byte(`"?"`)
			}
			if size+len(b) > budget {
				out = append(out, TruncationMarker)
				return out
			}
			size += len(b)
			out = append(out, el)
		}
		return out
	}
	if b, err := json.Marshal(v); err == nil && len(b) > budget {
		return TruncationMarker
	}
	return v
}

// QueryParamsBlob collapses query parameters into one value per key.
// Repeated keys are joined with ", " in lexical order; single-valued keys
// pass through unchanged.
func QueryParamsBlob(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, vv := range values {
		if len(vv) <= 1 {
			out[k] = strings.Join(vv, "")
			continue
		}
		sorted := make([]string, len(vv))
		copy(sorted, vv)
		sort.Strings(sorted)
		out[k] = strings.Join(sorted, ", ")
	}
	return out
}

// Recovery intercepts panics, logs a stack trace, and returns the uniform
// UNKNOWN_ERROR envelope with the correlation header preserved.
//
// Place this after RequestLogger() so the panic is captured with structured
// context and the exchange still produces a log record.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("request_id", RequestIDFrom(c)).
					Msg("panic recovered")

				if !c.Writer.Written() {
					c.Header("Content-Type", "application/json")
					c.Header(RequestIDHeader, RequestIDFrom(c))
					c.AbortWithStatusJSON(http.StatusInternalServerError, apierr.New(
						http.StatusInternalServerError, apierr.CodeUnknownError,
						apierr.MsgUnknown, nil))
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped zerolog.Logger.
//
// The logger is seeded with the request ID when available. Callers can use
// the result without nil checks.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	l := log.With().Str("request_id", RequestIDFrom(c)).Logger()
	return &l
}

// asString converts an arbitrary interface to a string, returning an empty
// string when the value is not a string. Used for context values.
func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
