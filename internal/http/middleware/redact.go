// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the redaction rules applied to header values before
// they reach a log record. Sensitive headers (Authorization, Cookie,
// Set-Cookie, plus any configured extras) are fully masked; remaining values
// are scrubbed of obvious PII (emails, phone numbers, UUIDs).
//
// Security note: redaction reduces but does not eliminate the risk of
// sensitive data leaking to logs. Clients should still avoid transmitting
// PII in query strings or headers unless strictly necessary.
package middleware

import (
	"net/http"
	"regexp"
	"strings"
)

// Redaction patterns. UUIDs are redacted before phone numbers so the loose
// phone pattern cannot match the digit/hyphen segments of a UUID.
var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// Redact scrubs obvious PII from a string destined for a log record.
func Redact(s string) string {
	if s == "" {
		return s
	}
	out := uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	out = emailRE.ReplaceAllString(out, "[REDACTED:email]")
	out = phoneRE.ReplaceAllString(out, "[REDACTED:phone]")
	return out
}

// buildMaskSet merges extra header names into the built-in sensitive set.
// Matching is case-insensitive.
func buildMaskSet(extra []string) map[string]struct{} {
	mask := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range extra {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			mask[h] = struct{}{}
		}
	}
	return mask
}

// safeHeaders renders request headers for logging with masking and PII
// scrubbing applied.
func safeHeaders(h http.Header, mask map[string]struct{}) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, ok := mask[strings.ToLower(k)]; ok {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = Redact(strings.Join(vv, ", "))
	}
	return out
}
