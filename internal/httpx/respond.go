// Package httpx carries the small set of response helpers shared by
// the impersonation and test-control surfaces, following the teacher's
// internal/httpapi writeJSON/writeError pattern.
package httpx

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// WriteJSON writes v as the JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode json response")
	}
}

// Message writes {"message": msg} — the shape used for unauthorized,
// not-found, and bad-request errors throughout the Discord-shaped
// surface (spec.md §7).
func Message(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, map[string]string{"message": msg})
}

// Err writes {"error": msg} — the shape used by the OAuth and
// test-control error tables.
func Err(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, map[string]string{"error": msg})
}

// ErrDesc writes {"error": msg, "error_description": desc}, used for
// the OAuth redirect-uri-mismatch case.
func ErrDesc(w http.ResponseWriter, code int, msg, desc string) {
	WriteJSON(w, code, map[string]string{"error": msg, "error_description": desc})
}

// IsJSONContentType reports whether a Content-Type header value names
// application/json, optionally followed by a ";"-separated suffix
// such as ";charset=utf-8".
func IsJSONContentType(contentType string) bool {
	base := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	return strings.EqualFold(base, "application/json")
}

// IsFormContentType reports whether a Content-Type header value names
// application/x-www-form-urlencoded, with the same ";"-suffix
// tolerance as IsJSONContentType.
func IsFormContentType(contentType string) bool {
	base := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	return strings.EqualFold(base, "application/x-www-form-urlencoded")
}

// DecodeJSONBody requires a JSON content type and decodes body into v.
// It reports whether decoding succeeded; on failure the caller should
// respond 400 "Invalid request body" per spec.md §4.3.
func DecodeJSONBody(r *http.Request, v any) bool {
	if !IsJSONContentType(r.Header.Get("Content-Type")) {
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return false
	}
	return true
}
