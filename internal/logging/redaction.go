package logging

import (
	"net/http"
	"regexp"
	"strings"
)

const redacted = "***REDACTED***"

var (
	// BearerPattern matches bearer tokens in header values or free text.
	BearerPattern = regexp.MustCompile(`(?i)(Bearer\s+)([A-Za-z0-9\-_.~+/]+=*)`)

	// TokenParamPattern matches access tokens passed as query or form parameters.
	TokenParamPattern = regexp.MustCompile(`(?i)((?:access_token|id_token|token)=)([^&\s"']+)`)
)

// RedactString masks bearer tokens and token parameters in s.
func RedactString(s string) string {
	if s == "" {
		return s
	}
	s = BearerPattern.ReplaceAllString(s, "${1}"+redacted)
	return TokenParamPattern.ReplaceAllString(s, "${1}"+redacted)
}

// RedactHeaders returns a copy of h that is safe to log. Authorization and
// cookie headers are masked.
func RedactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		switch strings.ToLower(k) {
		case "authorization", "cookie", "set-cookie", "x-api-key":
			out[k] = redacted
		default:
			out[k] = RedactString(strings.Join(v, ", "))
		}
	}
	return out
}
