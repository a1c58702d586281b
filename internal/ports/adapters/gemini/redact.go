package gemini

import (
	"regexp"
	"strings"
)

const maxErrLen = 400

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)((?:x-goog-)?api[_-]?key\s*[:=]\s*)([^\n\r,;&"]+)`)
	keyParamRE    = regexp.MustCompile(`([?&]key=)([^&\s"]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = keyParamRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}

// scrubbedError keeps the wrapped chain intact while hiding credentials from
// the message.
type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }
func (e *scrubbedError) Unwrap() error { return e.err }

func scrub(err error, apiKey string) error {
	if err == nil {
		return nil
	}
	return &scrubbedError{msg: truncate(redactSecrets(err.Error(), apiKey), maxErrLen), err: err}
}
