package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidateAdaptationRequest checks both inputs against the configured length
// bounds. It runs before any network call; a non-empty result blocks the
// submission entirely.
func ValidateAdaptationRequest(req AdaptationRequest, minChars, maxChars int) FieldErrors {
	var errs FieldErrors
	if msg := checkLength(req.CV, minChars, maxChars); msg != "" {
		errs = append(errs, FieldError{Field: "cv", Message: msg})
	}
	if msg := checkLength(req.JobDescription, minChars, maxChars); msg != "" {
		errs = append(errs, FieldError{Field: "job_description", Message: msg})
	}
	return errs
}

func checkLength(s string, minChars, maxChars int) string {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	switch {
	case n < minChars:
		return fmt.Sprintf("must be at least %d characters (got %d)", minChars, n)
	case n > maxChars:
		return fmt.Sprintf("must be at most %d characters (got %d)", maxChars, n)
	}
	return ""
}
