package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies pipeline failures for the UI and the history store.
type ErrorKind string

const (
	// KindValidation covers input length/shape failures caught before any
	// network call. Recovered locally as field messages.
	KindValidation ErrorKind = "validation"
	// KindModel covers provider/transport failures.
	KindModel ErrorKind = "model"
	// KindSchema covers model output that cannot be parsed into the declared shape.
	KindSchema ErrorKind = "schema"
	// KindPlaceholder means the adapted CV contained a bracketed placeholder token.
	KindPlaceholder ErrorKind = "placeholder"
	// KindWordLimit means the adapted CV exceeded the word budget.
	KindWordLimit ErrorKind = "word_limit"
	// KindMissingSection means a required section header was absent.
	KindMissingSection ErrorKind = "missing_section"
	// KindBusy means a run was rejected because another one is in flight.
	KindBusy ErrorKind = "busy"
)

// Stage names used in PipelineError.
const (
	StageSubmit = "submit"
	StageAdapt  = "adapt"
	StageLetter = "letter"
)

// PipelineError is the error contract between the pipeline and its callers.
// None of these are retried; the caller surfaces the failure and allows
// resubmission.
type PipelineError struct {
	Kind  ErrorKind
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s stage: %s: %v", e.Stage, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s stage: %s", e.Stage, e.Kind)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// KindOf extracts the ErrorKind from err, or KindModel if err is not a
// PipelineError (transport errors reaching the caller raw count as model
// failures).
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindModel
}

// FieldError describes a single rejected form field.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors carries per-field validation messages. It is wrapped inside a
// PipelineError with KindValidation so the server can render them next to
// the form inputs.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("%s: %s", fe[0].Field, fe[0].Message)
}

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
