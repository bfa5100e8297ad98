package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error
type Kind string

const (
	KindConfiguration          Kind = "configuration_error"
	KindValidation             Kind = "validation_error"
	KindInvalidTimestamp       Kind = "invalid_timestamp"
	KindTranslationUnavailable Kind = "translation_unavailable"
	KindBuild                  Kind = "build_failed"
	KindDelivery               Kind = "delivery_error"
	KindUnknown                Kind = "unknown"
)

// Error is an application error with a kind and optional details
type Error struct {
	Kind    Kind
	Message string
	Details string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind. The first detail, if any, is kept.
func New(kind Kind, message string, details ...string) *Error {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &Error{
		Kind:    kind,
		Message: message,
		Details: detail,
	}
}

// Wrap creates an error of the given kind around a cause
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of the outermost *Error in the chain,
// or KindUnknown when there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether any *Error in the chain has the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var appErr *Error
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Kind == kind {
			return true
		}
		err = appErr.Err
	}
	return false
}

// DetailsOf returns the details of the outermost *Error in the chain
func DetailsOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return ""
}
