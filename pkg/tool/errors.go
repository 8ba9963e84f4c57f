package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind classifies a tool-call failure. Local kinds never reach the network;
// vendor kinds wrap a semantic rejection from the wrapped API.
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindMissingCredential  Kind = "missing_credential"
	KindUnknownTool        Kind = "unknown_tool"
	KindVendorAuth         Kind = "vendor_authentication"
	KindVendorPermission   Kind = "vendor_permission"
	KindVendorNotFound     Kind = "vendor_not_found"
	KindVendorRateLimit    Kind = "vendor_rate_limited"
	KindVendorConflict     Kind = "vendor_conflict"
	KindVendorGeneric      Kind = "vendor_error"
	KindResponseValidation Kind = "response_validation"
	KindInternal           Kind = "internal_error"
)

// Error is the uniform failure value flowing through dispatch. It carries the
// taxonomy kind, a human-readable message, optional actionable suggestions,
// and, for vendor failures, the vendor's raw error payload for diagnostics.
type Error struct {
	Kind        Kind
	Message     string
	Suggestions []string
	// VendorDetail holds the vendor's raw error body, if any. Diagnostics
	// only; it is surfaced in the envelope but never interpreted.
	VendorDetail json.RawMessage
	// ResetAt is set for rate-limit failures when the vendor supplies a
	// reset time.
	ResetAt time.Time

	wrapped error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.wrapped }

// WithSuggestions attaches actionable next steps and returns the error.
func (e *Error) WithSuggestions(suggestions ...string) *Error {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Errorf builds a taxonomy error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	err := &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
	for _, a := range args {
		if wrapped, ok := a.(error); ok {
			err.wrapped = wrapped
		}
	}
	return err
}

// Wrap classifies an arbitrary error under the given kind, preserving the
// original for errors.Is/As chains. An existing *Error passes through
// unchanged so classification done close to the source is never overwritten.
func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return &Error{Kind: kind, Message: err.Error(), wrapped: err}
}

// AsError coerces any error into a taxonomy error, defaulting to
// KindInternal for unclassified failures.
func AsError(err error) *Error {
	return Wrap(KindInternal, err)
}

// defaultSuggestions supplies actionable next steps for the recoverable
// kinds when the error producer attached none.
func defaultSuggestions(kind Kind) []string {
	switch kind {
	case KindMissingCredential:
		return []string{"Supply the missing keys in the __credentials__ argument or set the corresponding environment variables."}
	case KindVendorAuth:
		return []string{"Verify the credential is valid and has not expired or been revoked."}
	case KindVendorPermission:
		return []string{"Verify the credential has sufficient scope or permissions for this resource."}
	case KindVendorNotFound:
		return []string{"Check the resource identifiers (owner, repository, branch, path, chat id) for typos.", "The resource may not exist yet; create it first."}
	case KindVendorRateLimit:
		return []string{"Wait for the rate-limit window to reset before retrying."}
	case KindVendorConflict:
		return []string{"The resource changed concurrently; re-read its current state and retry with fresh identifiers."}
	case KindResponseValidation:
		return []string{"The vendor response no longer matches the expected shape; the vendor API contract may have drifted."}
	}
	return nil
}
