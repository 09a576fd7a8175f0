package bigquery

import (
	"fmt"
	"strings"
	"time"
)

// ErrorProto is one error object reported by the server.
type ErrorProto struct {
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message,omitempty"`
	Location  string `json:"location,omitempty"`
	DebugInfo string `json:"debugInfo,omitempty"`
}

// CommunicationError indicates the server could not be reached or returned
// an unclassifiable failure.
type CommunicationError struct {
	Message string
	// StatusCode is the HTTP status of the failing response, zero when the
	// request never completed.
	StatusCode int
	Err        error
}

func (e *CommunicationError) Error() string { return e.Message }
func (e *CommunicationError) Unwrap() error { return e.Err }

// InterfaceError indicates a server response that violates the API contract,
// for example an error object missing its required fields.
type InterfaceError struct {
	Message string
}

func (e *InterfaceError) Error() string { return e.Message }

// ServiceError is the base of server-reported request failures. The named
// subtypes embed it; unrecognized reasons are returned as a plain
// *ServiceError.
type ServiceError struct {
	// Message is the user-facing message, including the failure-details
	// block when sibling errors were reported.
	Message string

	// Err is the primary error object; its Reason selected the error kind.
	Err ErrorProto

	// Errors is the full sibling list as reported by the server.
	Errors []ErrorProto

	// JobRef is set when the failure is associated with a job.
	JobRef *JobReference
}

func (e *ServiceError) Error() string { return e.Message }

// NotFoundError: the requested resource or identifier was not found.
type NotFoundError struct{ ServiceError }

// DuplicateError: the requested resource or identifier already exists.
type DuplicateError struct{ ServiceError }

// AccessDeniedError: the user does not have access to the resource.
type AccessDeniedError struct{ ServiceError }

// InvalidQueryError: the SQL statement is invalid.
type InvalidQueryError struct{ ServiceError }

// TermsOfServiceError: the user has not accepted the terms of service. It is
// a kind of AccessDeniedError.
type TermsOfServiceError struct{ AccessDeniedError }

func (e *NotFoundError) As(target any) bool     { return asServiceError(&e.ServiceError, target) }
func (e *DuplicateError) As(target any) bool    { return asServiceError(&e.ServiceError, target) }
func (e *InvalidQueryError) As(target any) bool { return asServiceError(&e.ServiceError, target) }

func (e *AccessDeniedError) As(target any) bool { return asServiceError(&e.ServiceError, target) }

// As lets errors.As treat a TermsOfServiceError as an *AccessDeniedError.
func (e *TermsOfServiceError) As(target any) bool {
	if t, ok := target.(**AccessDeniedError); ok {
		*t = &e.AccessDeniedError
		return true
	}
	return asServiceError(&e.ServiceError, target)
}

func asServiceError(e *ServiceError, target any) bool {
	if t, ok := target.(**ServiceError); ok {
		*t = e
		return true
	}
	return false
}

// ClientError indicates invalid use of this library.
type ClientError struct {
	Message string
}

func (e *ClientError) Error() string { return e.Message }

// ConfigurationError indicates invalid client configuration, for example a
// job insert without any project id.
type ConfigurationError struct{ ClientError }

// SchemaError indicates a schema that could not be located or parsed.
type SchemaError struct{ ClientError }

func configurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{ClientError{Message: fmt.Sprintf(format, args...)}}
}

func schemaError(format string, args ...any) *SchemaError {
	return &SchemaError{ClientError{Message: fmt.Sprintf(format, args...)}}
}

// TimeoutError indicates a wait budget exhausted before the job reached the
// desired state.
type TimeoutError struct {
	// State is the last state observed before the timeout.
	State   string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("wait timed out; operation not finished, in state %s", e.State)
}

// errorFromProto converts a server-reported error object into a typed error.
// envelope is the raw error body, used only for the diagnostic message when
// the primary error is malformed. Siblings beyond the primary error are
// appended to the message as a failure-details block. The same conversion
// serves both transport error bodies and terminal job statuses, so the two
// paths produce identical errors for the same reason.
func errorFromProto(primary ErrorProto, envelope string, siblings []ErrorProto, jobRef *JobReference) error {
	var message string
	if jobRef != nil {
		message = fmt.Sprintf("error processing %s: %s", describeReference(*jobRef), primary.Message)
	} else {
		message = primary.Message
	}
	var details []string
	for _, err := range siblings {
		if err != primary {
			details = append(details, fillIndent(err.Message, " - ", "   ", 70))
		}
	}
	if len(details) > 0 {
		message += "\nFailure details:\n" + strings.Join(details, "\n")
	}
	if primary.Reason == "" || primary.Message == "" {
		return &InterfaceError{Message: fmt.Sprintf(
			"error reported by server with missing error fields; server returned: %s", envelope)}
	}
	base := ServiceError{Message: message, Err: primary, Errors: siblings, JobRef: jobRef}
	switch primary.Reason {
	case "notFound":
		return &NotFoundError{base}
	case "duplicate":
		return &DuplicateError{base}
	case "accessDenied":
		return &AccessDeniedError{base}
	case "invalidQuery":
		return &InvalidQueryError{base}
	case "termsOfServiceNotAccepted":
		return &TermsOfServiceError{AccessDeniedError{base}}
	}
	return &base
}

// fillIndent word-wraps text to the given width, prefixing the first line
// with initial and continuation lines with subsequent. The indents count
// toward the width.
func fillIndent(text, initial, subsequent string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return initial
	}
	var b strings.Builder
	line := initial + words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			b.WriteString(line)
			b.WriteByte('\n')
			line = subsequent + word
			continue
		}
		line += " " + word
	}
	b.WriteString(line)
	return b.String()
}
