package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Channel error taxonomy. Each sentinel marks one failure class so callers
// can fold errors into per-channel response fields with errors.Is.

var (
	// ErrConfiguration indicates required settings are missing for a channel
	ErrConfiguration = errors.New("configuration incomplete")

	// ErrValidation indicates a malformed submission
	ErrValidation = errors.New("validation failed")

	// ErrTimeout indicates an operation exceeded its wall-clock budget
	ErrTimeout = errors.New("timeout")

	// ErrConnection indicates the remote host could not be reached
	ErrConnection = errors.New("connection failed")

	// ErrAuth indicates the remote service rejected our credentials
	ErrAuth = errors.New("authentication failed")

	// ErrSend indicates an email send failure not covered by a narrower class
	ErrSend = errors.New("send failed")

	// ErrWrite indicates a spreadsheet write failure
	ErrWrite = errors.New("write failed")

	// ErrPermission indicates the spreadsheet is not shared with our credential
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates the target spreadsheet does not exist
	ErrNotFound = errors.New("not found")
)

// ConfigurationError creates a configuration error naming every missing field.
func ConfigurationError(missing ...string) error {
	return fmt.Errorf("missing %s: %w", strings.Join(missing, ", "), ErrConfiguration)
}

// ValidationError creates a validation error with field context.
func ValidationError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrValidation)
}

// WriteError creates a spreadsheet write error with context.
func WriteError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrWrite)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Kind returns the short name of the error's class for response fields
// and metric labels. Unclassified errors report as "send_error".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrConnection):
		return "connection_error"
	case errors.Is(err, ErrAuth):
		return "auth_error"
	case errors.Is(err, ErrPermission):
		return "permission_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrWrite):
		return "write_error"
	default:
		return "send_error"
	}
}

// ClassifySMTP maps a raw SMTP transport error onto the taxonomy by
// inspecting the error text and status codes the server reported.
// 535 is the SMTP "authentication credentials invalid" reply.
func ClassifySMTP(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConfiguration) || errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConnection) || errors.Is(err, ErrAuth) || errors.Is(err, ErrSend) {
		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "timed out") ||
		strings.Contains(msg, "deadline exceeded"):
		return fmt.Errorf("%s: %w", err.Error(), ErrTimeout)
	case strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "network is unreachable") ||
		strings.Contains(msg, "broken pipe"):
		return fmt.Errorf("%s: %w", err.Error(), ErrConnection)
	case strings.Contains(msg, "535") ||
		strings.Contains(msg, "auth") ||
		strings.Contains(msg, "invalid login") ||
		strings.Contains(msg, "username and password not accepted"):
		return fmt.Errorf("%s: %w", err.Error(), ErrAuth)
	default:
		return fmt.Errorf("%s: %w", err.Error(), ErrSend)
	}
}
