package errors_test

import (
	"context"
	"fmt"
	"testing"

	apperrors "github.com/formrelay/formrelay-api/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassifySMTP(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
		kind     string
	}{
		{
			name:     "deadline exceeded maps to timeout",
			err:      context.DeadlineExceeded,
			expected: apperrors.ErrTimeout,
			kind:     "timeout",
		},
		{
			name:     "timeout text maps to timeout",
			err:      fmt.Errorf("dial tcp: i/o timeout"),
			expected: apperrors.ErrTimeout,
			kind:     "timeout",
		},
		{
			name:     "connection refused maps to connection error",
			err:      fmt.Errorf("dial tcp 127.0.0.1:587: connect: connection refused"),
			expected: apperrors.ErrConnection,
			kind:     "connection_error",
		},
		{
			name:     "unknown host maps to connection error",
			err:      fmt.Errorf("lookup smtp.nowhere.invalid: no such host"),
			expected: apperrors.ErrConnection,
			kind:     "connection_error",
		},
		{
			name:     "535 reply maps to auth error",
			err:      fmt.Errorf("535 5.7.8 Username and Password not accepted"),
			expected: apperrors.ErrAuth,
			kind:     "auth_error",
		},
		{
			name:     "anything else maps to send error",
			err:      fmt.Errorf("552 message size exceeds limit"),
			expected: apperrors.ErrSend,
			kind:     "send_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := apperrors.ClassifySMTP(tt.err)
			assert.ErrorIs(t, classified, tt.expected)
			assert.Equal(t, tt.kind, apperrors.Kind(classified))
		})
	}
}

func TestClassifySMTP_AlreadyClassified(t *testing.T) {
	err := apperrors.ConfigurationError("EMAIL_HOST", "EMAIL_PASS")
	assert.Equal(t, err, apperrors.ClassifySMTP(err))
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	assert.Contains(t, err.Error(), "EMAIL_HOST, EMAIL_PASS")
}

func TestClassifySMTP_Nil(t *testing.T) {
	assert.NoError(t, apperrors.ClassifySMTP(nil))
}

func TestKind_SheetErrors(t *testing.T) {
	assert.Equal(t, "permission_error", apperrors.Kind(fmt.Errorf("share the sheet: %w", apperrors.ErrPermission)))
	assert.Equal(t, "not_found", apperrors.Kind(fmt.Errorf("bad id: %w", apperrors.ErrNotFound)))
	assert.Equal(t, "write_error", apperrors.Kind(apperrors.WriteError("append failed")))
}
