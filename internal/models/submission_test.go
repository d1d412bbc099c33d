package models_test

import (
	"testing"
	"time"

	"github.com/formrelay/formrelay-api/internal/models"
	apperrors "github.com/formrelay/formrelay-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderLabel(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"inquiryType", "Inquiry Type"},
		{"email", "Email"},
		{"fullName", "Full Name"},
		{"customerPhoneNumber", "Customer Phone Number"},
		{"name", "Name"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, models.HeaderLabel(tt.key))
		// Formatting must be idempotent across repeated calls
		assert.Equal(t, models.HeaderLabel(tt.key), models.HeaderLabel(tt.key))
	}
}

func TestSubmission_HeaderValues(t *testing.T) {
	sub := models.Submission{
		"name":    "Jane",
		"email":   "jane@gmail.com",
		"message": "Hi",
	}
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	headers, values := sub.HeaderValues(now)

	// Alphabetical field order with Timestamp last
	assert.Equal(t, []string{"Email", "Message", "Name", "Timestamp"}, headers)
	assert.Equal(t, []string{"jane@gmail.com", "Hi", "Jane", "2026-08-29T12:00:00Z"}, values)
	require.Len(t, values, len(headers))
}

func TestSubmission_HeaderValues_NonStringFields(t *testing.T) {
	sub := models.Submission{
		"email":    "jane@gmail.com",
		"budget":   float64(2500),
		"details":  map[string]interface{}{"plan": "pro"},
		"optIn":    true,
		"nilField": nil,
	}

	headers, values := sub.HeaderValues(time.Now())

	assert.Equal(t, []string{"Budget", "Details", "Email", "Nil Field", "Opt In", "Timestamp"}, headers)
	assert.Equal(t, "2500", values[0])
	assert.JSONEq(t, `{"plan":"pro"}`, values[1])
	assert.Equal(t, "", values[3])
	assert.Equal(t, "true", values[4])
}

func TestSubmission_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		sub      models.Submission
		expected string
	}{
		{"name wins", models.Submission{"name": "Jane", "fullName": "Jane Doe"}, "Jane"},
		{"fullName next", models.Submission{"fullName": "Jane Doe"}, "Jane Doe"},
		{"customerName next", models.Submission{"customerName": "J. Doe"}, "J. Doe"},
		{"fallback", models.Submission{"email": "jane@gmail.com"}, "Valued Customer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.sub.DisplayName("Valued Customer"))
		})
	}
}

func TestSubmission_SubjectLine(t *testing.T) {
	assert.Equal(t, "Contact Form: Pricing",
		models.Submission{"subject": "Pricing"}.SubjectLine())
	assert.Equal(t, "Contact Form: Support",
		models.Submission{"inquiryType": "Support"}.SubjectLine())
	assert.Equal(t, "Contact Form: New Submission",
		models.Submission{"email": "a@gmail.com"}.SubjectLine())
}

func TestSubmission_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sub     models.Submission
		wantErr bool
	}{
		{"valid", models.Submission{"email": "jane@gmail.com"}, false},
		{"valid with extras", models.Submission{"email": "jane@gmail.com", "anything": 42}, false},
		{"missing email", models.Submission{"name": "Jane"}, true},
		{"not a string", models.Submission{"email": 42}, true},
		{"bad format", models.Submission{"email": "not-an-email"}, true},
		{"rejected domain", models.Submission{"email": "jane@mailinator.com"}, true},
		{"rejected test domain", models.Submission{"email": "jane@example.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				assert.Contains(t, err.Error(), "email")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
