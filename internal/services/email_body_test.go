package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/formrelay/formrelay-api/config"
	"github.com/formrelay/formrelay-api/internal/models"
)

func bodyTestService() *EmailService {
	return NewEmailService(&config.Config{
		Email: config.EmailConfig{
			CompanyName: "Acme Corp",
			TeamName:    "Acme Support",
			SendTimeout: 25 * time.Second,
		},
	}, nil)
}

func TestAdminBody_FieldsAndEscaping(t *testing.T) {
	e := bodyTestService()
	sub := models.Submission{
		"email":       "v@example.com",
		"inquiryType": "sales",
		"message":     "<script>alert(1)</script>",
	}

	body := e.adminBody(sub, nil)

	assert.Contains(t, body, "Inquiry Type")
	assert.Contains(t, body, "v@example.com")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.NotContains(t, body, "<script>")
}

func TestAdminBody_SheetLinkBlock(t *testing.T) {
	e := bodyTestService()
	sub := models.Submission{"email": "v@example.com"}

	mirror := &models.MirrorOutcome{
		Success:  true,
		SheetURL: "https://docs.google.com/spreadsheets/d/abc/edit",
		SubmissionResult: &models.WriteResult{
			Success: true,
			Method:  "Webhook",
		},
	}
	body := e.adminBody(sub, mirror)
	assert.Contains(t, body, "https://docs.google.com/spreadsheets/d/abc/edit")
	assert.Contains(t, body, "Webhook")

	mirror.SubmissionResult = &models.WriteResult{Success: false, Error: "permission denied"}
	body = e.adminBody(sub, mirror)
	assert.Contains(t, body, "write failed")
	assert.Contains(t, body, "permission denied")

	mirror.SubmissionResult = nil
	body = e.adminBody(sub, mirror)
	assert.Contains(t, body, "reference only")
}

func TestConfirmationBody_NameFallbackAndSignature(t *testing.T) {
	e := bodyTestService()

	body := e.confirmationBody(models.Submission{"email": "v@example.com"}, nil)
	assert.Contains(t, body, "Valued Customer")
	assert.Contains(t, body, "Acme Support")
	assert.Contains(t, body, "Acme Corp")

	body = e.confirmationBody(models.Submission{"email": "v@example.com", "fullName": "Jane Roe"}, nil)
	assert.Contains(t, body, "Jane Roe")
}
