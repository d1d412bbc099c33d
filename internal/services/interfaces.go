package services

import (
	"context"

	"github.com/wneessen/go-mail"

	"github.com/formrelay/formrelay-api/internal/models"
)

// SubmissionServiceInterface defines the interface for submission orchestration
type SubmissionServiceInterface interface {
	HandleSubmission(ctx context.Context, sub models.Submission, overrides models.SendOverrides) *models.OrchestrationResult
}

// EmailServiceInterface defines the interface for email delivery operations
type EmailServiceInterface interface {
	SendAdminNotification(ctx context.Context, sub models.Submission, mirror *models.MirrorOutcome, overrides models.SendOverrides) (string, error)
	SendConfirmation(ctx context.Context, sub models.Submission, mirror *models.MirrorOutcome, overrides models.SendOverrides)
}

// SheetsServiceInterface defines the interface for mirroring submissions
// into a Google Sheets spreadsheet.
type SheetsServiceInterface interface {
	Mirror(ctx context.Context, sheetURL string, overrides models.SendOverrides, sub models.Submission) models.MirrorOutcome
}

// MailTransport abstracts the SMTP provider so email sending can be tested
// without a live server.
type MailTransport interface {
	Send(ctx context.Context, msg *mail.Msg) error
	Sender() string
}

// SheetsAPI abstracts the Google Sheets client for header reconciliation
// and row appends.
type SheetsAPI interface {
	ReadHeaders(ctx context.Context, spreadsheetID, sheetName string) ([]string, error)
	WriteHeaders(ctx context.Context, spreadsheetID, sheetName string, startCol int, headers []string) error
	AppendRow(ctx context.Context, spreadsheetID, sheetName string, row []string) error
	CacheHeaders(spreadsheetID string, headers []string)
	InvalidateHeaders(spreadsheetID string)
}
