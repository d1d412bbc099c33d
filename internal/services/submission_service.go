package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/formrelay/formrelay-api/config"
	"github.com/formrelay/formrelay-api/internal/models"
	apperrors "github.com/formrelay/formrelay-api/pkg/errors"
	"github.com/formrelay/formrelay-api/pkg/logger"
	"github.com/formrelay/formrelay-api/pkg/metrics"
)

type SubmissionService struct {
	config *config.Config
	emails EmailServiceInterface
	sheets SheetsServiceInterface
}

func NewSubmissionService(cfg *config.Config, emails EmailServiceInterface, sheets SheetsServiceInterface) *SubmissionService {
	return &SubmissionService{
		config: cfg,
		emails: emails,
		sheets: sheets,
	}
}

// HandleSubmission runs the side-effect pipeline for one validated
// submission: spreadsheet mirror, then admin notification, then
// confirmation email, always in that order. Each step is isolated; a
// failure is recorded in the aggregate result and the pipeline moves on.
// The submission itself is always accepted: the handler writes the returned
// result exactly once, side-effect failures only ever land in its fields.
func (s *SubmissionService) HandleSubmission(ctx context.Context, sub models.Submission, overrides models.SendOverrides) *models.OrchestrationResult {
	// An accepted submission's side effects run to completion or their own
	// timeouts even if the client disconnects mid-request. Keep the trace
	// and span values from the request context, drop its cancellation.
	ctx = context.WithoutCancel(ctx)

	result := &models.OrchestrationResult{
		Success: true,
		Message: "Contact form submitted successfully",
	}

	var mirror *models.MirrorOutcome
	if sheetURL := s.sheetReference(overrides); sheetURL != "" {
		outcome := s.safeMirror(ctx, sheetURL, overrides, sub)
		mirror = &outcome
		result.GoogleSheets = sheetsStatus(outcome)
	}

	messageID, err := s.emails.SendAdminNotification(ctx, sub, mirror, overrides)
	if err != nil {
		result.EmailStatus = models.EmailStatus{
			Sent:      false,
			ErrorKind: apperrors.Kind(err),
			Error:     err.Error(),
		}
	} else {
		result.EmailStatus = models.EmailStatus{Sent: true}
		result.MessageID = messageID
	}

	// Best effort; SendConfirmation never reports failure upward.
	s.emails.SendConfirmation(ctx, sub, mirror, overrides)

	s.recordOutcome(result)
	return result
}

// recordOutcome records the submission metric and the per-request summary log.
func (s *SubmissionService) recordOutcome(result *models.OrchestrationResult) {
	status := "email_failed"
	if result.EmailStatus.Sent {
		status = "accepted"
	}
	metrics.ContactFormSubmissions.WithLabelValues(status).Inc()

	logger.Info("Submission processed",
		zap.Bool("email_sent", result.EmailStatus.Sent),
		zap.Bool("sheets_attempted", result.GoogleSheets != nil))
}

// sheetReference picks the spreadsheet link for this request: the
// per-request override when present, otherwise the configured URL.
func (s *SubmissionService) sheetReference(overrides models.SendOverrides) string {
	if overrides.GoogleSheetLink != "" {
		return overrides.GoogleSheetLink
	}
	return s.config.GoogleSheets.SheetURL
}

// safeMirror shields emails from the mirror step: a panic inside the
// spreadsheet path becomes a failed outcome instead of aborting the request.
func (s *SubmissionService) safeMirror(ctx context.Context, sheetURL string, overrides models.SendOverrides, sub models.Submission) (outcome models.MirrorOutcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Spreadsheet mirror panicked", zap.Any("panic", r))
			outcome = models.MirrorOutcome{
				Success:  false,
				Message:  fmt.Sprintf("spreadsheet mirror panicked: %v", r),
				SheetURL: sheetURL,
			}
		}
	}()
	return s.sheets.Mirror(ctx, sheetURL, overrides, sub)
}

func sheetsStatus(outcome models.MirrorOutcome) *models.GoogleSheetsStatus {
	status := &models.GoogleSheetsStatus{
		Processed:     outcome.Success,
		SheetURL:      outcome.SheetURL,
		SpreadsheetID: outcome.SpreadsheetID,
	}
	if outcome.SubmissionResult != nil {
		submitted := outcome.SubmissionResult.Success
		status.Submitted = &submitted
		if !submitted {
			status.SubmissionError = outcome.SubmissionResult.Error
		}
	}
	return status
}
