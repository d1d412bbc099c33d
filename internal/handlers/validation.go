package handlers

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/formrelay/formrelay-api/internal/models"
	apperrors "github.com/formrelay/formrelay-api/pkg/errors"
)

var validate = validator.New()

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validationMessage turns a submission validation error into a response
// message, trimming the internal classification suffix.
func validationMessage(err error) string {
	msg := err.Error()
	if cut, found := strings.CutSuffix(msg, ": "+apperrors.ErrValidation.Error()); found {
		return cut
	}
	return msg
}

// validateOverrides checks the optional query parameters of the dynamic
// submit endpoint. Each parameter is only validated when present.
func validateOverrides(o models.SendOverrides) []ValidationError {
	var errs []ValidationError

	if o.RecipientEmail != "" {
		if err := validate.Var(o.RecipientEmail, "email"); err != nil {
			errs = append(errs, ValidationError{Field: "recipientEmail", Message: "Invalid email format"})
		}
	}
	if o.SenderEmail != "" {
		if err := validate.Var(o.SenderEmail, "email"); err != nil {
			errs = append(errs, ValidationError{Field: "senderEmail", Message: "Invalid email format"})
		}
	}
	if o.WebhookURL != "" {
		if err := validate.Var(o.WebhookURL, "url,startswith=https://"); err != nil {
			errs = append(errs, ValidationError{Field: "webhookUrl", Message: "Must be a valid https URL"})
		}
	}
	if o.GoogleSheetLink != "" && !models.IsValidSheetURL(o.GoogleSheetLink) {
		errs = append(errs, ValidationError{Field: "googleSheetLink", Message: "Must be a Google Sheets URL"})
	}

	return errs
}
