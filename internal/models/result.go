package models

// WriteResult is the outcome of the one spreadsheet write attempt.
type WriteResult struct {
	Success bool   `json:"success"`
	Method  string `json:"method,omitempty"`
	Error   string `json:"error,omitempty"`
}

// MirrorOutcome is the Spreadsheet Mirror's structured result. Success
// reflects URL validation and processing; the nested SubmissionResult
// reports whether the write itself landed. A nil SubmissionResult means
// the URL was valid but no write strategy was configured.
type MirrorOutcome struct {
	Success          bool
	Message          string
	SheetURL         string
	SpreadsheetID    string
	SkipReason       string
	SubmissionResult *WriteResult
}

// EmailStatus is the admin notification's slice of the HTTP response.
type EmailStatus struct {
	Sent      bool   `json:"sent"`
	ErrorKind string `json:"errorKind,omitempty"`
	Error     string `json:"error,omitempty"`
}

// GoogleSheetsStatus is the spreadsheet channel's slice of the HTTP response.
type GoogleSheetsStatus struct {
	Processed       bool   `json:"processed"`
	SheetURL        string `json:"sheetUrl,omitempty"`
	SpreadsheetID   string `json:"spreadsheetId,omitempty"`
	Submitted       *bool  `json:"submitted,omitempty"`
	SubmissionError string `json:"submissionError,omitempty"`
}

// OrchestrationResult aggregates the per-channel outcomes into the single
// response body. Success is true for every submission that reached the
// orchestrator: side-effect failures are reported in sub-fields, never by
// rejecting the submission.
type OrchestrationResult struct {
	Success      bool                `json:"success"`
	Message      string              `json:"message"`
	MessageID    string              `json:"messageId,omitempty"`
	EmailStatus  EmailStatus         `json:"emailStatus"`
	GoogleSheets *GoogleSheetsStatus `json:"googleSheets,omitempty"`
}

// SendOverrides carries the optional per-request query parameters of the
// dynamic submit endpoint.
type SendOverrides struct {
	RecipientEmail  string
	SenderEmail     string
	WebhookURL      string
	GoogleSheetLink string
}
