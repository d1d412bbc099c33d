package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/formrelay/formrelay-api/config"
	"github.com/formrelay/formrelay-api/internal/models"
	apperrors "github.com/formrelay/formrelay-api/pkg/errors"
	"github.com/formrelay/formrelay-api/pkg/httpclient"
	"github.com/formrelay/formrelay-api/pkg/logger"
	"github.com/formrelay/formrelay-api/pkg/metrics"
)

const (
	// spreadsheetIDPlaceholder in a configured webhook URL is replaced with
	// the ID extracted from the sheet link of the current request.
	spreadsheetIDPlaceholder = "{SPREADSHEET_ID}"

	// webhookBodyLimit caps how much of a webhook response we read when
	// looking for an application-level failure marker.
	webhookBodyLimit = 64 * 1024

	strategyAPI     = "api"
	strategyWebhook = "webhook"
)

// webhookPayload is the body POSTed to an Apps Script -style webhook. The
// receiving script aligns data[i] under headers[i].
type webhookPayload struct {
	Headers   []string `json:"headers"`
	Data      []string `json:"data"`
	Timestamp string   `json:"timestamp"`
}

// webhookAck is the JSON some webhook endpoints return. A 2xx reply whose
// body carries success=false still counts as a failed write.
type webhookAck struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

type SheetsService struct {
	config     *config.Config
	httpClient httpclient.Client
	api        SheetsAPI // nil when no service account is configured or its client failed to build

	// locks serializes header reconciliation per spreadsheet so two
	// concurrent submissions cannot both decide the header row is missing
	// and write it twice.
	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

func NewSheetsService(cfg *config.Config, httpClient httpclient.Client, api SheetsAPI) *SheetsService {
	return &SheetsService{
		config:     cfg,
		httpClient: httpClient,
		api:        api,
		locks:      make(map[string]*sync.Mutex),
		now:        time.Now,
	}
}

// Mirror records one submission against the referenced spreadsheet. Exactly
// one write strategy runs per submission: the service-account API when
// credentials are configured, otherwise a webhook POST (per-request override
// first, then the configured URL). With neither configured the URL is only
// validated so the emails can still link to the sheet. Mirror never returns
// an error; every failure is folded into the outcome.
func (s *SheetsService) Mirror(ctx context.Context, sheetURL string, overrides models.SendOverrides, sub models.Submission) models.MirrorOutcome {
	if !models.IsValidSheetURL(sheetURL) {
		logger.Warn("Invalid Google Sheets URL, skipping mirror", zap.String("sheet_url", sheetURL))
		return models.MirrorOutcome{
			Success:    false,
			Message:    "Invalid Google Sheets URL format",
			SheetURL:   sheetURL,
			SkipReason: "invalid-url",
		}
	}

	spreadsheetID := models.ExtractSpreadsheetID(sheetURL)
	if spreadsheetID == "" {
		return models.MirrorOutcome{
			Success:    false,
			Message:    "Could not extract spreadsheet ID from URL",
			SheetURL:   sheetURL,
			SkipReason: "id-extraction-failed",
		}
	}

	outcome := models.MirrorOutcome{
		Success:       true,
		SheetURL:      sheetURL,
		SpreadsheetID: spreadsheetID,
	}

	switch {
	case s.config.ServiceAccountConfigured():
		result := s.writeViaAPI(ctx, spreadsheetID, sub)
		if !result.Success && s.config.GoogleSheets.WebhookURL != "" {
			// One fallback attempt, never a second.
			logger.Warn("Sheets API write failed, falling back to webhook",
				zap.String("spreadsheet_id", spreadsheetID),
				zap.String("api_error", result.Error))
			result = s.writeViaWebhook(ctx, s.resolveWebhookURL(s.config.GoogleSheets.WebhookURL, spreadsheetID), sub)
		}
		outcome.SubmissionResult = &result
	case overrides.WebhookURL != "":
		result := s.writeViaWebhook(ctx, s.resolveWebhookURL(overrides.WebhookURL, spreadsheetID), sub)
		outcome.SubmissionResult = &result
	case s.config.GoogleSheets.WebhookURL != "":
		result := s.writeViaWebhook(ctx, s.resolveWebhookURL(s.config.GoogleSheets.WebhookURL, spreadsheetID), sub)
		outcome.SubmissionResult = &result
	default:
		outcome.Message = "Google Sheets URL validated (no write method configured, link included in emails)"
		return outcome
	}

	if outcome.SubmissionResult.Success {
		outcome.Message = fmt.Sprintf("Submission recorded via %s", outcome.SubmissionResult.Method)
	} else {
		outcome.Message = fmt.Sprintf("Submission write failed: %s", outcome.SubmissionResult.Error)
	}
	return outcome
}

// resolveWebhookURL substitutes the spreadsheet-ID placeholder so one
// webhook deployment can serve multiple sheets.
func (s *SheetsService) resolveWebhookURL(webhookURL, spreadsheetID string) string {
	return strings.ReplaceAll(webhookURL, spreadsheetIDPlaceholder, spreadsheetID)
}

// writeViaAPI appends the submission through the Sheets API, reconciling
// the header row first so every field lands under its column.
func (s *SheetsService) writeViaAPI(ctx context.Context, spreadsheetID string, sub models.Submission) models.WriteResult {
	start := time.Now()
	err := s.appendViaAPI(ctx, spreadsheetID, sub)
	s.observeWrite(strategyAPI, start, err)

	if err != nil {
		logger.LogError(err, "Sheets API write failed", zap.String("spreadsheet_id", spreadsheetID))
		return models.WriteResult{Success: false, Method: "Google Sheets API", Error: err.Error()}
	}

	logger.Info("Submission appended via Sheets API", zap.String("spreadsheet_id", spreadsheetID))
	return models.WriteResult{Success: true, Method: "Google Sheets API"}
}

func (s *SheetsService) appendViaAPI(ctx context.Context, spreadsheetID string, sub models.Submission) error {
	if s.api == nil {
		return fmt.Errorf("service account client unavailable: %w", apperrors.ErrConfiguration)
	}

	lock := s.sheetLock(spreadsheetID)
	lock.Lock()
	defer lock.Unlock()

	sheetName := s.config.GoogleSheets.SheetName
	headers, values := sub.HeaderValues(s.now())

	existing, err := s.api.ReadHeaders(ctx, spreadsheetID, sheetName)
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		if err := s.api.WriteHeaders(ctx, spreadsheetID, sheetName, 0, headers); err != nil {
			return err
		}
		existing = headers
	} else if missing := missingHeaders(existing, headers); len(missing) > 0 {
		if err := s.api.WriteHeaders(ctx, spreadsheetID, sheetName, len(existing), missing); err != nil {
			return err
		}
		existing = append(existing, missing...)
	}
	s.api.CacheHeaders(spreadsheetID, existing)

	if err := s.api.AppendRow(ctx, spreadsheetID, sheetName, alignRow(existing, headers, values)); err != nil {
		// The cached header row may be stale (columns moved or deleted by
		// hand); force a fresh read on the next attempt.
		s.api.InvalidateHeaders(spreadsheetID)
		return err
	}
	return nil
}

// missingHeaders returns the submission headers not yet present in the
// sheet, in submission order.
func missingHeaders(existing, headers []string) []string {
	known := make(map[string]struct{}, len(existing))
	for _, h := range existing {
		known[h] = struct{}{}
	}

	var missing []string
	for _, h := range headers {
		if _, ok := known[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// alignRow places each submission value under its column in the sheet's
// header order. Columns the submission does not carry stay blank.
func alignRow(existing, headers, values []string) []string {
	byHeader := make(map[string]string, len(headers))
	for i, h := range headers {
		byHeader[h] = values[i]
	}

	row := make([]string, len(existing))
	for i, h := range existing {
		row[i] = byHeader[h]
	}
	return row
}

// writeViaWebhook POSTs the flattened submission to an Apps Script -style
// webhook under a hard timeout, so a stalled endpoint cannot hold the
// request hostage.
func (s *SheetsService) writeViaWebhook(ctx context.Context, webhookURL string, sub models.Submission) models.WriteResult {
	start := time.Now()
	err := s.postWebhook(ctx, webhookURL, sub)
	s.observeWrite(strategyWebhook, start, err)

	if err != nil {
		logger.LogError(err, "Webhook write failed", zap.String("webhook_url", webhookURL))
		return models.WriteResult{Success: false, Method: "Webhook", Error: err.Error()}
	}

	logger.Info("Submission posted to webhook", zap.String("webhook_url", webhookURL))
	return models.WriteResult{Success: true, Method: "Webhook"}
}

func (s *SheetsService) postWebhook(ctx context.Context, webhookURL string, sub models.Submission) error {
	headers, values := sub.HeaderValues(s.now())
	payload := webhookPayload{
		Headers:   headers,
		Data:      values,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.WriteError(fmt.Sprintf("failed to encode webhook payload: %v", err))
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.GoogleSheets.WebhookTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return apperrors.WriteError(fmt.Sprintf("failed to create webhook request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("webhook did not respond within %s: %w", s.config.GoogleSheets.WebhookTimeout, apperrors.ErrTimeout)
		}
		return fmt.Errorf("webhook request failed: %s: %w", err.Error(), apperrors.ErrConnection)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort cleanup

	// Apps Script web apps answer 302 on success when deployed to redirect.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusFound {
		return apperrors.WriteError(fmt.Sprintf("webhook returned status %d", resp.StatusCode))
	}

	// A well-formed error body demotes a 2xx reply; anything unparseable is
	// taken as success, matching how Apps Script responds with plain text.
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, webhookBodyLimit)) //nolint:errcheck // Partial body is fine
	var ack webhookAck
	if json.Unmarshal(raw, &ack) == nil && ack.Success != nil && !*ack.Success {
		if ack.Error == "" {
			ack.Error = "webhook reported failure"
		}
		return apperrors.WriteError(ack.Error)
	}

	return nil
}

func (s *SheetsService) sheetLock(spreadsheetID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[spreadsheetID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[spreadsheetID] = lock
	}
	return lock
}

func (s *SheetsService) observeWrite(strategy string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = apperrors.Kind(err)
	}
	duration := metrics.MeasureDuration(start)
	metrics.SheetsWriteTotal.WithLabelValues(strategy, status).Inc()
	metrics.SheetsWriteDuration.WithLabelValues(strategy, status).Observe(duration)
	logger.LogAPICall("google_sheets", strategy, status, duration)
}
