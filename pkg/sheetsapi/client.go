package sheetsapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apperrors "github.com/formrelay/formrelay-api/pkg/errors"
)

const (
	// headerRange covers the first row out to column ZZ, enough for any
	// realistic accumulation of submission fields.
	headerRange = "%s!A1:ZZ1"

	headerCacheTTL = 5 * time.Minute
)

// Client wraps the Google Sheets API for header reads and row appends.
// A small TTL cache keeps the header row per spreadsheet so steady-state
// submissions cost one append instead of a read plus an append. Callers
// that mutate headers must refresh the cache via CacheHeaders.
type Client struct {
	svc     *sheets.Service
	headers *gocache.Cache
}

// NewClient authenticates with a service-account credential JSON and
// returns a ready client. The credential must carry the spreadsheets scope.
func NewClient(ctx context.Context, credentialsJSON []byte) (*Client, error) {
	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to parse credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}

	return &Client{
		svc:     svc,
		headers: gocache.New(headerCacheTTL, 10*time.Minute),
	}, nil
}

// ReadHeaders returns the current header row of the sheet, empty if the
// sheet has no header row yet.
func (c *Client) ReadHeaders(ctx context.Context, spreadsheetID, sheetName string) ([]string, error) {
	if cached, ok := c.headers.Get(spreadsheetID); ok {
		return cached.([]string), nil
	}

	resp, err := c.svc.Spreadsheets.Values.
		Get(spreadsheetID, fmt.Sprintf(headerRange, sheetName)).
		Context(ctx).Do()
	if err != nil {
		return nil, classifyAPIError("read headers", err)
	}

	var headers []string
	if len(resp.Values) > 0 {
		headers = make([]string, 0, len(resp.Values[0]))
		for _, v := range resp.Values[0] {
			headers = append(headers, fmt.Sprint(v))
		}
	}

	c.headers.Set(spreadsheetID, headers, gocache.DefaultExpiration)
	return headers, nil
}

// WriteHeaders writes header cells starting at the given zero-based column
// of row 1. Used both to create the initial header row and to extend it
// with columns for previously-unseen fields.
func (c *Client) WriteHeaders(ctx context.Context, spreadsheetID, sheetName string, startCol int, headers []string) error {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}

	rng := fmt.Sprintf("%s!%s1", sheetName, ColumnLetter(startCol))
	_, err := c.svc.Spreadsheets.Values.
		Update(spreadsheetID, rng, &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return classifyAPIError("write headers", err)
	}
	return nil
}

// AppendRow appends one data row below the existing content of the sheet.
func (c *Client) AppendRow(ctx context.Context, spreadsheetID, sheetName string, row []string) error {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}

	_, err := c.svc.Spreadsheets.Values.
		Append(spreadsheetID, fmt.Sprintf("%s!A:A", sheetName), &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return classifyAPIError("append row", err)
	}
	return nil
}

// CacheHeaders records the authoritative header row after a reconcile, so
// the next submission does not re-read a row this process just wrote.
func (c *Client) CacheHeaders(spreadsheetID string, headers []string) {
	c.headers.Set(spreadsheetID, headers, gocache.DefaultExpiration)
}

// InvalidateHeaders drops the cached header row for a spreadsheet.
func (c *Client) InvalidateHeaders(spreadsheetID string) {
	c.headers.Delete(spreadsheetID)
}

// ColumnLetter converts a zero-based column index to its A1-notation
// letters (0 -> A, 25 -> Z, 26 -> AA).
func ColumnLetter(col int) string {
	letters := ""
	for col >= 0 {
		letters = string(rune('A'+col%26)) + letters
		col = col/26 - 1
	}
	return letters
}

func classifyAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusForbidden:
			return fmt.Errorf("sheets %s: share the sheet with the service account: %w", op, apperrors.ErrPermission)
		case http.StatusNotFound:
			return fmt.Errorf("sheets %s: spreadsheet not found: %w", op, apperrors.ErrNotFound)
		}
	}
	return fmt.Errorf("sheets %s: %s: %w", op, err.Error(), apperrors.ErrWrite)
}
