package services_test

import (
	"context"
	"io"
	"net/http"

	"github.com/stretchr/testify/mock"
	"github.com/wneessen/go-mail"

	"github.com/formrelay/formrelay-api/internal/models"
)

// MockMailTransport is a mock implementation of services.MailTransport
type MockMailTransport struct {
	mock.Mock

	sent []*mail.Msg
}

func (m *MockMailTransport) Send(ctx context.Context, msg *mail.Msg) error {
	m.sent = append(m.sent, msg)
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMailTransport) Sender() string {
	args := m.Called()
	return args.String(0)
}

// MockSheetsAPI is a mock implementation of services.SheetsAPI
type MockSheetsAPI struct {
	mock.Mock
}

func (m *MockSheetsAPI) ReadHeaders(ctx context.Context, spreadsheetID, sheetName string) ([]string, error) {
	args := m.Called(ctx, spreadsheetID, sheetName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSheetsAPI) WriteHeaders(ctx context.Context, spreadsheetID, sheetName string, startCol int, headers []string) error {
	args := m.Called(ctx, spreadsheetID, sheetName, startCol, headers)
	return args.Error(0)
}

func (m *MockSheetsAPI) AppendRow(ctx context.Context, spreadsheetID, sheetName string, row []string) error {
	args := m.Called(ctx, spreadsheetID, sheetName, row)
	return args.Error(0)
}

func (m *MockSheetsAPI) CacheHeaders(spreadsheetID string, headers []string) {
	m.Called(spreadsheetID, headers)
}

func (m *MockSheetsAPI) InvalidateHeaders(spreadsheetID string) {
	m.Called(spreadsheetID)
}

// MockHTTPClient is a mock implementation of httpclient.Client
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	args := m.Called(url, contentType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockHTTPClient) Get(url string) (*http.Response, error) {
	args := m.Called(url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

// MockEmailService is a mock implementation of services.EmailServiceInterface
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendAdminNotification(ctx context.Context, sub models.Submission, mirror *models.MirrorOutcome, overrides models.SendOverrides) (string, error) {
	args := m.Called(ctx, sub, mirror, overrides)
	return args.String(0), args.Error(1)
}

func (m *MockEmailService) SendConfirmation(ctx context.Context, sub models.Submission, mirror *models.MirrorOutcome, overrides models.SendOverrides) {
	m.Called(ctx, sub, mirror, overrides)
}

// MockSheetsService is a mock implementation of services.SheetsServiceInterface
type MockSheetsService struct {
	mock.Mock
}

func (m *MockSheetsService) Mirror(ctx context.Context, sheetURL string, overrides models.SendOverrides, sub models.Submission) models.MirrorOutcome {
	args := m.Called(ctx, sheetURL, overrides, sub)
	return args.Get(0).(models.MirrorOutcome)
}
