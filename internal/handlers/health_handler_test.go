package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formrelay/formrelay-api/config"
)

func TestHealthHandler_Healthcheck(t *testing.T) {
	handler := NewHealthHandler(&config.Config{})
	router := gin.New()
	router.GET("/api/healthcheck", handler.Healthcheck)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/healthcheck", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_ContactHealth_ChannelFlags(t *testing.T) {
	cfg := &config.Config{
		Email: config.EmailConfig{
			Host:      "smtp.example.com",
			Port:      587,
			User:      "relay@example.com",
			Pass:      "secret",
			Recipient: "admin@example.com",
		},
		GoogleSheets: config.GoogleSheetsConfig{
			SheetURL:   "https://docs.google.com/spreadsheets/d/abc/edit",
			WebhookURL: "https://script.google.com/macros/s/XYZ/exec",
		},
	}

	handler := NewHealthHandler(cfg)
	router := gin.New()
	router.GET("/api/v1/contact/health", handler.ContactHealth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contact/health", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool `json:"success"`
		Channels struct {
			Email                bool `json:"email"`
			GoogleSheets         bool `json:"googleSheets"`
			SheetsServiceAccount bool `json:"sheetsServiceAccount"`
			SheetsWebhook        bool `json:"sheetsWebhook"`
		} `json:"channels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Channels.Email)
	assert.True(t, resp.Channels.GoogleSheets)
	assert.False(t, resp.Channels.SheetsServiceAccount)
	assert.True(t, resp.Channels.SheetsWebhook)
}

func TestHealthHandler_ContactHealth_NothingConfigured(t *testing.T) {
	handler := NewHealthHandler(&config.Config{})
	router := gin.New()
	router.GET("/api/v1/contact/health", handler.ContactHealth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contact/health", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Channels map[string]bool `json:"channels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for channel, configured := range resp.Channels {
		assert.False(t, configured, channel)
	}
}
