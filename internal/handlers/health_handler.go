package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/formrelay/formrelay-api/config"
)

type HealthHandler struct {
	config *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{config: cfg}
}

// Healthcheck reports process liveness.
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ContactHealth reports which delivery channels are configured. The service
// accepts submissions either way; this endpoint lets operators see why a
// channel is failing per request.
func (h *HealthHandler) ContactHealth(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Contact form API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"channels": gin.H{
			"email":                len(h.config.MissingEmailFields()) == 0,
			"googleSheets":         h.config.SheetsConfigured(),
			"sheetsServiceAccount": h.config.ServiceAccountConfigured(),
			"sheetsWebhook":        h.config.GoogleSheets.WebhookURL != "",
		},
	})
}
