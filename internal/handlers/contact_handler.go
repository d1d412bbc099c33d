package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formrelay/formrelay-api/internal/models"
	"github.com/formrelay/formrelay-api/internal/services"
)

type ContactHandler struct {
	service services.SubmissionServiceInterface
}

func NewContactHandler(service services.SubmissionServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

// SubmitContactForm handles POST /api/v1/contact/submit. The body is an
// arbitrary JSON object; only the email field is required. Side-effect
// failures never reject the submission, they are reported inside the 200
// response body.
func (h *ContactHandler) SubmitContactForm(c *gin.Context) {
	sub, ok := h.bindSubmission(c)
	if !ok {
		return
	}

	result := h.service.HandleSubmission(c.Request.Context(), sub, models.SendOverrides{})
	c.JSON(http.StatusOK, result)
}

// SubmitContactFormDynamic handles POST /api/v1/contact/submit/dynamic.
// Query parameters override the configured recipient, reply-to, webhook
// and sheet link for this one request.
func (h *ContactHandler) SubmitContactFormDynamic(c *gin.Context) {
	overrides := models.SendOverrides{
		RecipientEmail:  c.Query("recipientEmail"),
		SenderEmail:     c.Query("senderEmail"),
		WebhookURL:      c.Query("webhookUrl"),
		GoogleSheetLink: c.Query("googleSheetLink"),
	}
	if errs := validateOverrides(overrides); len(errs) > 0 {
		respondValidationErrors(c, http.StatusBadRequest, errs, nil)
		return
	}

	sub, ok := h.bindSubmission(c)
	if !ok {
		return
	}

	result := h.service.HandleSubmission(c.Request.Context(), sub, overrides)
	c.JSON(http.StatusOK, result)
}

func (h *ContactHandler) bindSubmission(c *gin.Context) (models.Submission, bool) {
	var sub models.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}

	if err := sub.Validate(); err != nil {
		respondValidationErrors(c, http.StatusBadRequest, []ValidationError{
			{Field: "email", Message: validationMessage(err)},
		}, err)
		return nil, false
	}

	return sub, true
}
