package handlers

import (
	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondValidationErrors rejects a request with field-level validation errors.
func respondValidationErrors(c *gin.Context, status int, errs []ValidationError, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  errs,
	})
}
