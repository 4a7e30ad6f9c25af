package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/scorecraft/scorecraft-api/internal/services"
)

const RelayTokenHeader = "X-Relay-Token"

// SendEmail relays {to, subject, html} through the configured mail
// transport. When relayToken is set, callers must present it in the
// X-Relay-Token header.
func SendEmail(n services.Notifier, relayToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method Not Allowed"})
			return
		}
		if relayToken != "" && subtle.ConstantTimeCompare([]byte(c.GetHeader(RelayTokenHeader)), []byte(relayToken)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		var email models.Email
		if err := c.ShouldBindJSON(&email); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email payload", "error": err.Error()})
			return
		}
		if err := models.Validate.Struct(email); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email payload", "error": err.Error()})
			return
		}

		if err := n.Send(c.Request.Context(), email); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send email"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Email sent successfully"})
	}
}
