package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/scorecraft/scorecraft-api/internal/export"
	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/scorecraft/scorecraft-api/internal/services"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// Order matters: a timed-out upload is reported as a timeout.
var errorMappings = []errorMapping{
	{services.ErrTimeout, http.StatusGatewayTimeout, "TIMEOUT"},
	{services.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{services.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{services.ErrAuth, http.StatusUnauthorized, "AUTH_ERROR"},
	{services.ErrEventNotFound, http.StatusNotFound, "EVENT_NOT_FOUND"},
	{services.ErrRegistrationNotFound, http.StatusNotFound, "REGISTRATION_NOT_FOUND"},
	{models.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{services.ErrRegistrationClosed, http.StatusGone, "REGISTRATION_CLOSED"},
	{services.ErrCapacityExceeded, http.StatusConflict, "CAPACITY_EXCEEDED"},
	{services.ErrAlreadyVerified, http.StatusConflict, "ALREADY_VERIFIED"},
	{services.ErrPaymentProofRequired, http.StatusUnprocessableEntity, "PAYMENT_PROOF_REQUIRED"},
	{export.ErrNothingToExport, http.StatusUnprocessableEntity, "NOTHING_TO_EXPORT"},
	{services.ErrUploadFailed, http.StatusBadGateway, "UPLOAD_FAILED"},
	{services.ErrVerificationWriteFailed, http.StatusInternalServerError, "VERIFICATION_WRITE_FAILED"},
	{services.ErrPersistence, http.StatusInternalServerError, "PERSISTENCE_ERROR"},
}

func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// respondError writes the error envelope. Server-side failures are also
// attached to the context so ErrorHandler logs them.
func respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		if code == "INTERNAL" {
			msg = "Internal server error"
		}
	}
	resp := models.CodedErrorResponse(code, msg)
	resp.RequestID = c.GetString("request_id")
	c.JSON(status, resp)
}

// pathID normalizes an id path parameter: clients sometimes send it quoted.
func pathID(c *gin.Context, name string) (string, bool) {
	id := strings.Trim(strings.TrimSpace(c.Param(name)), "\"'")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.CodedErrorResponse("INVALID_INPUT", name+" is required"))
		return "", false
	}
	return id, true
}
