package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/scorecraft/scorecraft-api/internal/export"
	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/scorecraft/scorecraft-api/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestSectionsDispatch(t *testing.T) {
	registry := SectionRegistry{
		SectionMentors: func(c *gin.Context) { c.String(http.StatusOK, "mentors") },
		SectionEvents:  func(c *gin.Context) { c.String(http.StatusOK, "events") },
	}

	w := perform(Sections(registry), http.MethodGet, "/sections/:section", "/sections/mentors", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mentors", w.Body.String())

	w = perform(Sections(registry), http.MethodGet, "/sections/:section", "/sections/core_team", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "UNKNOWN_SECTION", decode[any](t, w).Code)
}

func TestHealth(t *testing.T) {
	w := perform(Health("scorecraft-api"), http.MethodGet, "/health", "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","service":"scorecraft-api"}`, w.Body.String())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: %w: upload", services.ErrTimeout, services.ErrUploadFailed), http.StatusGatewayTimeout, "TIMEOUT"},
		{fmt.Errorf("%w: cloudinary 500", services.ErrUploadFailed), http.StatusBadGateway, "UPLOAD_FAILED"},
		{services.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{services.ErrAuth, http.StatusUnauthorized, "AUTH_ERROR"},
		{models.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{services.ErrRegistrationClosed, http.StatusGone, "REGISTRATION_CLOSED"},
		{export.ErrNothingToExport, http.StatusUnprocessableEntity, "NOTHING_TO_EXPORT"},
		{fmt.Errorf("%w: write", services.ErrVerificationWriteFailed), http.StatusInternalServerError, "VERIFICATION_WRITE_FAILED"},
		{context.Canceled, http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		status, code := statusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	h := func(c *gin.Context) {
		c.Set("request_id", "req-1")
		respondError(c, fmt.Errorf("driver exploded: %w", context.Canceled))
	}
	w := perform(h, http.MethodGet, "/x", "/x", nil, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode[any](t, w)
	assert.Equal(t, "Internal server error", env.Error)
	assert.Equal(t, "INTERNAL", env.Code)
	assert.Contains(t, w.Body.String(), `"request_id":"req-1"`)
}
