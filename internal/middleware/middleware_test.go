package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/scorecraft/scorecraft-api/internal/helpers"
	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/scorecraft/scorecraft-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/gotrue-go/types"
)

const secret = "super-secret-jwt-token-with-at-least-32-characters"

func init() {
	gin.SetMode(gin.TestMode)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signToken(t *testing.T, email string, expiresIn time.Duration) string {
	t.Helper()
	claims := &helpers.CustomClaims{Role: "authenticated", Email: email}
	claims.Subject = "user-" + email
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(expiresIn))
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

type stubAuth struct {
	refreshed *types.TokenResponse
}

func (s *stubAuth) SignIn(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	return nil, errors.New("not used")
}

func (s *stubAuth) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if s.refreshed == nil || refreshToken != "good-refresh" {
		return nil, errors.New("invalid refresh token")
	}
	return s.refreshed, nil
}

func adminRouter(auth *stubAuth) *gin.Engine {
	admins := services.NewAdminService(auth, []string{"admin@scorecraft.dev"})
	r := gin.New()
	r.Use(AdminAuth(helpers.NewHMACTokenValidator(secret), admins, false, discard()))
	r.GET("/admin/ping", func(c *gin.Context) {
		claims, ok := AdminFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": claims.Email})
	})
	return r
}

func get(r http.Handler, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuth(t *testing.T) {
	r := adminRouter(&stubAuth{})

	w := get(r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, &http.Cookie{Name: AccessTokenCookie, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, &http.Cookie{Name: AccessTokenCookie, Value: signToken(t, "admin@scorecraft.dev", time.Hour)})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@scorecraft.dev")

	w = get(r, &http.Cookie{Name: AccessTokenCookie, Value: signToken(t, "student@uni.edu", time.Hour)})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp models.ApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "AUTH_ERROR", resp.Code)
}

func TestAdminAuthRefreshesExpiredToken(t *testing.T) {
	fresh := &types.TokenResponse{}
	fresh.AccessToken = signToken(t, "admin@scorecraft.dev", time.Hour)
	fresh.RefreshToken = "next-refresh"
	fresh.ExpiresIn = 3600
	r := adminRouter(&stubAuth{refreshed: fresh})

	expired := &http.Cookie{Name: AccessTokenCookie, Value: signToken(t, "admin@scorecraft.dev", -time.Minute)}

	w := get(r, expired, &http.Cookie{Name: RefreshTokenCookie, Value: "good-refresh"})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Header().Values("Set-Cookie")
	require.Len(t, cookies, 2)
	assert.True(t, strings.HasPrefix(cookies[0], AccessTokenCookie+"="+fresh.AccessToken))
	assert.Contains(t, cookies[1], "next-refresh")
	assert.Contains(t, cookies[1], "HttpOnly")

	w = get(r, expired, &http.Cookie{Name: RefreshTokenCookie, Value: "stale"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestIDAndErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), StructuredLogger(discard()), ErrorHandler(discard()))
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("kaboom"))
	})
	r.GET("/handled", func(c *gin.Context) {
		_ = c.Error(errors.New("logged only"))
		c.JSON(http.StatusBadRequest, models.ErrorResponse("bad"))
	})

	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	var resp models.ApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "req-123", resp.RequestID)
	assert.Equal(t, "Internal server error", resp.Error)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/handled", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			assert.True(t, IsBodyTooLarge(err))
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("tiny")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("far too large a body")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
