package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/scorecraft/scorecraft-api/internal/helpers"
	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/scorecraft/scorecraft-api/internal/services"
	"github.com/supabase-community/gotrue-go/types"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	refreshTokenMaxAge = 3600 * 24 * 30
	adminKey           = "admin"
)

type TokenValidator interface {
	ValidateToken(tokenStr string) (*helpers.CustomClaims, error)
}

// SetAuthCookies stores a fresh Supabase session in http-only cookies.
func SetAuthCookies(c *gin.Context, tokenRes *types.TokenResponse, secure bool) {
	maxAge := tokenRes.ExpiresIn
	if maxAge <= 0 {
		maxAge = 3600
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, tokenRes.AccessToken, maxAge, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, tokenRes.RefreshToken, refreshTokenMaxAge, "/", "", secure, true)
}

func ClearAuthCookies(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secure, true)
}

func unauthorized(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, models.CodedErrorResponse("AUTH_ERROR", msg))
}

// AdminAuth admits requests carrying a valid Supabase access token of an
// allowed admin. An expired access token is renewed once with the refresh
// cookie.
func AdminAuth(validator TokenValidator, admins *services.AdminService, secureCookies bool, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AccessTokenCookie)
		if err != nil || token == "" {
			unauthorized(c, http.StatusUnauthorized, "JWT token not found in cookie")
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			if !errors.Is(err, jwt.ErrTokenExpired) {
				unauthorized(c, http.StatusUnauthorized, "Unauthorized access")
				return
			}

			refreshToken, _ := c.Cookie(RefreshTokenCookie)
			tokenRes, refreshErr := admins.Refresh(c.Request.Context(), refreshToken)
			if refreshErr != nil || tokenRes.AccessToken == "" {
				logger.Warn("Token refresh failed", "error", refreshErr)
				ClearAuthCookies(c, secureCookies)
				unauthorized(c, http.StatusUnauthorized, "Token expired and refresh failed")
				return
			}

			claims, err = validator.ValidateToken(tokenRes.AccessToken)
			if err != nil {
				unauthorized(c, http.StatusUnauthorized, "Refreshed token validation failed")
				return
			}
			SetAuthCookies(c, tokenRes, secureCookies)
			logger.Info("Token refreshed successfully", "user_id", claims.UserID(), "expires_in", tokenRes.ExpiresIn)
		}

		if !admins.IsAllowed(claims.Email) {
			logger.Warn("Non-admin account rejected", "user_id", claims.UserID(), "email", claims.NormalizedEmail())
			unauthorized(c, http.StatusForbidden, services.ErrForbidden.Error())
			return
		}

		c.Set(adminKey, claims)
		c.Next()
	}
}

// AdminFromContext returns the claims AdminAuth stored for this request.
func AdminFromContext(c *gin.Context) (*helpers.CustomClaims, bool) {
	v, ok := c.Get(adminKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*helpers.CustomClaims)
	return claims, ok
}
