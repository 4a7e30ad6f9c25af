package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scorecraft/scorecraft-api/internal/middleware"
	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/scorecraft/scorecraft-api/internal/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin signs an admin in and stores the session in http-only cookies.
func AdminLogin(as *services.AdminService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, badBody(err))
			return
		}

		tokenRes, err := as.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		middleware.SetAuthCookies(c, tokenRes, secureCookies)
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"email":      tokenRes.User.Email,
			"expires_in": tokenRes.ExpiresIn,
		}, "Logged in successfully"))
	}
}

// Logout handler
func Logout(secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.ClearAuthCookies(c, secureCookies)
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Logged out successfully"))
	}
}

// CurrentAdmin reports who is signed in.
func CurrentAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.AdminFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.CodedErrorResponse("AUTH_ERROR", "Unauthorized"))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"user_id": claims.UserID(),
			"email":   claims.NormalizedEmail(),
		}, ""))
	}
}
