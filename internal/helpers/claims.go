package helpers

import (
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims mirrors the access token issued by Supabase GoTrue.
type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
		Roles     []string `json:"roles,omitempty"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

func (c *CustomClaims) UserID() string {
	return c.Subject
}

func (c *CustomClaims) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(c.Email))
}

// HasRole checks both the database role and the roles granted in app metadata.
func (c *CustomClaims) HasRole(role string) bool {
	return c.Role == role || slices.Contains(c.AppMetadata.Roles, role)
}
