package helpers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenValidator verifies Supabase access tokens, either with the project's
// shared HS256 secret or against the project's published JWKS.
type TokenValidator struct {
	secret []byte
	jwks   *keyfunc.JWKS
}

func NewHMACTokenValidator(secret string) *TokenValidator {
	return &TokenValidator{secret: []byte(secret)}
}

func NewJWKSTokenValidator(ctx context.Context, supabaseURL string) (*TokenValidator, error) {
	jwksURL := fmt.Sprintf("%s/auth/v1/.well-known/jwks.json", strings.TrimRight(supabaseURL, "/"))

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %v", jwksURL, err)
	}
	return &TokenValidator{jwks: jwks}, nil
}

// NewTokenValidator prefers the shared secret when one is configured.
func NewTokenValidator(ctx context.Context, supabaseURL, secret string) (*TokenValidator, error) {
	if secret != "" {
		return NewHMACTokenValidator(secret), nil
	}
	return NewJWKSTokenValidator(ctx, supabaseURL)
}

func (tv *TokenValidator) keyfunc(token *jwt.Token) (interface{}, error) {
	if tv.jwks != nil {
		return tv.jwks.Keyfunc(token)
	}
	return tv.secret, nil
}

func (tv *TokenValidator) methods() []string {
	if tv.jwks != nil {
		return []string{"RS256", "ES256"}
	}
	return []string{"HS256"}
}

// ValidateToken parses and verifies tokenStr. An expired token yields an error
// matching jwt.ErrTokenExpired.
func (tv *TokenValidator) ValidateToken(tokenStr string) (*CustomClaims, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return nil, errors.New("missing token")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, tv.keyfunc, jwt.WithValidMethods(tv.methods()))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

func (tv *TokenValidator) Close() {
	if tv.jwks != nil {
		tv.jwks.EndBackground()
	}
}
