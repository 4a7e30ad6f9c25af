package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func sign(t *testing.T, secret string, claims *CustomClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func adminClaims(expiresIn time.Duration) *CustomClaims {
	c := &CustomClaims{Role: "authenticated", Email: " Admin@ScoreCraft.dev "}
	c.Subject = "user-1"
	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(expiresIn))
	c.AppMetadata.Roles = []string{"admin"}
	return c
}

func TestValidateToken(t *testing.T) {
	tv := NewHMACTokenValidator(testSecret)
	defer tv.Close()

	claims, err := tv.ValidateToken(sign(t, testSecret, adminClaims(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "admin@scorecraft.dev", claims.NormalizedEmail())
	assert.True(t, claims.HasRole("admin"))
	assert.True(t, claims.HasRole("authenticated"))
	assert.False(t, claims.HasRole("host"))
}

func TestValidateTokenRejects(t *testing.T) {
	tv := NewHMACTokenValidator(testSecret)

	_, err := tv.ValidateToken(sign(t, testSecret, adminClaims(-time.Minute)))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = tv.ValidateToken(sign(t, "some-other-secret-of-reasonable-length!!", adminClaims(time.Hour)))
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = tv.ValidateToken("")
	assert.Error(t, err)

	_, err = tv.ValidateToken("not.a.jwt")
	assert.Error(t, err)
}

func TestTransactionFolder(t *testing.T) {
	assert.Equal(t, "transactions/evt42", TransactionFolder("evt42"))
	assert.Equal(t, "fallback", StringTrim("   ", "fallback"))
	assert.Equal(t, "x", StringTrim(" x ", "fallback"))
}
