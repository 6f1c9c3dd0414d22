package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret-key-12345"
	testOperator = "ops@example.com"
)

func TestGenerateAccessToken(t *testing.T) {
	t.Run("Successfully generate access token", func(t *testing.T) {
		token, err := GenerateAccessToken(testOperator, RoleUser, testSecret)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("Fail with empty secret", func(t *testing.T) {
		token, err := GenerateAccessToken(testOperator, RoleUser, "")

		assert.Equal(t, ErrEmptyJWTSecret, err)
		assert.Empty(t, token)
	})

	t.Run("Fail with unknown role", func(t *testing.T) {
		token, err := GenerateAccessToken(testOperator, "moderator", testSecret)

		assert.Equal(t, ErrUnknownRole, err)
		assert.Empty(t, token)
	})

	t.Run("Token contains correct claims", func(t *testing.T) {
		token, err := GenerateAccessToken(testOperator, RoleAdmin, testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)

		assert.Equal(t, testOperator, claims.Subject)
		assert.Equal(t, RoleAdmin, claims.Role)
		assert.Equal(t, "access", claims.TokenType)
		assert.Equal(t, jwtIssuer, claims.Issuer)
		assert.Contains(t, claims.Audience, jwtAudience)
	})
}

func TestGenerateTokens(t *testing.T) {
	accessSecret := "access-secret"
	refreshSecret := "refresh-secret"

	t.Run("Successfully generate both tokens", func(t *testing.T) {
		accessToken, refreshToken, err := GenerateTokens(testOperator, RoleUser, accessSecret, refreshSecret)

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.NotEqual(t, accessToken, refreshToken)
	})

	t.Run("Fail with empty refresh secret", func(t *testing.T) {
		accessToken, refreshToken, err := GenerateTokens(testOperator, RoleUser, accessSecret, "")

		assert.Error(t, err)
		assert.Empty(t, accessToken)
		assert.Empty(t, refreshToken)
	})
}

func TestValidateToken(t *testing.T) {
	t.Run("Fail with wrong secret", func(t *testing.T) {
		token, _ := GenerateAccessToken(testOperator, RoleUser, testSecret)

		claims, err := ValidateToken(token, "wrong-secret")

		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Fail with empty secret", func(t *testing.T) {
		claims, err := ValidateToken("whatever", "")

		assert.Equal(t, ErrEmptyJWTSecret, err)
		assert.Nil(t, claims)
	})

	t.Run("Fail with invalid token format", func(t *testing.T) {
		claims, err := ValidateToken("invalid.token.format", testSecret)

		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Fail with expired token", func(t *testing.T) {
		pastTime := time.Now().Add(-time.Hour)
		claims := &JWTClaims{
			Role:      RoleUser,
			TokenType: "access",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   testOperator,
				Issuer:    jwtIssuer,
				Audience:  []string{jwtAudience},
				ExpiresAt: jwt.NewNumericDate(pastTime),
				IssuedAt:  jwt.NewNumericDate(pastTime.Add(-15 * time.Minute)),
			},
		}
		tokenString, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))

		validated, err := ValidateToken(tokenString, testSecret)

		assert.Equal(t, ErrTokenExpired, err)
		assert.Nil(t, validated)
	})

	t.Run("Fail with foreign issuer", func(t *testing.T) {
		claims := &JWTClaims{
			Role:      RoleAdmin,
			TokenType: "access",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   testOperator,
				Issuer:    "someone-else",
				Audience:  []string{jwtAudience},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		tokenString, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))

		validated, err := ValidateToken(tokenString, testSecret)

		assert.Error(t, err)
		assert.Nil(t, validated)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	accessSecret := "access-secret"
	refreshSecret := "refresh-secret"

	t.Run("Successfully refresh access token", func(t *testing.T) {
		refreshToken, _ := GenerateRefreshToken(testOperator, RoleAdmin, refreshSecret)

		newAccessToken, claims, err := RefreshAccessToken(refreshToken, refreshSecret, accessSecret)
		require.NoError(t, err)
		assert.Equal(t, testOperator, claims.Subject)

		accessClaims, err := ValidateToken(newAccessToken, accessSecret)
		require.NoError(t, err)
		assert.Equal(t, "access", accessClaims.TokenType)
		assert.Equal(t, RoleAdmin, accessClaims.Role)
	})

	t.Run("Fail with access token instead of refresh token", func(t *testing.T) {
		accessToken, _ := GenerateAccessToken(testOperator, RoleUser, accessSecret)

		newAccessToken, claims, err := RefreshAccessToken(accessToken, accessSecret, accessSecret)

		assert.Equal(t, ErrInvalidTokenType, err)
		assert.Empty(t, newAccessToken)
		assert.Nil(t, claims)
	})
}

func TestTokenExpiration(t *testing.T) {
	tests := []struct {
		name     string
		generate func(string, string, string) (string, error)
		ttl      time.Duration
	}{
		{"Access token expires after 15 minutes", GenerateAccessToken, AccessTokenTTL},
		{"Refresh token expires after 7 days", GenerateRefreshToken, RefreshTokenTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.generate(testOperator, RoleUser, testSecret)
			require.NoError(t, err)

			claims, err := ValidateToken(token, testSecret)
			require.NoError(t, err)

			diff := claims.ExpiresAt.Time.Sub(time.Now().Add(tt.ttl)).Abs()
			assert.Less(t, diff, 2*time.Second)
		})
	}
}
