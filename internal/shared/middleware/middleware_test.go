package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinebook/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-session-secret"

func testAuthConfig() *config.Config {
	return &config.Config{
		Clerk: config.ClerkConfig{JWTSecret: testJWTSecret},
	}
}

func signSessionToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func setupAuthRouter(cfg *config.Config, captured *map[string]string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", ClerkAuthWithConfig(cfg), func(c *gin.Context) {
		(*captured)["user_id"] = c.GetString("user_id")
		(*captured)["user_role"] = c.GetString("user_role")
		c.Status(http.StatusOK)
	})
	router.GET("/admin", ClerkAuthWithConfig(cfg), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestClerkAuth(t *testing.T) {
	t.Run("extracts subject and role from a valid token", func(t *testing.T) {
		captured := map[string]string{}
		router := setupAuthRouter(testAuthConfig(), &captured)

		token := signSessionToken(t, jwt.MapClaims{"sub": "user_2abc", "role": "admin"})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user_2abc", captured["user_id"])
		assert.Equal(t, "admin", captured["user_role"])
	})

	t.Run("downgrades an unknown role claim to user", func(t *testing.T) {
		captured := map[string]string{}
		router := setupAuthRouter(testAuthConfig(), &captured)

		token := signSessionToken(t, jwt.MapClaims{"sub": "user_2abc", "role": "superuser"})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user", captured["user_role"])
	})

	t.Run("defaults to user when the role claim is missing", func(t *testing.T) {
		captured := map[string]string{}
		router := setupAuthRouter(testAuthConfig(), &captured)

		token := signSessionToken(t, jwt.MapClaims{"sub": "user_2abc"})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user", captured["user_role"])
	})

	t.Run("rejects a missing authorization header", func(t *testing.T) {
		captured := map[string]string{}
		router := setupAuthRouter(testAuthConfig(), &captured)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		captured := map[string]string{}
		router := setupAuthRouter(testAuthConfig(), &captured)

		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "user_2abc",
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("some-other-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("forbids a plain user", func(t *testing.T) {
		captured := map[string]string{}
		router := setupAuthRouter(testAuthConfig(), &captured)

		token := signSessionToken(t, jwt.MapClaims{"sub": "user_2abc", "role": "user"})
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("forbids a made-up role that is not a real admin", func(t *testing.T) {
		captured := map[string]string{}
		router := setupAuthRouter(testAuthConfig(), &captured)

		token := signSessionToken(t, jwt.MapClaims{"sub": "user_2abc", "role": "root"})
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admits an admin", func(t *testing.T) {
		captured := map[string]string{}
		router := setupAuthRouter(testAuthConfig(), &captured)

		token := signSessionToken(t, jwt.MapClaims{"sub": "user_2abc", "role": "admin"})
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
