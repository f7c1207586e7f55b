package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/roadlink/bus-booking-backend/internal/models"
	"github.com/roadlink/bus-booking-backend/pkg/jwt"
)

func setupRouter(jwtService *jwt.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	authed := router.Group("", AuthMiddleware(jwtService))
	authed.GET("/me", func(c *gin.Context) {
		userCtx := MustGetUserContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userCtx.UserID, "role": userCtx.Role})
	})
	authed.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func requestWithToken(t *testing.T, router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)
	router := setupRouter(jwtService)

	t.Run("Valid Token", func(t *testing.T) {
		token, err := jwtService.GenerateToken(uuid.New(), "ama@example.com", "user")
		require.NoError(t, err)

		w := requestWithToken(t, router, "/me", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Missing Header", func(t *testing.T) {
		w := requestWithToken(t, router, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Malformed Header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Expired Token", func(t *testing.T) {
		expired := jwt.NewService("test-secret", -time.Minute)
		token, err := expired.GenerateToken(uuid.New(), "ama@example.com", "user")
		require.NoError(t, err)

		w := requestWithToken(t, router, "/me", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "expired")
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		other := jwt.NewService("other-secret", time.Hour)
		token, err := other.GenerateToken(uuid.New(), "ama@example.com", "user")
		require.NoError(t, err)

		w := requestWithToken(t, router, "/me", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)
	router := setupRouter(jwtService)

	t.Run("Admin Allowed", func(t *testing.T) {
		token, err := jwtService.GenerateToken(uuid.New(), "admin@example.com", "admin")
		require.NoError(t, err)

		w := requestWithToken(t, router, "/admin", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("User Forbidden", func(t *testing.T) {
		token, err := jwtService.GenerateToken(uuid.New(), "ama@example.com", "user")
		require.NoError(t, err)

		w := requestWithToken(t, router, "/admin", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
