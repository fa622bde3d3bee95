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
	"github.com/thebell/bellstaff-backend/internal/models"
	"github.com/thebell/bellstaff-backend/pkg/jwt"
)

func newJWTService() *jwt.Service {
	return jwt.NewService("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
}

func setupRouter(jwtService *jwt.Service, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := []gin.HandlerFunc{AuthMiddleware(jwtService)}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		userCtx, _ := GetUserContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userCtx.UserID, "role": userCtx.Role})
	})

	router.GET("/protected", handlers...)
	return router
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := newJWTService()
	router := setupRouter(jwtService)

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "MISSING_AUTH_HEADER")
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
	})

	t.Run("invalid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("valid token passes with context", func(t *testing.T) {
		userID := uuid.New()
		hotelID := uuid.New()
		token, err := jwtService.GenerateAccessToken(userID, "carlos@thebell.example", "bellman", hotelID.String())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := jwt.NewService("access-secret", "refresh-secret", -time.Hour, 24*time.Hour)
		token, err := expired.GenerateAccessToken(uuid.New(), "carlos@thebell.example", "bellman", "")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	jwtService := newJWTService()
	router := setupRouter(jwtService, RequireRole(models.RoleManager, models.RoleAdmin))

	makeRequest := func(role string) *httptest.ResponseRecorder {
		token, _ := jwtService.GenerateAccessToken(uuid.New(), "x@thebell.example", role, uuid.New().String())
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("allowed role", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, makeRequest("manager").Code)
	})

	t.Run("forbidden role", func(t *testing.T) {
		w := makeRequest("bellman")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "INSUFFICIENT_PERMISSIONS")
	})
}

func TestRequireSuperAdmin(t *testing.T) {
	jwtService := newJWTService()
	router := setupRouter(jwtService, RequireSuperAdmin())

	t.Run("admin without hotel scope passes", func(t *testing.T) {
		token, _ := jwtService.GenerateAccessToken(uuid.New(), "root@thebell.example", "admin", "")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("hotel-scoped admin is rejected", func(t *testing.T) {
		token, _ := jwtService.GenerateAccessToken(uuid.New(), "gm@thebell.example", "admin", uuid.New().String())
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestQueueSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("header wins", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set(QueueSessionHeader, "desk-42")

		assert.Equal(t, "desk-42", QueueSession(c))
	})

	t.Run("falls back to user scope", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		userID := uuid.New()
		c.Set(UserContextKey, UserContext{UserID: userID})

		assert.Equal(t, "user:"+userID.String(), QueueSession(c))
	})
}
