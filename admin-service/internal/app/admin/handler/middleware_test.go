package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func issueToken(t *testing.T, roleName string) string {
	t.Helper()
	claims := &JWTClaims{
		UserID:   "user-123",
		Email:    "admin@example.com",
		RoleName: roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router := setupTestRouter()
	m := NewAuthMiddleware(testSecret)
	router.GET("/protected", m.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router := setupTestRouter()
	m := NewAuthMiddleware(testSecret)
	router.GET("/protected", m.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router := setupTestRouter()
	m := NewAuthMiddleware(testSecret)

	var roleName string
	router.GET("/protected", m.Authenticate(), func(c *gin.Context) {
		role, _ := c.Get("role_name")
		roleName, _ = role.(string)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "manager"))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "manager", roleName)
}

func TestAuthMiddleware_RequireRole_Forbidden(t *testing.T) {
	router := setupTestRouter()
	m := NewAuthMiddleware(testSecret)
	router.DELETE("/protected", m.Authenticate(), m.RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodDelete, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "manager"))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddleware_RequireRole_Allowed(t *testing.T) {
	router := setupTestRouter()
	m := NewAuthMiddleware(testSecret)
	router.POST("/protected", m.Authenticate(), m.RequireRole("manager", "admin"), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "manager"))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

// Email из токена уходит в контекст запроса для журнала действий
func TestAuthMiddleware_ActorInContext(t *testing.T) {
	router := setupTestRouter()
	m := NewAuthMiddleware(testSecret)

	var email string
	router.GET("/protected", m.Authenticate(), func(c *gin.Context) {
		raw, _ := c.Get("email")
		email, _ = raw.(string)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "admin"))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@example.com", email)
}
