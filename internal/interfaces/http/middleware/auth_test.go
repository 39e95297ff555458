package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdfstore/internal/infrastructure/auth"
	"rdfstore/internal/shared/logger"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService("test-secret")
	mw := NewAuthMiddleware(jwtService, logger.NewLogger())

	router := gin.New()
	router.GET("/protected", mw.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"operator": c.GetString("operator")})
	})
	return router, jwtService
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAdmin_AllowsAdminToken(t *testing.T) {
	router, jwtService := setupAuthRouter(t)

	token, err := jwtService.Generate("ops1", auth.RoleAdmin, time.Hour)
	require.NoError(t, err)

	rec := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ops1")
}

func TestRequireAdmin_MissingHeader(t *testing.T) {
	router, _ := setupAuthRouter(t)

	rec := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin_MalformedHeader(t *testing.T) {
	router, jwtService := setupAuthRouter(t)

	token, err := jwtService.Generate("ops1", auth.RoleAdmin, time.Hour)
	require.NoError(t, err)

	rec := doRequest(router, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin_RejectsNonAdminRole(t *testing.T) {
	router, jwtService := setupAuthRouter(t)

	token, err := jwtService.Generate("someone", "viewer", time.Hour)
	require.NoError(t, err)

	rec := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin_RejectsExpiredToken(t *testing.T) {
	router, jwtService := setupAuthRouter(t)

	token, err := jwtService.Generate("ops1", auth.RoleAdmin, -time.Minute)
	require.NoError(t, err)

	rec := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
