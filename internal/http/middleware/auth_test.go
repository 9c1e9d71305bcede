package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/creditdesk/backend/internal/auth"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(tokens *auth.TokenManager) *gin.Engine {
	router := gin.New()
	router.GET("/protected", RequireOpsToken(tokens, auth.ScopeIngest), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"operator": c.GetString("operator")})
	})
	return router
}

func request(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireOpsToken(t *testing.T) {
	tokens := auth.NewTokenManager("creditdesk-backend", "creditdesk-ops", "test-secret")
	router := protectedRouter(tokens)

	token, err := tokens.Mint("ops@example.com", auth.ScopeIngest, time.Hour)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	rec := request(router, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestRequireOpsTokenMissingHeader(t *testing.T) {
	tokens := auth.NewTokenManager("creditdesk-backend", "creditdesk-ops", "test-secret")
	router := protectedRouter(tokens)

	if rec := request(router, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireOpsTokenWrongScheme(t *testing.T) {
	tokens := auth.NewTokenManager("creditdesk-backend", "creditdesk-ops", "test-secret")
	router := protectedRouter(tokens)

	if rec := request(router, "Basic abc123"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireOpsTokenWrongScope(t *testing.T) {
	tokens := auth.NewTokenManager("creditdesk-backend", "creditdesk-ops", "test-secret")
	router := protectedRouter(tokens)

	token, err := tokens.Mint("ops@example.com", "reporting", time.Hour)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if rec := request(router, "Bearer "+token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireOpsTokenExpired(t *testing.T) {
	tokens := auth.NewTokenManager("creditdesk-backend", "creditdesk-ops", "test-secret")
	router := protectedRouter(tokens)

	token, err := tokens.Mint("ops@example.com", auth.ScopeIngest, -time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if rec := request(router, "Bearer "+token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}
