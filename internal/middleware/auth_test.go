package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(secret string) *gin.Engine {
	r := gin.New()
	r.GET("/protected", RequireUnlock(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session_id": c.GetString(ContextKeySessionID)})
	})
	return r
}

func request(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireUnlock(t *testing.T) {
	t.Run("valid_token_passes", func(t *testing.T) {
		token, err := IssueUnlockToken("secret", "session-1", time.Hour)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		rec := request(protectedRouter("secret"), token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing_token_rejected", func(t *testing.T) {
		rec := request(protectedRouter("secret"), "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("wrong_secret_rejected", func(t *testing.T) {
		token, err := IssueUnlockToken("other-secret", "session-1", time.Hour)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		rec := request(protectedRouter("secret"), token)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("expired_token_rejected", func(t *testing.T) {
		token, err := IssueUnlockToken("secret", "session-1", -time.Minute)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		rec := request(protectedRouter("secret"), token)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("malformed_token_rejected", func(t *testing.T) {
		rec := request(protectedRouter("secret"), "not-a-jwt")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
