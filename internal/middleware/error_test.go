package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/internal/errors"

	"github.com/gin-gonic/gin"
)

func errorRouter(handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", handler)
	return r
}

func getBoom(r *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/boom", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
	return body.Error.Code
}

func TestErrorHandler(t *testing.T) {
	t.Run("app_error_keeps_code_and_status", func(t *testing.T) {
		r := errorRouter(func(c *gin.Context) {
			_ = c.Error(errors.ErrTransactionNotFound)
		})

		rec := getBoom(r)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if code := decodeErrorCode(t, rec); code != "TRANSACTION_NOT_FOUND" {
			t.Errorf("expected TRANSACTION_NOT_FOUND, got %q", code)
		}
	})

	t.Run("unknown_error_masked_as_internal", func(t *testing.T) {
		r := errorRouter(func(c *gin.Context) {
			_ = c.Error(fmt.Errorf("connection refused"))
		})

		rec := getBoom(r)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if code := decodeErrorCode(t, rec); code != "INTERNAL_ERROR" {
			t.Errorf("expected INTERNAL_ERROR, got %q", code)
		}
	})

	t.Run("written_response_left_alone", func(t *testing.T) {
		r := errorRouter(func(c *gin.Context) {
			c.JSON(http.StatusTeapot, gin.H{"ok": false})
			_ = c.Error(errors.ErrInternalServer)
		})

		rec := getBoom(r)
		if rec.Code != http.StatusTeapot {
			t.Fatalf("expected the handler's own status, got %d", rec.Code)
		}
	})

	t.Run("no_errors_no_interference", func(t *testing.T) {
		r := errorRouter(func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		rec := getBoom(r)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
