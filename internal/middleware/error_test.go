package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "bizledger/internal/errors"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantError string
		wantField string
	}{
		{"app error", apperrors.ErrTransactionNotFound, http.StatusNotFound, "TRANSACTION_NOT_FOUND", ""},
		{"field error", apperrors.ErrRateRequired, http.StatusBadRequest, "INVALID_INPUT", "conversion_rate"},
		{"storage error hides internals", apperrors.Storage(errors.New("pq: connection refused")), http.StatusInternalServerError, "STORAGE_ERROR", ""},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/", func(c *gin.Context) { _ = c.Error(tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, w.Code)
			}
			var body struct {
				Error map[string]string `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("bad body: %v", err)
			}
			if body.Error["code"] != tt.wantError || body.Error["field"] != tt.wantField {
				t.Errorf("unexpected error body %v", body.Error)
			}
			if tt.wantError == "STORAGE_ERROR" && body.Error["message"] == "pq: connection refused" {
				t.Error("internal error leaked to the client")
			}
		})
	}
}
