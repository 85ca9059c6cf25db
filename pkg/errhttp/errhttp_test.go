package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/liverylab/catalog/pkg/auth"
	liverydomain "github.com/liverylab/catalog/services/livery/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrLiveryNotFound", liverydomain.ErrLiveryNotFound, http.StatusNotFound},
		{"ErrLiveryAlreadyExists", liverydomain.ErrLiveryAlreadyExists, http.StatusConflict},
		{"ErrInvalidLivery", liverydomain.ErrInvalidLivery, http.StatusUnprocessableEntity},
		{"ErrInvalidFilter", liverydomain.ErrInvalidFilter, http.StatusBadRequest},
		{"ErrStaleCursor", liverydomain.ErrStaleCursor, http.StatusGone},
		{"ErrOwnerIDNotFound", auth.ErrOwnerIDNotFound, http.StatusUnauthorized},
		{"wrapped ErrLiveryNotFound", fmt.Errorf("get livery: %w", liverydomain.ErrLiveryNotFound), http.StatusNotFound},
		{"wrapped ErrInvalidLivery", fmt.Errorf("%w: too long", liverydomain.ErrInvalidLivery), http.StatusUnprocessableEntity},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestWriteError_JSONBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, liverydomain.ErrLiveryNotFound)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Fatal("response body missing 'error' key")
	}
}

func TestWriteError_ContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, liverydomain.ErrLiveryNotFound)

	ct := w.Header().Get("Content-Type")
	if ct == "" {
		t.Fatal("Content-Type header not set")
	}
}

func TestWriteErrorSafe(t *testing.T) {
	internal := fmt.Errorf("range query liveries: %w", errors.New("dial tcp 10.0.0.5:5432: refused"))
	tests := []struct {
		name         string
		err          error
		isProduction bool
		wantMessage  string
	}{
		{"production hides 5xx detail", internal, true, http.StatusText(http.StatusInternalServerError)},
		{"development keeps detail", internal, false, internal.Error()},
		{"production keeps 4xx detail", liverydomain.ErrLiveryNotFound, true, liverydomain.ErrLiveryNotFound.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteErrorSafe(w, tt.err, tt.isProduction)

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("response body is not valid JSON: %v", err)
			}
			if body["error"] != tt.wantMessage {
				t.Fatalf("expected message %q, got %q", tt.wantMessage, body["error"])
			}
		})
	}
}
