package httpx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liverylab/catalog/pkg/httpx"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSON(w, http.StatusCreated, map[string]any{"items": []string{}, "nextCursor": nil})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	require.JSONEq(t, `{"items":[],"nextCursor":null}`, w.Body.String())
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSONError(w, http.StatusGone, "cursor no longer valid")

	require.Equal(t, http.StatusGone, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, "cursor no longer valid", body["error"])
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.NoContent(w)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Zero(t, w.Body.Len())
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"gulf"}`, false},
		{"unknown field", `{"name":"gulf","owner":"x"}`, true},
		{"two objects", `{"name":"a"}{"name":"b"}`, true},
		{"malformed", `{`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := httpx.DecodeJSON(r, &p)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "gulf", p.Name)
		})
	}
}

func TestSafeError(t *testing.T) {
	err := errors.New("pgx: connection refused")
	require.Equal(t, "Internal Server Error", httpx.SafeError(err, http.StatusInternalServerError, true))
	require.Equal(t, "pgx: connection refused", httpx.SafeError(err, http.StatusInternalServerError, false))
	require.Equal(t, "pgx: connection refused", httpx.SafeError(err, http.StatusBadRequest, true))
}
