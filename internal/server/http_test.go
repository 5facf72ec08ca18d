package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Satvik374/Study-App/internal/config"
)

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name            string
		allowed         []string
		method          string
		origin          string
		wantStatus      int
		wantAllowOrigin string
	}{
		{
			name:            "preflight from an allowed origin",
			allowed:         []string{"http://localhost:3000"},
			method:          http.MethodOptions,
			origin:          "http://localhost:3000",
			wantStatus:      http.StatusNoContent,
			wantAllowOrigin: "http://localhost:3000",
		},
		{
			name:       "request from another origin",
			allowed:    []string{"http://localhost:3000"},
			method:     http.MethodPost,
			origin:     "https://evil.example",
			wantStatus: http.StatusTeapot,
		},
		{
			name:            "wildcard",
			allowed:         []string{"*"},
			method:          http.MethodPost,
			origin:          "https://study.example",
			wantStatus:      http.StatusTeapot,
			wantAllowOrigin: "https://study.example",
		},
		{
			name:       "no origin",
			allowed:    []string{"*"},
			method:     http.MethodPost,
			wantStatus: http.StatusTeapot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/studyai.v1.StudyService/ComputeDiff", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			corsMiddleware(next, tt.allowed).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAllowOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Connect-Protocol-Version")
		})
	}
}

func TestNewHTTPHandler_UnknownPath(t *testing.T) {
	h, err := NewStudyHandler(nil, config.QuizConfig{HistoryLimit: 10})
	assert.NoError(t, err)

	rec := httptest.NewRecorder()
	NewHTTPHandler(h, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/studyai.v1.StudyService/Unknown", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
