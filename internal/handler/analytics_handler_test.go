package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/service"
)

func TestAnalyticsHandler_Track_Success(t *testing.T) {
	var gotType string
	var gotData json.RawMessage
	h := NewAnalyticsHandler(&mockAnalyticsService{
		trackFunc: func(ctx context.Context, eventType string, data json.RawMessage, meta model.RequestMeta) error {
			gotType, gotData = eventType, data
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/analytics",
		strings.NewReader(`{"event_type":"page_view","event_data":{"page":"/about"}}`))
	rec := httptest.NewRecorder()
	h.Track(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); !env.Success || env.Message != "Analytics event recorded" {
		t.Errorf("envelope = %+v", env)
	}
	if gotType != "page_view" || string(gotData) != `{"page":"/about"}` {
		t.Errorf("got %q %s", gotType, gotData)
	}
}

func TestAnalyticsHandler_Track_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"no body", ``, nil, http.StatusBadRequest, "Event type is required"},
		{"missing type", `{"event_data":{}}`, &service.ValidationError{Message: "Event type is required"}, http.StatusBadRequest, "Event type is required"},
		{"store failure", `{"event_type":"click"}`, errors.New("locked"), http.StatusInternalServerError, "Failed to record analytics event"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAnalyticsHandler(&mockAnalyticsService{
				trackFunc: func(ctx context.Context, eventType string, data json.RawMessage, meta model.RequestMeta) error {
					return tt.err
				},
			})
			req := httptest.NewRequest(http.MethodPost, "/api/analytics", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Track(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if env := decodeEnvelope(t, rec); env.Message != tt.wantMsg {
				t.Errorf("message = %q", env.Message)
			}
		})
	}
}
