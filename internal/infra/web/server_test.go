//go:build !integration

// File: internal/infra/web/server_test.go
package web

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"minerva-beacon/internal/domain/model"
	"minerva-beacon/internal/usecase"
)

func testServer() (*Server, usecase.SessionStore) {
	l := zerolog.Nop()
	store := usecase.NewSessionStore("user-1", "st1", &l)
	return NewServer("127.0.0.1:0", store, &l), usecase.SessionStore(store)
}

func TestHealthz(t *testing.T) {
	s, _ := testServer()
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != 200 || rec.Body.String() != "OK" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := testServer()
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("metrics: %d", rec.Code)
	}
}

func TestDebugBeaconState(t *testing.T) {
	s, store := testServer()
	pin := model.SectionContext{
		SectionID:    "team",
		SectionTitle: "Team",
		SectionType:  model.SectionTeam,
		SectionData:  json.RawMessage(`{"secret":"founder salary data"}`),
	}
	store.Open(&pin)
	store.Minimize()

	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/debug/beacon", nil))
	if rec.Code != 200 {
		t.Fatalf("debug: %d", rec.Code)
	}

	var body struct {
		Open      bool                `json:"open"`
		Minimized bool                `json:"minimized"`
		SessionID string              `json:"session_id"`
		Pins      []map[string]string `json:"pins"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Open || !body.Minimized || body.SessionID == "" {
		t.Fatalf("state: %+v", body)
	}
	if len(body.Pins) != 1 || body.Pins[0]["section_id"] != "team" {
		t.Fatalf("pins: %v", body.Pins)
	}
	// Section payloads never leave the process through this endpoint.
	if strings.Contains(rec.Body.String(), "founder salary data") {
		t.Fatal("debug endpoint leaked section payload")
	}
}