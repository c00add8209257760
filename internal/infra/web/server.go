// File: internal/infra/web/server.go
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"minerva-beacon/internal/usecase"
)

// Server is the optional local debug surface of the client: health, metrics
// and a read-only view of the Beacon session. It binds loopback only and is
// off unless debug.addr is configured.
type Server struct {
	store  usecase.SessionStore
	log    *zerolog.Logger
	server *http.Server
}

func NewServer(addr string, store usecase.SessionStore, logger *zerolog.Logger) *Server {
	s := &Server{store: store, log: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/debug/beacon", s.handleBeaconState)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("debug server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleBeaconState reports lifecycle flags and pin identifiers. Section
// payloads are deliberately omitted; they can hold founder data.
func (s *Server) handleBeaconState(w http.ResponseWriter, r *http.Request) {
	st := s.store.State()
	pins := make([]map[string]string, 0, len(st.Contexts))
	for _, c := range st.Contexts {
		pins = append(pins, map[string]string{
			"section_id": c.SectionID,
			"title":      c.SectionTitle,
			"type":       string(c.SectionType),
			"subsection": c.Subsection,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"open":       st.Open,
		"minimized":  st.Minimized,
		"session_id": st.SessionID,
		"pins":       pins,
	})
}
