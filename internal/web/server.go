// Package web exposes the bot's small HTTP surface: a liveness page, a
// token-guarded test message endpoint, manual evaluation triggers, and
// Prometheus metrics.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"fx-signal-bot/internal/engine"
	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/metrics"
	"fx-signal-bot/internal/notify"
)

type Server struct {
	eng   *engine.Engine
	sink  notify.Notifier
	token string
	srv   *http.Server
}

func NewServer(addr string, eng *engine.Engine, sink notify.Notifier, token string) *Server {
	s := &Server{eng: eng, sink: sink, token: token}
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/test", s.handleTest).Methods(http.MethodGet)
	r.HandleFunc("/trigger/open", s.handleTriggerOpen).Methods(http.MethodPost)
	r.HandleFunc("/trigger/close", s.handleTriggerClose).Methods(http.MethodPost)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Start serves in a background goroutine until Shutdown.
func (s *Server) Start(ctx context.Context) {
	go func() {
		logger.Info(ctx, "Web server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ErrorWithErr(ctx, "Web server failed", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) authorized(r *http.Request) bool {
	if s.token == "" {
		return false
	}
	got := r.URL.Query().Get("token")
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) == 1
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Status string `json:"status"`
		engine.Health
	}{Status: "ok", Health: s.eng.Health()})
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if _, err := s.sink.Send(r.Context(), "🔧 Test message: the bot is alive."); err != nil {
		logger.ErrorWithErr(r.Context(), "Test message failed", err)
		http.Error(w, "delivery failed", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("sent"))
}

func (s *Server) handleTriggerOpen(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	s.eng.EvaluateOpens(r.Context())
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte("open evaluation done"))
}

func (s *Server) handleTriggerClose(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	s.eng.EvaluateCloses(r.Context())
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte("close evaluation done"))
}
