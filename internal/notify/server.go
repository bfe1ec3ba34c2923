package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jorge-barreto/mesh/internal/metrics"
	"github.com/jorge-barreto/mesh/internal/role"
	"github.com/jorge-barreto/mesh/internal/state"
)

const maxBodyBytes = 4 << 20

// DispatchFunc receives a validated notification. It must return quickly;
// the HTTP handler has already acknowledged by the time processing happens.
type DispatchFunc func(Notification)

// Server is a role's notification listener. It acknowledges pushes
// immediately and hands them to the dispatch callback; it also serves the
// role's status, artifact listing, and metrics.
type Server struct {
	Role      role.Role
	Project   string
	OutputDir string
	Dispatch  DispatchFunc

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// Start binds addr and serves in the background. The returned error covers
// bind failures only; serve errors after startup are logged via the standard
// error stream by the caller's lifecycle handling.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("notify: server already started")
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("notify: listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/notify", s.handleNotify)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/artifacts", s.handleArtifacts)
	mux.Handle("/metrics", metrics.Handler())

	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if ctx != nil {
		server.BaseContext = func(net.Listener) context.Context { return ctx }
	}

	s.listener = listener
	s.server = server
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("notify: serve error: %v\n", err)
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	s.server = nil
	s.listener = nil
	return err
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	var n Notification
	if err := json.NewDecoder(body).Decode(&n); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if err := n.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	metrics.NotificationsReceived.WithLabelValues("push").Inc()
	if s.Dispatch != nil {
		s.Dispatch(n)
	}
	// Acknowledge unconditionally: processing is decoupled from delivery.
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": string(s.Role),
		"status":  "running",
		"project": s.Project,
	})
}

func (s *Server) handleArtifacts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	artifacts, err := state.ListArtifacts(s.OutputDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if artifacts == nil {
		artifacts = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service":   string(s.Role),
		"artifacts": artifacts,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
