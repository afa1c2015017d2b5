// Package server exposes notes and PDF rendering over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gompdf/notepdf/internal/auth"
	"github.com/gompdf/notepdf/internal/config"
	"github.com/gompdf/notepdf/internal/notes"
	"github.com/gompdf/notepdf/pkg/api"
)

// NoteStore is the persistence the server needs
type NoteStore interface {
	Create(ctx context.Context, n *notes.Note) error
	Get(ctx context.Context, id int64) (*notes.Note, error)
	List(ctx context.Context) ([]*notes.Note, error)
	Update(ctx context.Context, n *notes.Note) error
	Delete(ctx context.Context, id int64) error
	Backup(ctx context.Context, w io.Writer) (int64, error)
	BackupFileName() string
}

// Renderer turns a record into PDF bytes
type Renderer interface {
	Render(rec api.Record, w io.Writer) (*api.Result, error)
}

// Server serves the notes API
type Server struct {
	store    NoteStore
	renderer Renderer
	auth     *auth.Manager
	conf     config.ServerConfig
	handler  http.Handler
}

// New wires the routes. A nil manager disables authentication.
func New(store NoteStore, renderer Renderer, manager *auth.Manager, conf config.ServerConfig) *Server {
	s := &Server{
		store:    store,
		renderer: renderer,
		auth:     manager,
		conf:     conf,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/session", s.handleSession)

	mux.HandleFunc("GET /api/notes", s.handleListNotes)
	mux.HandleFunc("POST /api/notes", s.handleCreateNote)
	mux.HandleFunc("GET /api/notes/{id}", s.handleGetNote)
	mux.HandleFunc("PUT /api/notes/{id}", s.handleUpdateNote)
	mux.HandleFunc("DELETE /api/notes/{id}", s.handleDeleteNote)
	mux.HandleFunc("GET /api/notes/{id}/pdf", s.handleNotePDF)
	mux.HandleFunc("POST /api/render", s.handleRender)

	mux.HandleFunc("GET /api/admin/backup", requireAdmin(s.handleBackup))

	s.handler = Chain(mux,
		RecoveryMiddleware,
		LoggingMiddleware,
		AuthMiddleware(manager, "/healthz", "/api/login"),
	)
	return s
}

// Handler returns the root handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.conf.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.conf.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener. Request contexts keep the values of
// ctx but not its cancellation, so in-flight requests drain during shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.conf.ReadTimeout,
		WriteTimeout: s.conf.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.conf.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Printf("[INFO] shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
