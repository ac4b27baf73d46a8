// Package web serves the generated calendar file in daemon mode so that a
// phone or calendar app can subscribe directly to the exported schedule.
package web

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	appLog "sigacal/internal/log"
)

// Server exposes /health and the calendar document.
type Server struct {
	calendarPath string
	mux          *http.ServeMux
}

// NewServer constructs a Server for the calendar file at calendarPath.
func NewServer(calendarPath string) *Server {
	s := &Server{
		calendarPath: calendarPath,
		mux:          http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/"+filepath.Base(calendarPath), s.handleCalendar)
	s.mux.HandleFunc("/", s.handleCalendar)

	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.calendarPath)
	if err != nil {
		http.Error(w, "calendar not generated yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	_, _ = w.Write(data)
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start runs the HTTP server until ctx is canceled.
func (s *Server) Start(ctx context.Context, listen string) error {
	srv := &http.Server{
		Addr:              listen,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("http server listening", "listen", listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
