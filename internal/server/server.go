// Package server is the demo values API the benchmark calls: GET returns a
// static JSON payload, POST accepts a body and discards it.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wesleyorama2/apibench/internal/model"
)

// ValuesPath is where the values resource is served.
const ValuesPath = "/api/values"

// Server serves a fixed payload on ValuesPath.
type Server struct {
	payload []byte
	logger  zerolog.Logger
}

// New creates a server answering GET with payload.
func New(payload []byte, logger zerolog.Logger) *Server {
	return &Server{payload: payload, logger: logger}
}

// LoadPayload reads a payload file and checks it against the record schema.
// An empty path returns the embedded fixture.
func LoadPayload(path string) ([]byte, error) {
	if path == "" {
		return model.Fixture(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading payload file: %w", err)
	}
	if err := model.Validate(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// Handler returns the HTTP handler with request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(ValuesPath, s.handleValues)
	return s.loggingMiddleware(mux)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Str("path", ValuesPath).Int("payload_bytes", len(s.payload)).Msg("serving values")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleValues(w http.ResponseWriter, r *http.Request) {
	if status, ok := simulatedStatus(r); ok {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		io.WriteString(w, http.StatusText(status))
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		w.Header().Set("Content-Type", "application/json")
		http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(s.payload))
	case http.MethodPost:
		n, err := io.Copy(io.Discard, r.Body)
		if err != nil {
			s.logger.Debug().Err(err).Msg("reading request body")
		}
		s.logger.Debug().Int64("bytes", n).Msg("discarded posted body")
		w.WriteHeader(http.StatusOK)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

// simulatedStatus lets callers request a failure with ?status=NNN.
func simulatedStatus(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return 0, false
	}
	status, err := strconv.Atoi(raw)
	if err != nil || status < 200 || status > 599 {
		return 0, false
	}
	return status, true
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware tags each request with an id and logs its outcome
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("handled request")
	})
}
