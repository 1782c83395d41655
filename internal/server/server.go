// Package server exposes the conversational agent over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	errx "github.com/procode-bot/server/internal/core/error"

	"github.com/procode-bot/server/internal/agent/graph"
	"github.com/procode-bot/server/internal/agent/model"
	logx "github.com/procode-bot/server/pkg/logger"
)

// DefaultThreadID is used when a chat request carries no thread id.
const DefaultThreadID = "default_user"

const maxRequestBody = 1 << 20 // 1 MiB

// Config holds the HTTP listener settings.
type Config struct {
	Addr         string `envconfig:"HTTP_ADDR" default:":8000"`
	ReadTimeout  int    `envconfig:"HTTP_READ_TIMEOUT" default:"30"`
	WriteTimeout int    `envconfig:"HTTP_WRITE_TIMEOUT" default:"300"`
}

// ChatRequest is the POST /chat payload.
type ChatRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id"`
	FileText string `json:"file_text,omitempty"`
}

// ChatResponse is the POST /chat reply.
type ChatResponse struct {
	Response string `json:"response"`
	PDFPath  string `json:"pdf_path,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server routes chat requests into the conversation graph.
type Server struct {
	cfg    Config
	runner graph.Runner
	http   *http.Server
}

// New builds a Server around a compiled graph runner.
func New(cfg Config, runner graph.Runner) *Server {
	s := &Server{cfg: cfg, runner: runner}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}
	return s
}

// Handler exposes the routed mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks serving HTTP until the listener fails or the context
// is cancelled, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()
	logx.Info().Str("addr", s.cfg.Addr).Msg("HTTP server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req ChatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}
	threadID := req.ThreadID
	if threadID == "" {
		threadID = DefaultThreadID
	}

	res, err := s.runner.Invoke(r.Context(), model.TurnInput{
		ThreadID:       threadID,
		Query:          req.Message,
		AttachmentText: req.FileText,
	})
	if err != nil {
		status := errx.StatusOf(err)
		logx.Error().Err(err).Str("thread_id", threadID).Int("status", status).Msg("Chat turn failed")
		writeJSON(w, status, errorResponse{Error: publicError(err, status)})
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Response: res.Reply, PDFPath: res.PDFPath})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// publicError keeps internal failure detail out of client responses.
func publicError(err error, status int) string {
	var appErr *errx.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if status >= 500 {
		return errx.SystemErrorMessage
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logx.Error().Err(err).Msg("Failed to encode response body")
	}
}
