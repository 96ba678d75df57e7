package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/sitechat"
)

// Retrieval defaults used by the chat endpoint.
const (
	// DefaultTopK bounds how many ranked chunks feed the context.
	DefaultTopK = 8
	// DefaultContextBudget is the maximum context length in characters.
	DefaultContextBudget = 6000
)

// Server serves the chat widget's REST API.
type Server struct {
	Addr   string
	Logger *slog.Logger

	// SiteURL is the default crawl target for POST /crawl.
	SiteURL string

	Store    sitechat.KnowledgeStore
	Crawls   sitechat.CrawlService
	Answerer sitechat.Answerer
	Notifier sitechat.Notifier

	// Handoffs, when set, persists handoff requests before notification.
	Handoffs sitechat.HandoffService

	TopK          int
	ContextBudget int

	srv *http.Server
}

// Handler builds the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /crawl", s.handleCrawl)
	mux.HandleFunc("GET /kb-status", s.handleKBStatus)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /handoff", s.handleHandoff)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return s.logRequests(mux)
}

// ListenAndServe starts the server and blocks until it is shut down.
func (s *Server) ListenAndServe() error {
	s.srv = &http.Server{
		Addr:    s.Addr,
		Handler: s.Handler(),
	}
	s.logger().Info("http server listening", "addr", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

type crawlRequest struct {
	URL string `json:"url"`
}

type crawlResponse struct {
	OK     bool   `json:"ok"`
	Pages  int    `json:"pages,omitempty"`
	Domain string `json:"domain,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleCrawl triggers an immediate crawl of the requested URL, defaulting
// to the configured site.
func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	var req crawlRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, crawlResponse{OK: false, Error: "invalid request body"})
		return
	}

	target := req.URL
	if target == "" {
		target = s.SiteURL
	}
	if target == "" {
		s.writeJSON(w, http.StatusBadRequest, crawlResponse{OK: false, Error: "no crawl URL configured"})
		return
	}

	snap, err := s.Crawls.Refresh(r.Context(), target)
	if err != nil {
		status := errorStatus(sitechat.ErrorCode(err))
		msg := sitechat.ErrorMessage(err)
		if status >= http.StatusInternalServerError {
			s.logger().Error("crawl failed", "url", target, "error", err)
			msg = "crawl failed"
		}
		s.writeJSON(w, status, crawlResponse{OK: false, Error: msg})
		return
	}

	s.writeJSON(w, http.StatusOK, crawlResponse{OK: true, Pages: snap.Pages(), Domain: snap.Origin})
}

type kbStatusResponse struct {
	Pages  int    `json:"pages"`
	Domain string `json:"domain"`
}

// handleKBStatus reports the size of the current knowledge snapshot.
func (s *Server) handleKBStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Store.Current()
	s.writeJSON(w, http.StatusOK, kbStatusResponse{
		Pages:  snap.Pages(),
		Domain: snap.Origin,
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// handleChat answers a visitor question using retrieved site context.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, sitechat.Errorf(sitechat.EINVALID, "invalid request body"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, sitechat.Errorf(sitechat.EINVALID, "message required"))
		return
	}
	if s.Answerer == nil {
		s.writeError(w, sitechat.Errorf(sitechat.EUNAVAILABLE, "chat is not configured"))
		return
	}

	snap := s.Store.Current()
	chunks := sitechat.RankChunks(snap, req.Message, s.topK())
	siteContext := sitechat.BuildContext(chunks, s.contextBudget())

	reply, err := s.Answerer.Answer(r.Context(), req.Message, siteContext)
	if err != nil {
		s.logger().Error("chat completion failed", "error", err)
		s.writeError(w, sitechat.Errorf(sitechat.EINTERNAL, "chat completion failed"))
		return
	}

	s.writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

type handoffRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Summary string `json:"summary"`
}

type handoffResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id,omitempty"`
}

// handleHandoff records a human-handoff request and notifies the operator
// webhook when one is configured.
func (s *Server) handleHandoff(w http.ResponseWriter, r *http.Request) {
	var req handoffRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, sitechat.Errorf(sitechat.EINVALID, "invalid request body"))
		return
	}

	h := &sitechat.Handoff{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Summary: req.Summary,
	}
	if err := h.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	if s.Handoffs != nil {
		if err := s.Handoffs.CreateHandoff(r.Context(), h); err != nil {
			s.logger().Error("storing handoff failed", "error", err)
			s.writeError(w, sitechat.Errorf(sitechat.EINTERNAL, "handoff failed"))
			return
		}
	}

	if s.Notifier != nil {
		if err := s.Notifier.Notify(r.Context(), h); err != nil {
			s.logger().Error("handoff notification failed", "error", err)
			s.writeError(w, sitechat.Errorf(sitechat.EINTERNAL, "handoff notification failed"))
			return
		}
	}

	s.writeJSON(w, http.StatusOK, handoffResponse{OK: true, ID: h.ID})
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError translates an application error to an HTTP response.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := sitechat.ErrorCode(err)
	s.writeJSON(w, errorStatus(code), errorResponse{Error: sitechat.ErrorMessage(err)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger().Error("encoding response", "error", err)
	}
}

// errorStatus maps application error codes to HTTP status codes.
func errorStatus(code string) int {
	switch code {
	case sitechat.EINVALID:
		return http.StatusBadRequest
	case sitechat.ENOTFOUND:
		return http.StatusNotFound
	case sitechat.ECONFLICT:
		return http.StatusConflict
	case sitechat.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON request body into v. An empty body is not an
// error; endpoints with all-optional fields accept it.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// logRequests wraps a handler with structured request logging.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger().Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(begin),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Server) topK() int {
	if s.TopK > 0 {
		return s.TopK
	}
	return DefaultTopK
}

func (s *Server) contextBudget() int {
	if s.ContextBudget > 0 {
		return s.ContextBudget
	}
	return DefaultContextBudget
}
