// Package server exposes the deconjugator as a JSON REST API.
//
// Endpoints:
//
//	GET  /api/deconjugate?text=<word>[&cache=false][&forms=true]
//	GET  /api/rules
//	GET  /healthz
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/hoverdict/deconj"
)

// RequestIDHeader carries the per-request id, echoed back on responses.
const RequestIDHeader = "X-Request-ID"

// ---- JSON response types ------------------------------------------------

type groupJSON struct {
	Text           string `json:"text"`
	Tag            string `json:"tag"`
	TagDescription string `json:"tag_description,omitempty"`
	Process        string `json:"process"`
}

type deconjugateResponse struct {
	Text   string        `json:"text"`
	Groups []groupJSON   `json:"groups"`
	Forms  []deconj.Form `json:"forms,omitempty"`
}

type tagJSON struct {
	Tag         string `json:"tag"`
	Description string `json:"description"`
}

type rulesResponse struct {
	Count int       `json:"count"`
	Tags  []tagJSON `json:"tags"`
}

type healthResponse struct {
	Status string `json:"status"`
	Rules  int    `json:"rules"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- server -------------------------------------------------------------

// Server serves one Deconjugator at a time. Swap replaces it atomically,
// so in-flight requests finish on the engine they started with.
type Server struct {
	engine  atomic.Pointer[deconj.Deconjugator]
	logger  *slog.Logger
	origins []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithAllowedOrigins sets the CORS origins. The default allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// New returns a Server answering with d.
func New(d *deconj.Deconjugator, opts ...Option) *Server {
	s := &Server{logger: slog.Default(), origins: []string{"*"}}
	for _, opt := range opts {
		opt(s)
	}
	s.engine.Store(d)
	return s
}

// Engine returns the Deconjugator currently serving requests.
func (s *Server) Engine() *deconj.Deconjugator {
	return s.engine.Load()
}

// Swap installs d for subsequent requests.
func (s *Server) Swap(d *deconj.Deconjugator) {
	s.engine.Store(d)
}

// Handler returns the routed API wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/deconjugate", s.handleDeconjugate)
	mux.HandleFunc("/api/rules", s.handleRules)
	mux.HandleFunc("/healthz", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return s.logRequests(c.Handler(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ---- helpers ------------------------------------------------------------

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode error", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func toGroupsJSON(forms []deconj.Form) []groupJSON {
	groups := deconj.GroupForms(forms)
	out := make([]groupJSON, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupJSON{
			Text:           g.Text,
			Tag:            g.Tag,
			TagDescription: deconj.TagDescription(g.Tag),
			Process:        g.Describe(),
		})
	}
	return out
}

// boolParam reads a boolean query parameter, falling back to def when the
// parameter is absent or unparsable.
func boolParam(r *http.Request, name string, def bool) bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// ---- handlers -----------------------------------------------------------

func (s *Server) handleDeconjugate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	text := deconj.Normalize(r.URL.Query().Get("text"))
	if text == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'text' query parameter")
		return
	}

	forms := s.Engine().Deconjugate(text, boolParam(r, "cache", true))
	resp := deconjugateResponse{Text: text, Groups: toGroupsJSON(forms)}
	if boolParam(r, "forms", false) {
		resp.Forms = forms
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	rules := s.Engine().Rules()
	tags := rules.Tags()
	out := make([]tagJSON, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tagJSON{Tag: tag, Description: deconj.TagDescription(tag)})
	}
	s.writeJSON(w, http.StatusOK, rulesResponse{Count: rules.Len(), Tags: out})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Rules: s.Engine().Rules().Len()})
}

// ---- middleware ---------------------------------------------------------

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
