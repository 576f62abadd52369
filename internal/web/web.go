// Package web serves the generated calendar over HTTP so calendar apps
// can subscribe to it directly.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"coursecal/internal/config"
	"coursecal/internal/pipeline"
)

// resultTTL bounds how long a cached conversion is served before the
// export is re-read.
const resultTTL = 5 * time.Minute

// Server exposes /health, /calendar.ics and /api/courses.
type Server struct {
	cfg    *config.Config
	pipe   *pipeline.Pipeline
	logger *zap.Logger
	mux    *http.ServeMux

	// Conversions are cached so a subscribing client polling the feed
	// does not re-read and re-parse the export on every request.
	cacheMu   sync.RWMutex
	cached    *pipeline.Result
	cachedAt  time.Time
}

// NewServer constructs a Server around a conversion pipeline.
func NewServer(cfg *config.Config, pipe *pipeline.Pipeline, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:    cfg,
		pipe:   pipe,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for this server, with basic auth
// applied when configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		s.logger.Info("HTTP basic auth enabled", zap.String("listen", s.cfg.Listen))
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/calendar.ics", s.handleCalendar)
	s.mux.HandleFunc("/api/courses", s.handleCourses)
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password counts as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="coursecal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	res, err := s.result(r.Context())
	if err != nil {
		s.logger.Error("conversion failed", zap.Error(err))
		http.Error(w, "conversion failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	_, _ = w.Write(res.ICS)
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	res, err := s.result(r.Context())
	if err != nil {
		s.logger.Error("conversion failed", zap.Error(err))
		http.Error(w, "conversion failed", http.StatusBadGateway)
		return
	}

	warnings := make([]string, 0, len(res.Warnings))
	for _, warn := range res.Warnings {
		warnings = append(warnings, warn.String())
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"student_info": res.Data.StudentInfo,
		"courses":      res.Data.Courses,
		"event_count":  len(res.Events),
		"warnings":     warnings,
	})
}

// result returns the cached conversion, re-running the pipeline when the
// cache is stale.
func (s *Server) result(ctx context.Context) (*pipeline.Result, error) {
	s.cacheMu.RLock()
	if s.cached != nil && time.Since(s.cachedAt) < resultTTL {
		res := s.cached
		s.cacheMu.RUnlock()
		return res, nil
	}
	s.cacheMu.RUnlock()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	// Another request may have refreshed while we waited for the lock.
	if s.cached != nil && time.Since(s.cachedAt) < resultTTL {
		return s.cached, nil
	}

	res, err := s.pipe.Run(ctx)
	if err != nil {
		return nil, err
	}
	s.cached = res
	s.cachedAt = time.Now()
	return res, nil
}
