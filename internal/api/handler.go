// Package api serves the REST surface consumed by the web front end.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/honeycarbs/startsmart/internal/ai"
	"github.com/honeycarbs/startsmart/internal/domain"
	"github.com/honeycarbs/startsmart/internal/domain/job"
	"github.com/honeycarbs/startsmart/pkg/geoip"
	"github.com/honeycarbs/startsmart/pkg/logging"
)

// UserHeader carries the authenticated user id set by the identity gateway
const UserHeader = "X-User-ID"

const maxBodyBytes = 1 << 20

// FavoritesStore persists per-user bookmarks
type FavoritesStore interface {
	List(ctx context.Context, userID string) ([]domain.Favorite, error)
	Save(ctx context.Context, f domain.Favorite) error
	Delete(ctx context.Context, userID, jobID string) error
}

// Assistant generates AI prose for a posting and a profile
type Assistant interface {
	CV(ctx context.Context, j ai.Job, p domain.Profile) (string, error)
	Tips(ctx context.Context, j ai.Job, p domain.Profile) (string, error)
	Match(ctx context.Context, j ai.Job, p domain.Profile) (ai.MatchEstimate, error)
}

// Handler holds the REST dependencies
type Handler struct {
	jobs      job.Service
	favorites FavoritesStore
	assistant Assistant
	locator   job.Locator
	logger    *logging.Logger
}

// NewHandler creates the REST handler. favorites, assistant and locator may be nil;
// their routes then answer 503.
func NewHandler(jobs job.Service, favorites FavoritesStore, assistant Assistant, locator job.Locator, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{
		jobs:      jobs,
		favorites: favorites,
		assistant: assistant,
		locator:   locator,
		logger:    logger.With("component", "api"),
	}
}

// Register mounts every route on mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/jobs", h.listJobs)
	mux.HandleFunc("POST /api/jobs", h.createJob)
	mux.HandleFunc("GET /api/jobs/{id}", h.getJob)
	mux.HandleFunc("GET /api/recommendations", h.recommendations)
	mux.HandleFunc("GET /api/geoip", h.geoIP)

	mux.HandleFunc("GET /api/favorites", h.listFavorites)
	mux.HandleFunc("POST /api/favorites", h.saveFavorite)
	mux.HandleFunc("DELETE /api/favorites/{jobId}", h.deleteFavorite)

	mux.HandleFunc("POST /api/ai/cv", h.generateCV)
	mux.HandleFunc("POST /api/ai/improve-chances", h.improveChances)
	mux.HandleFunc("POST /api/ai/match", h.matchProfile)
}

// Middleware logs each request and recovers from handler panics
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if v := recover(); v != nil {
				h.logger.Error("panic in handler", "path", r.URL.Path, "panic", v)
				writeJSON(rec, http.StatusInternalServerError, errorBody{Error: "internal server error"})
			}
			h.logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		}()

		next.ServeHTTP(rec, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working behind the middleware
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, geoip.ErrNotPublic):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, geoip.ErrUnknown):
		return http.StatusNotFound
	case errors.Is(err, ai.ErrUnavailable), errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

var (
	errUnavailable  = errors.New("feature not configured")
	errUnauthorized = errors.New("unauthorized")
)

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// clientIP prefers X-Real-IP, then the first X-Forwarded-For hop, then the peer address
func clientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// queryList accepts both repeated params and comma-separated values
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
