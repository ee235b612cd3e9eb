package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mtlprog/taskflow/internal/config"
	"github.com/mtlprog/taskflow/internal/handler/dto"
	"github.com/mtlprog/taskflow/internal/middleware"
	"github.com/mtlprog/taskflow/internal/service"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options holds optional Handler dependencies.
type Options struct {
	UploadDir      string
	MaxUploadBytes int64
	// Store is pinged by /healthz. A nil Store always reports healthy.
	Store Pinger
	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	// Now is used to name uploaded files. Defaults to time.Now.
	Now func() time.Time
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	tasks          *service.TaskService
	activity       *service.ActivityLogger
	store          Pinger
	gatherer       prometheus.Gatherer
	uploadDir      string
	maxUploadBytes int64
	now            func() time.Time
}

// New creates a new Handler instance with all dependencies.
func New(tasks *service.TaskService, activity *service.ActivityLogger, opts Options) *Handler {
	h := &Handler{
		tasks:          tasks,
		activity:       activity,
		store:          opts.Store,
		gatherer:       opts.Gatherer,
		uploadDir:      opts.UploadDir,
		maxUploadBytes: opts.MaxUploadBytes,
		now:            opts.Now,
	}

	if h.gatherer == nil {
		h.gatherer = prometheus.DefaultGatherer
	}
	if h.uploadDir == "" {
		h.uploadDir = config.DefaultUploadDir
	}
	if h.maxUploadBytes <= 0 {
		h.maxUploadBytes = config.DefaultMaxUploadBytes
	}
	if h.now == nil {
		h.now = time.Now
	}

	return h
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check and metrics
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))

	// API routes
	mux.HandleFunc("GET /api/tasks", h.handleListTasks)
	mux.HandleFunc("POST /api/tasks", h.handleCreateTask)
	mux.HandleFunc("PUT /api/tasks/{id}/status", h.handleUpdateTaskStatus)
	mux.HandleFunc("DELETE /api/tasks/{id}", h.handleDeleteTask)
	mux.HandleFunc("GET /api/users/{id}/stats", h.handleGetUserStats)
	mux.HandleFunc("POST /api/upload", h.handleUpload)

	mux.HandleFunc("/api/", h.handleNotFound)
}

// Routes returns the complete HTTP handler: routes wrapped in the
// middleware stack and CORS.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.HeaderUserID},
		MaxAge:         300,
	})

	return corsHandler(middleware.Chain(mux))
}

// handleHealthz returns 200 OK if the store is reachable. The cache is not
// checked because the service works without it.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			slog.Error("store health check failed", "error", err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, dto.MsgRouteNotFound)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a failed envelope.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, dto.Fail(message))
}

// respondWriteError maps err from a mutating endpoint, using failure as the
// message for store errors.
func respondWriteError(w http.ResponseWriter, err error, failure string) {
	status, message := dto.MapWriteError(err, failure)
	respondError(w, status, message)
}

// respondDomainError maps err to a status and writes a failed envelope.
func respondDomainError(w http.ResponseWriter, err error) {
	status, message := dto.MapDomainError(err)
	respondError(w, status, message)
}
