// Package httpapi serves shared snapshots to browsers. The gateway only ever
// returns ciphertext; the key stays in the link fragment.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/logging"
	"github.com/finiam/notes-app/internal/server/models"
)

// SnapshotService reads shared snapshots.
type SnapshotService interface {
	Get(ctx context.Context, id string) (*models.Snapshot, error)
}

// Pinger reports whether the backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewRouter mounts the gateway routes:
//
//	GET /healthz           → 200 when the store answers a ping
//	GET /api/shared/{id}   → encrypted snapshot as JSON
func NewRouter(snapshots SnapshotService, db Pinger, logger logging.Logger) http.Handler {
	h := &handler{snapshots: snapshots, db: db, logger: logger}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(withRequestLogging(logger))

	r.Get("/healthz", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/shared/{id}", h.getShared)
	})

	return r
}

type handler struct {
	snapshots SnapshotService
	db        Pinger
	logger    logging.Logger
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn(r.Context(), "health check failed", "error", err)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *handler) getShared(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, err := h.snapshots.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.logger.Error(r.Context(), "get shared snapshot failed", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		h.logger.Error(r.Context(), "encode snapshot failed", "id", id, "error", err)
	}
}

func withRequestLogging(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"request_id", chiMiddleware.GetReqID(r.Context()),
				"duration", time.Since(start),
			)
		})
	}
}
