package visitors

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/cache"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/middleware"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/transport"
)

const countCacheKey = "visitors:count"

type Handler struct {
	service  *Service
	cache    cache.Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

func NewHandler(service *Service, c cache.Cache, cacheTTL time.Duration, log *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (h *Handler) Increment(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	counter, err := h.service.Increment(ctx)
	if err != nil {
		log.Error("visitors increment: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	_ = h.cache.Delete(ctx, countCacheKey)
	log.Info("visitors increment: ok", slog.Int64("total", counter.TotalVisitors))
	transport.WriteData(w, http.StatusOK, map[string]interface{}{
		"totalVisitors": counter.TotalVisitors,
	})
}

func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if raw, ok, _ := h.cache.Get(r.Context(), countCacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(raw)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	total, err := h.service.Count(ctx)
	if err != nil {
		log.Error("visitors count: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	resp := transport.Response{Success: true, Data: map[string]interface{}{"totalVisitors": total}}
	if raw, err := json.Marshal(resp); err == nil {
		_ = h.cache.Set(ctx, countCacheKey, raw, h.cacheTTL)
	}

	log.Info("visitors count: ok", slog.Int64("total", total))
	transport.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		log.Error("admin visitors stats: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin visitors stats: ok", slog.Int64("total", stats.TotalVisitors))
	transport.WriteData(w, http.StatusOK, stats)
}

func (h *Handler) AdminReset(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Reset(ctx); err != nil {
		log.Error("admin visitors reset: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	_ = h.cache.Delete(ctx, countCacheKey)

	admin, _ := middleware.AdminFromContext(r.Context())
	log.Info("admin visitors reset: ok", slog.String("admin_email", admin.Email))
	transport.WriteMessage(w, http.StatusOK, "visitor counter reset", nil)
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
