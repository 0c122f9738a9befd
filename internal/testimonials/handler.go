package testimonials

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/httpx"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/middleware"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/transport"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/validation"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), 10, 50)
	if err != nil {
		log.Warn("testimonials list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		Search:    strings.TrimSpace(r.URL.Query().Get("search")),
		SortBy:    strings.TrimSpace(r.URL.Query().Get("sortBy")),
		SortOrder: httpx.SortOrder(r.URL.Query()),
		Page:      page,
		Limit:     limit,
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("rate")); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Warn("testimonials list: invalid rate")
			transport.WriteError(w, http.StatusBadRequest, "rate must be a number", nil)
			return
		}
		filter.Rate = rate
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter)
	if err != nil {
		log.Error("testimonials list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("testimonials list: ok", slog.Int("count", len(items)))
	transport.WritePage(w, http.StatusOK, items, transport.NewPagination(page, limit, total))
}

func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), 10, 50)
	if err != nil {
		log.Warn("testimonials active: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.ListActive(ctx, page, limit)
	if err != nil {
		log.Error("testimonials active: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("testimonials active: ok", slog.Int("count", len(items)))
	transport.WritePage(w, http.StatusOK, items, transport.NewPagination(page, limit, total))
}

func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit := int64(6)
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 || parsed > 20 {
			log.Warn("testimonials featured: invalid limit")
			transport.WriteError(w, http.StatusBadRequest, "invalid limit", nil)
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.Featured(ctx, limit)
	if err != nil {
		log.Error("testimonials featured: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("testimonials featured: ok", slog.Int("count", len(items)))
	transport.WriteData(w, http.StatusOK, items)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("testimonials get: not found", slog.String("testimonial_id", id))
			transport.WriteError(w, http.StatusNotFound, "testimonial not found", nil)
			return
		}
		log.Error("testimonials get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("testimonials get: ok", slog.String("testimonial_id", id))
	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin testimonials create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin testimonials create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			log.Warn("admin testimonials create: duplicate", slog.String("name", req.Name))
			transport.WriteError(w, http.StatusBadRequest, "this testimonial already exists", nil)
			return
		}
		log.Error("admin testimonials create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin testimonials create: ok", slog.String("testimonial_id", item.ID))
	transport.WriteMessage(w, http.StatusCreated, "testimonial created", item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin testimonials update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin testimonials update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			log.Warn("admin testimonials update: not found", slog.String("testimonial_id", id))
			transport.WriteError(w, http.StatusNotFound, "testimonial not found", nil)
		case errors.Is(err, ErrDuplicate):
			log.Warn("admin testimonials update: duplicate", slog.String("testimonial_id", id))
			transport.WriteError(w, http.StatusBadRequest, "this testimonial already exists", nil)
		default:
			log.Error("admin testimonials update: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("admin testimonials update: ok", slog.String("testimonial_id", id))
	transport.WriteMessage(w, http.StatusOK, "testimonial updated", item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin testimonials delete: not found", slog.String("testimonial_id", id))
			transport.WriteError(w, http.StatusNotFound, "testimonial not found", nil)
			return
		}
		log.Error("admin testimonials delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin testimonials delete: ok", slog.String("testimonial_id", id))
	transport.WriteMessage(w, http.StatusOK, "testimonial deleted", nil)
}

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		log.Error("admin testimonials stats: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin testimonials stats: ok", slog.Int64("total", stats.Total))
	transport.WriteData(w, http.StatusOK, stats)
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
