package blogs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/categories"
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
		log.Warn("blogs list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Page:     page,
		Limit:    limit,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter)
	if err != nil {
		h.writeServiceError(log, w, "blogs list", err)
		return
	}

	log.Info("blogs list: ok", slog.Int("count", len(items)))
	transport.WritePage(w, http.StatusOK, items, transport.NewPagination(page, limit, total))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		h.writeServiceError(log, w, "blogs get", err)
		return
	}

	log.Info("blogs get: ok", slog.String("blog_id", id))
	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin blogs create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin blogs create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		h.writeServiceError(log, w, "admin blogs create", err)
		return
	}

	log.Info("admin blogs create: ok", slog.String("blog_id", item.ID))
	transport.WriteMessage(w, http.StatusCreated, "blog post created", item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin blogs update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin blogs update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.writeServiceError(log, w, "admin blogs update", err)
		return
	}

	log.Info("admin blogs update: ok", slog.String("blog_id", id))
	transport.WriteMessage(w, http.StatusOK, "blog post updated", item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeServiceError(log, w, "admin blogs delete", err)
		return
	}

	log.Info("admin blogs delete: ok", slog.String("blog_id", id))
	transport.WriteMessage(w, http.StatusOK, "blog post deleted", nil)
}

func (h *Handler) writeServiceError(log *slog.Logger, w http.ResponseWriter, op string, err error) {
	var invalid *categories.InvalidCategoryError
	switch {
	case errors.As(err, &invalid):
		log.Warn(op+": invalid category", slog.String("input", invalid.Input))
		transport.WriteError(w, http.StatusBadRequest, invalid.Error(), nil)
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, "blog post not found", nil)
	default:
		log.Error(op+": error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
	}
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
