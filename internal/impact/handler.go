package impact

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/httpx"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/middleware"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/transport"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/validation"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
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
		log.Warn("impact list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, page, limit)
	if err != nil {
		log.Error("impact list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("impact list: ok", slog.Int("count", len(items)))
	transport.WritePage(w, http.StatusOK, items, transport.NewPagination(page, limit, total))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if !primitive.IsValidObjectID(id) {
		log.Warn("impact get: invalid id", slog.String("impact_id", id))
		transport.WriteError(w, http.StatusBadRequest, "invalid impact id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("impact get: not found", slog.String("impact_id", id))
			transport.WriteError(w, http.StatusNotFound, "impact record not found", nil)
			return
		}
		log.Error("impact get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("impact get: ok", slog.String("impact_id", id))
	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin impact create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin impact create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrAdoptedExceedsRescued) {
			log.Warn("admin impact create: adopted exceeds rescued")
			transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		log.Error("admin impact create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin impact create: ok", slog.String("impact_id", item.ID))
	transport.WriteMessage(w, http.StatusCreated, "impact record created", item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if !primitive.IsValidObjectID(id) {
		log.Warn("admin impact update: invalid id", slog.String("impact_id", id))
		transport.WriteError(w, http.StatusBadRequest, "invalid impact id", nil)
		return
	}

	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin impact update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin impact update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			log.Warn("admin impact update: not found", slog.String("impact_id", id))
			transport.WriteError(w, http.StatusNotFound, "impact record not found", nil)
		case errors.Is(err, ErrAdoptedExceedsRescued):
			log.Warn("admin impact update: adopted exceeds rescued", slog.String("impact_id", id))
			transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		default:
			log.Error("admin impact update: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("admin impact update: ok", slog.String("impact_id", id))
	transport.WriteMessage(w, http.StatusOK, "impact record updated", item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if !primitive.IsValidObjectID(id) {
		log.Warn("admin impact delete: invalid id", slog.String("impact_id", id))
		transport.WriteError(w, http.StatusBadRequest, "invalid impact id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin impact delete: not found", slog.String("impact_id", id))
			transport.WriteError(w, http.StatusNotFound, "impact record not found", nil)
			return
		}
		log.Error("admin impact delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin impact delete: ok", slog.String("impact_id", id))
	transport.WriteMessage(w, http.StatusOK, "impact record deleted", nil)
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
