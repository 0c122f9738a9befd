package categories

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/httpx"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/middleware"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/models"
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

func (h *Handler) ListByType(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	categoryType := strings.TrimSpace(chi.URLParam(r, "type"))
	if !models.ValidCategoryType(categoryType) {
		log.Warn("categories list: invalid type", slog.String("type", categoryType))
		transport.WriteError(w, http.StatusBadRequest, "invalid category type", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ListByType(ctx, categoryType)
	if err != nil {
		log.Error("categories list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("categories list: ok", slog.String("type", categoryType), slog.Int("count", len(items)))
	transport.WriteData(w, http.StatusOK, items)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ListAll(ctx)
	if err != nil {
		log.Error("admin categories list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin categories list: ok", slog.Int("count", len(items)))
	transport.WriteData(w, http.StatusOK, items)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin categories create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin categories create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			log.Warn("admin categories create: duplicate", slog.String("name", req.Name), slog.String("type", req.Type))
			transport.WriteError(w, http.StatusBadRequest, "category already exists for this type", nil)
			return
		}
		log.Error("admin categories create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin categories create: ok", slog.String("category_id", item.ID))
	transport.WriteMessage(w, http.StatusCreated, "category created", item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin categories update: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin categories update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin categories update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			log.Warn("admin categories update: not found", slog.String("category_id", id))
			transport.WriteError(w, http.StatusNotFound, "category not found", nil)
		case errors.Is(err, ErrDuplicate):
			log.Warn("admin categories update: duplicate", slog.String("category_id", id))
			transport.WriteError(w, http.StatusBadRequest, "category already exists for this type", nil)
		default:
			log.Error("admin categories update: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("admin categories update: ok", slog.String("category_id", id))
	transport.WriteMessage(w, http.StatusOK, "category updated", item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin categories delete: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			log.Warn("admin categories delete: not found", slog.String("category_id", id))
			transport.WriteError(w, http.StatusNotFound, "category not found", nil)
		case errors.Is(err, ErrInUse):
			log.Warn("admin categories delete: in use", slog.String("category_id", id))
			transport.WriteError(w, http.StatusBadRequest, "cannot delete category that is in use", nil)
		default:
			log.Error("admin categories delete: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("admin categories delete: ok", slog.String("category_id", id))
	transport.WriteMessage(w, http.StatusOK, "category deleted", nil)
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
