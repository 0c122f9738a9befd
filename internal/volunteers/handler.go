package volunteers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/captcha"
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

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req ApplyRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("volunteer apply: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("volunteer apply: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	item, err := h.service.Apply(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, captcha.ErrVerificationFailed):
			log.Warn("volunteer apply: captcha failed")
			transport.WriteError(w, http.StatusBadRequest, "captcha verification failed", nil)
		case errors.Is(err, ErrDuplicate):
			log.Warn("volunteer apply: duplicate email")
			transport.WriteError(w, http.StatusBadRequest, "an application with this email already exists", nil)
		default:
			log.Error("volunteer apply: error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "could not submit application", nil)
		}
		return
	}

	log.Info("volunteer apply: ok", slog.String("volunteer_id", item.ID))
	transport.WriteMessage(w, http.StatusCreated, "application submitted successfully", nil)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("admin volunteers list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, page, limit)
	if err != nil {
		log.Error("admin volunteers list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin volunteers list: ok", slog.Int("count", len(items)))
	transport.WritePage(w, http.StatusOK, items, transport.NewPagination(page, limit, total))
}

func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin volunteers get: not found", slog.String("volunteer_id", id))
			transport.WriteError(w, http.StatusNotFound, "volunteer application not found", nil)
			return
		}
		log.Error("admin volunteers get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin volunteers get: ok", slog.String("volunteer_id", id))
	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin volunteers delete: not found", slog.String("volunteer_id", id))
			transport.WriteError(w, http.StatusNotFound, "volunteer application not found", nil)
			return
		}
		log.Error("admin volunteers delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin volunteers delete: ok", slog.String("volunteer_id", id))
	transport.WriteMessage(w, http.StatusOK, "volunteer application deleted", nil)
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
