package contacts

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

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req SendRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("contact send: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("contact send: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	item, err := h.service.Send(ctx, req)
	if err != nil {
		if errors.Is(err, captcha.ErrVerificationFailed) {
			log.Warn("contact send: captcha failed")
			transport.WriteError(w, http.StatusBadRequest, "captcha verification failed", nil)
			return
		}
		log.Error("contact send: error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "could not send message", nil)
		return
	}

	log.Info("contact send: ok", slog.String("contact_id", item.ID))
	transport.WriteMessage(w, http.StatusCreated, "message sent successfully", nil)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("admin contacts list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{Page: page, Limit: limit}
	switch strings.TrimSpace(r.URL.Query().Get("isRead")) {
	case "true":
		v := true
		filter.Read = &v
	case "false":
		v := false
		filter.Read = &v
	case "":
	default:
		log.Warn("admin contacts list: invalid isRead")
		transport.WriteError(w, http.StatusBadRequest, "isRead must be true or false", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, unread, err := h.service.List(ctx, filter)
	if err != nil {
		log.Error("admin contacts list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin contacts list: ok", slog.Int("count", len(items)), slog.Int64("unread", unread))
	transport.WriteJSON(w, http.StatusOK, transport.Response{
		Success: true,
		Data: map[string]interface{}{
			"messages":    items,
			"unreadCount": unread,
		},
		Pagination: transport.NewPagination(page, limit, total),
	})
}

func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin contacts get: not found", slog.String("contact_id", id))
			transport.WriteError(w, http.StatusNotFound, "contact message not found", nil)
			return
		}
		log.Error("admin contacts get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin contacts get: ok", slog.String("contact_id", id))
	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminMarkRead(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin contacts mark read: not found", slog.String("contact_id", id))
			transport.WriteError(w, http.StatusNotFound, "contact message not found", nil)
			return
		}
		log.Error("admin contacts mark read: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin contacts mark read: ok", slog.String("contact_id", id))
	transport.WriteMessage(w, http.StatusOK, "message marked as read", item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin contacts delete: not found", slog.String("contact_id", id))
			transport.WriteError(w, http.StatusNotFound, "contact message not found", nil)
			return
		}
		log.Error("admin contacts delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin contacts delete: ok", slog.String("contact_id", id))
	transport.WriteMessage(w, http.StatusOK, "message deleted", nil)
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
