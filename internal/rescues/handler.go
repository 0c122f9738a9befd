package rescues

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/httpx"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/middleware"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/storage"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/transport"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/validation"
	"github.com/go-chi/chi/v5"
)

const maxMultipartMemory = 32 << 20

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
		log.Warn("rescues list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, page, limit)
	if err != nil {
		log.Error("rescues list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("rescues list: ok", slog.Int("count", len(items)))
	transport.WritePage(w, http.StatusOK, items, transport.NewPagination(page, limit, total))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("rescues get: not found", slog.String("rescue_id", id))
			transport.WriteError(w, http.StatusNotFound, "rescue post not found", nil)
			return
		}
		log.Error("rescues get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("rescues get: ok", slog.String("rescue_id", id))
	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		log.Warn("admin rescues create: invalid multipart form")
		transport.WriteError(w, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}

	meta := CreateMeta{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if err := h.val.Struct(meta); err != nil {
		log.Warn("admin rescues create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	before, ok := h.formImage(log, w, r, "before", true)
	if !ok {
		return
	}
	defer before.Close()
	after, ok := h.formImage(log, w, r, "after", true)
	if !ok {
		return
	}
	defer after.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, meta, before, after)
	if err != nil {
		log.Error("admin rescues create: error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}

	log.Info("admin rescues create: ok", slog.String("rescue_id", item.ID))
	transport.WriteMessage(w, http.StatusCreated, "rescue post created", item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		log.Warn("admin rescues update: invalid multipart form")
		transport.WriteError(w, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}

	meta := UpdateMeta{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if err := h.val.Struct(meta); err != nil {
		log.Warn("admin rescues update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	var before, after io.Reader
	if file, ok := h.formImage(log, w, r, "before", false); file != nil {
		defer file.Close()
		before = file
	} else if !ok {
		return
	}
	if file, ok := h.formImage(log, w, r, "after", false); file != nil {
		defer file.Close()
		after = file
	} else if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, meta, before, after)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin rescues update: not found", slog.String("rescue_id", id))
			transport.WriteError(w, http.StatusNotFound, "rescue post not found", nil)
			return
		}
		log.Error("admin rescues update: error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}

	log.Info("admin rescues update: ok", slog.String("rescue_id", id))
	transport.WriteMessage(w, http.StatusOK, "rescue post updated", item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin rescues delete: not found", slog.String("rescue_id", id))
			transport.WriteError(w, http.StatusNotFound, "rescue post not found", nil)
			return
		}
		log.Error("admin rescues delete: error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin rescues delete: ok", slog.String("rescue_id", id))
	transport.WriteMessage(w, http.StatusOK, "rescue post deleted", nil)
}

// formImage reads one image file field. With required=false a missing file
// returns (nil, true) so the caller can treat it as "keep the current image".
func (h *Handler) formImage(log *slog.Logger, w http.ResponseWriter, r *http.Request, field string, required bool) (multipart.File, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if !required {
			return nil, true
		}
		log.Warn("rescue image upload: missing file", slog.String("field", field))
		transport.WriteError(w, http.StatusBadRequest, field+" image is required", nil)
		return nil, false
	}
	if header.Size > storage.MaxImageSize {
		_ = file.Close()
		transport.WriteError(w, http.StatusBadRequest, "image files cannot exceed 10MB", nil)
		return nil, false
	}
	if !storage.AllowedImageType(header.Header.Get("Content-Type")) {
		_ = file.Close()
		transport.WriteError(w, http.StatusBadRequest, "unsupported image type", nil)
		return nil, false
	}
	return file, true
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
