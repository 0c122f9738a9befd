package awards

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/categories"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/httpx"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/images"
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
	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), 12, 50)
	if err != nil {
		log.Warn("awards list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		Category:  strings.TrimSpace(r.URL.Query().Get("category")),
		SortOrder: httpx.SortOrder(r.URL.Query()),
		Page:      page,
		Limit:     limit,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter)
	if err != nil {
		h.writeServiceError(log, w, "awards list", err)
		return
	}

	log.Info("awards list: ok", slog.Int("count", len(items)))
	transport.WritePage(w, http.StatusOK, items, transport.NewPagination(page, limit, total))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		h.writeServiceError(log, w, "awards get", err)
		return
	}

	log.Info("awards get: ok", slog.String("award_id", id))
	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin awards create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin awards create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		h.writeServiceError(log, w, "admin awards create", err)
		return
	}

	log.Info("admin awards create: ok", slog.String("award_id", item.ID))
	transport.WriteMessage(w, http.StatusCreated, "award created", item)
}

func (h *Handler) AdminUpload(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		log.Warn("admin awards upload: invalid multipart form")
		transport.WriteError(w, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}
	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		log.Warn("admin awards upload: no files")
		transport.WriteError(w, http.StatusBadRequest, "at least one image file is required", nil)
		return
	}
	if len(headers) > images.MaxPerPost {
		log.Warn("admin awards upload: too many files", slog.Int("count", len(headers)))
		transport.WriteError(w, http.StatusBadRequest, "an award post can hold at most 10 images", nil)
		return
	}

	meta := UploadMeta{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Date:        strings.TrimSpace(r.FormValue("date")),
	}
	if err := h.val.Struct(meta); err != nil {
		log.Warn("admin awards upload: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	files := make([]FileUpload, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, header := range headers {
		if header.Size > storage.MaxImageSize {
			transport.WriteError(w, http.StatusBadRequest, "image files cannot exceed 10MB", nil)
			return
		}
		if !storage.AllowedImageType(header.Header.Get("Content-Type")) {
			transport.WriteError(w, http.StatusBadRequest, "unsupported image type", nil)
			return
		}
		f, err := header.Open()
		if err != nil {
			log.Error("admin awards upload: open file", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusBadRequest, "could not read uploaded file", nil)
			return
		}
		opened = append(opened, f)
		files = append(files, FileUpload{File: f})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	item, err := h.service.Upload(ctx, meta, files)
	if err != nil {
		h.writeServiceError(log, w, "admin awards upload", err)
		return
	}

	log.Info("admin awards upload: ok", slog.String("award_id", item.ID), slog.Int("files", len(files)))
	transport.WriteMessage(w, http.StatusCreated, "award created", item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin awards update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin awards update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.writeServiceError(log, w, "admin awards update", err)
		return
	}

	log.Info("admin awards update: ok", slog.String("award_id", id))
	transport.WriteMessage(w, http.StatusOK, "award updated", item)
}

func (h *Handler) AdminUploadUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		log.Warn("admin awards image action: invalid multipart form")
		transport.WriteError(w, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}

	action := ImageAction{
		Kind: strings.TrimSpace(r.FormValue("imageAction")),
		Alt:  r.FormValue("altText"),
	}
	switch action.Kind {
	case "add":
		file, header, err := r.FormFile("image")
		if err != nil {
			log.Warn("admin awards image action: missing file")
			transport.WriteError(w, http.StatusBadRequest, "image file is required", nil)
			return
		}
		defer file.Close()
		if header.Size > storage.MaxImageSize {
			transport.WriteError(w, http.StatusBadRequest, "image files cannot exceed 10MB", nil)
			return
		}
		if !storage.AllowedImageType(header.Header.Get("Content-Type")) {
			transport.WriteError(w, http.StatusBadRequest, "unsupported image type", nil)
			return
		}
		action.File = file
	case "delete", "updateAlt":
		idx, err := strconv.Atoi(strings.TrimSpace(r.FormValue("imageIndex")))
		if err != nil {
			log.Warn("admin awards image action: invalid index")
			transport.WriteError(w, http.StatusBadRequest, "imageIndex must be a number", nil)
			return
		}
		action.Index = idx
	default:
		log.Warn("admin awards image action: unknown action", slog.String("action", action.Kind))
		transport.WriteError(w, http.StatusBadRequest, "imageAction must be add, delete or updateAlt", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	item, err := h.service.ApplyImageAction(ctx, id, action)
	if err != nil {
		h.writeServiceError(log, w, "admin awards image action", err)
		return
	}

	log.Info("admin awards image action: ok", slog.String("award_id", id), slog.String("action", action.Kind))
	transport.WriteMessage(w, http.StatusOK, "award images updated", item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeServiceError(log, w, "admin awards delete", err)
		return
	}

	log.Info("admin awards delete: ok", slog.String("award_id", id))
	transport.WriteMessage(w, http.StatusOK, "award deleted", nil)
}

func (h *Handler) writeServiceError(log *slog.Logger, w http.ResponseWriter, op string, err error) {
	var invalid *categories.InvalidCategoryError
	switch {
	case errors.As(err, &invalid):
		log.Warn(op+": invalid category", slog.String("input", invalid.Input))
		transport.WriteError(w, http.StatusBadRequest, invalid.Error(), nil)
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, "award not found", nil)
	case errors.Is(err, ErrImagesChanged):
		log.Warn(op + ": concurrent image change")
		transport.WriteError(w, http.StatusConflict, "award images changed, please retry", nil)
	case errors.Is(err, ErrInvalidDate),
		errors.Is(err, images.ErrCollectionFull),
		errors.Is(err, images.ErrLastImageProtected),
		errors.Is(err, images.ErrIndexOutOfRange),
		errors.Is(err, images.ErrInvalidAltText):
		log.Warn(op+": rejected", slog.String("reason", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
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
