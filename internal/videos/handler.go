package videos

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/categories"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/httpx"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/middleware"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/storage"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/transport"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/validation"
	"github.com/go-chi/chi/v5"
)

const maxMultipartMemory = 64 << 20

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
		log.Warn("videos list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		Category:  strings.TrimSpace(r.URL.Query().Get("category")),
		Search:    strings.TrimSpace(r.URL.Query().Get("search")),
		SortBy:    strings.TrimSpace(r.URL.Query().Get("sortBy")),
		SortOrder: httpx.SortOrder(r.URL.Query()),
		Page:      page,
		Limit:     limit,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter)
	if err != nil {
		h.writeServiceError(log, w, "videos list", err)
		return
	}

	log.Info("videos list: ok", slog.Int("count", len(items)))
	transport.WritePage(w, http.StatusOK, items, transport.NewPagination(page, limit, total))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		h.writeServiceError(log, w, "videos get", err)
		return
	}

	log.Info("videos get: ok", slog.String("video_id", id))
	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminUpload(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		log.Warn("admin videos upload: invalid multipart form")
		transport.WriteError(w, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}

	video, header, err := r.FormFile("video")
	if err != nil {
		log.Warn("admin videos upload: missing video file")
		transport.WriteError(w, http.StatusBadRequest, "video file is required", nil)
		return
	}
	defer video.Close()
	if header.Size > storage.MaxVideoSize {
		log.Warn("admin videos upload: file too large", slog.Int64("size", header.Size))
		transport.WriteError(w, http.StatusBadRequest, "video files cannot exceed 500MB", nil)
		return
	}
	if !storage.AllowedVideoType(header.Header.Get("Content-Type")) {
		log.Warn("admin videos upload: unsupported type", slog.String("type", header.Header.Get("Content-Type")))
		transport.WriteError(w, http.StatusBadRequest, "unsupported video type", nil)
		return
	}

	meta := UploadMeta{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Duration:    strings.TrimSpace(r.FormValue("duration")),
		Date:        strings.TrimSpace(r.FormValue("date")),
	}
	if err := h.val.Struct(meta); err != nil {
		log.Warn("admin videos upload: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	var thumbnail io.ReadCloser
	if file, thumbHeader, err := r.FormFile("thumbnail"); err == nil {
		if thumbHeader.Size > storage.MaxImageSize {
			_ = file.Close()
			transport.WriteError(w, http.StatusBadRequest, "image files cannot exceed 10MB", nil)
			return
		}
		if !storage.AllowedImageType(thumbHeader.Header.Get("Content-Type")) {
			_ = file.Close()
			transport.WriteError(w, http.StatusBadRequest, "unsupported image type", nil)
			return
		}
		thumbnail = file
		defer thumbnail.Close()
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	var thumbReader io.Reader
	if thumbnail != nil {
		thumbReader = thumbnail
	}
	item, err := h.service.Upload(ctx, meta, video, thumbReader)
	if err != nil {
		h.writeServiceError(log, w, "admin videos upload", err)
		return
	}

	log.Info("admin videos upload: ok", slog.String("video_id", item.ID))
	transport.WriteMessage(w, http.StatusCreated, "video uploaded", item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin videos update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin videos update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.writeServiceError(log, w, "admin videos update", err)
		return
	}

	log.Info("admin videos update: ok", slog.String("video_id", id))
	transport.WriteMessage(w, http.StatusOK, "video updated", item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeServiceError(log, w, "admin videos delete", err)
		return
	}

	log.Info("admin videos delete: ok", slog.String("video_id", id))
	transport.WriteMessage(w, http.StatusOK, "video deleted", nil)
}

func (h *Handler) writeServiceError(log *slog.Logger, w http.ResponseWriter, op string, err error) {
	var invalid *categories.InvalidCategoryError
	switch {
	case errors.As(err, &invalid):
		log.Warn(op+": invalid category", slog.String("input", invalid.Input))
		transport.WriteError(w, http.StatusBadRequest, invalid.Error(), nil)
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, "video not found", nil)
	case errors.Is(err, ErrDuplicate):
		log.Warn(op + ": duplicate")
		transport.WriteError(w, http.StatusBadRequest, "video already exists", nil)
	case errors.Is(err, ErrInvalidDate):
		log.Warn(op + ": invalid date")
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
