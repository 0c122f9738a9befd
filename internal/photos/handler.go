package photos

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/cache"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/categories"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/httpx"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/images"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/middleware"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/storage"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/transport"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/validation"
	"github.com/go-chi/chi/v5"
)

// defaultListKey caches the unfiltered first page, the one the public
// gallery always requests.
const defaultListKey = "photos:list:default"

const maxMultipartMemory = 32 << 20

type Handler struct {
	service  *Service
	val      *validation.Validator
	cache    cache.Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, c cache.Cache, cacheTTL time.Duration, log *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		val:      val,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, ListFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
	})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		q = strings.TrimSpace(r.URL.Query().Get("search"))
	}
	if q == "" {
		log.Warn("photos search: missing query")
		transport.WriteError(w, http.StatusBadRequest, "search query is required", nil)
		return
	}
	h.list(w, r, ListFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Search:   q,
	})
}

func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, ListFilter{
		Category: strings.TrimSpace(chi.URLParam(r, "category")),
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, filter ListFilter) {
	log := h.logWithRequest(r)
	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), 12, 50)
	if err != nil {
		log.Warn("photos list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	filter.Page = page
	filter.Limit = limit
	filter.SortBy = strings.TrimSpace(r.URL.Query().Get("sortBy"))
	filter.SortOrder = httpx.SortOrder(r.URL.Query())

	cacheable := filter.Category == "" && filter.Search == "" && filter.SortBy == "" &&
		filter.SortOrder == -1 && page == 1 && limit == 12
	if cacheable {
		if raw, ok, _ := h.cache.Get(r.Context(), defaultListKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(raw)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter)
	if err != nil {
		h.writeServiceError(log, w, "photos list", err)
		return
	}

	resp := transport.Response{Success: true, Data: items, Pagination: transport.NewPagination(page, limit, total)}
	if cacheable {
		if raw, err := json.Marshal(resp); err == nil {
			_ = h.cache.Set(ctx, defaultListKey, raw, h.cacheTTL)
		}
	}

	log.Info("photos list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		h.writeServiceError(log, w, "photos get", err)
		return
	}

	log.Info("photos get: ok", slog.String("photo_id", id))
	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin photos create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin photos create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		h.writeServiceError(log, w, "admin photos create", err)
		return
	}

	h.invalidateList(ctx)
	log.Info("admin photos create: ok", slog.String("photo_id", item.ID))
	transport.WriteMessage(w, http.StatusCreated, "photo created", item)
}

func (h *Handler) AdminUpload(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	file, ok := h.formImage(log, w, r, "photo")
	if !ok {
		return
	}
	defer file.Close()

	meta := uploadMetaFromForm(r)
	if err := h.val.Struct(meta); err != nil {
		log.Warn("admin photos upload: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	item, err := h.service.Upload(ctx, meta, strings.TrimSpace(r.FormValue("altText")), file)
	if err != nil {
		h.writeServiceError(log, w, "admin photos upload", err)
		return
	}

	h.invalidateList(ctx)
	log.Info("admin photos upload: ok", slog.String("photo_id", item.ID))
	transport.WriteMessage(w, http.StatusCreated, "photo uploaded", item)
}

func (h *Handler) AdminUploadMultiple(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		log.Warn("admin photos upload multiple: invalid multipart form")
		transport.WriteError(w, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}
	headers := r.MultipartForm.File["photos"]
	if len(headers) == 0 {
		log.Warn("admin photos upload multiple: no files")
		transport.WriteError(w, http.StatusBadRequest, "at least one photo file is required", nil)
		return
	}
	if len(headers) > images.MaxPerPost {
		log.Warn("admin photos upload multiple: too many files", slog.Int("count", len(headers)))
		transport.WriteError(w, http.StatusBadRequest, "a photo post can hold at most 10 images", nil)
		return
	}

	var altTexts []string
	if raw := strings.TrimSpace(r.FormValue("altTexts")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &altTexts); err != nil {
			log.Warn("admin photos upload multiple: invalid altTexts")
			transport.WriteError(w, http.StatusBadRequest, "altTexts must be a JSON array of strings", nil)
			return
		}
	}

	meta := uploadMetaFromForm(r)
	if err := h.val.Struct(meta); err != nil {
		log.Warn("admin photos upload multiple: validation error")
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
	for i, header := range headers {
		if msg := checkImageHeader(header); msg != "" {
			log.Warn("admin photos upload multiple: rejected file", slog.String("filename", header.Filename))
			transport.WriteError(w, http.StatusBadRequest, msg, nil)
			return
		}
		f, err := header.Open()
		if err != nil {
			log.Error("admin photos upload multiple: open file", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusBadRequest, "could not read uploaded file", nil)
			return
		}
		opened = append(opened, f)
		alt := ""
		if i < len(altTexts) {
			alt = altTexts[i]
		}
		files = append(files, FileUpload{File: f, Alt: alt})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	item, err := h.service.UploadMultiple(ctx, meta, files)
	if err != nil {
		h.writeServiceError(log, w, "admin photos upload multiple", err)
		return
	}

	h.invalidateList(ctx)
	log.Info("admin photos upload multiple: ok", slog.String("photo_id", item.ID), slog.Int("files", len(files)))
	transport.WriteMessage(w, http.StatusCreated, "photos uploaded", item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin photos update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin photos update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.writeServiceError(log, w, "admin photos update", err)
		return
	}

	h.invalidateList(ctx)
	log.Info("admin photos update: ok", slog.String("photo_id", id))
	transport.WriteMessage(w, http.StatusOK, "photo updated", item)
}

func (h *Handler) AdminUploadUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		log.Warn("admin photos image action: invalid multipart form")
		transport.WriteError(w, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}

	action := ImageAction{
		Kind: strings.TrimSpace(r.FormValue("imageAction")),
		Alt:  r.FormValue("altText"),
	}
	switch action.Kind {
	case "add":
		file, ok := h.formImage(log, w, r, "photo")
		if !ok {
			return
		}
		defer file.Close()
		action.File = file
	case "delete", "updateAlt":
		idx, err := strconv.Atoi(strings.TrimSpace(r.FormValue("imageIndex")))
		if err != nil {
			log.Warn("admin photos image action: invalid index")
			transport.WriteError(w, http.StatusBadRequest, "imageIndex must be a number", nil)
			return
		}
		action.Index = idx
	default:
		log.Warn("admin photos image action: unknown action", slog.String("action", action.Kind))
		transport.WriteError(w, http.StatusBadRequest, "imageAction must be add, delete or updateAlt", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	item, err := h.service.ApplyImageAction(ctx, id, action)
	if err != nil {
		h.writeServiceError(log, w, "admin photos image action", err)
		return
	}

	h.invalidateList(ctx)
	log.Info("admin photos image action: ok", slog.String("photo_id", id), slog.String("action", action.Kind))
	transport.WriteMessage(w, http.StatusOK, "photo images updated", item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeServiceError(log, w, "admin photos delete", err)
		return
	}

	h.invalidateList(ctx)
	log.Info("admin photos delete: ok", slog.String("photo_id", id))
	transport.WriteMessage(w, http.StatusOK, "photo deleted", nil)
}

func uploadMetaFromForm(r *http.Request) UploadMeta {
	return UploadMeta{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Date:        strings.TrimSpace(r.FormValue("date")),
		Location:    strings.TrimSpace(r.FormValue("location")),
	}
}

func checkImageHeader(header *multipart.FileHeader) string {
	if header.Size > storage.MaxImageSize {
		return "image files cannot exceed 10MB"
	}
	if !storage.AllowedImageType(header.Header.Get("Content-Type")) {
		return "unsupported image type"
	}
	return ""
}

func (h *Handler) formImage(log *slog.Logger, w http.ResponseWriter, r *http.Request, field string) (multipart.File, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		log.Warn("image upload: missing file", slog.String("field", field))
		transport.WriteError(w, http.StatusBadRequest, "image file is required", nil)
		return nil, false
	}
	if msg := checkImageHeader(header); msg != "" {
		_ = file.Close()
		log.Warn("image upload: rejected file", slog.String("filename", header.Filename))
		transport.WriteError(w, http.StatusBadRequest, msg, nil)
		return nil, false
	}
	return file, true
}

func (h *Handler) invalidateList(ctx context.Context) {
	_ = h.cache.Delete(ctx, defaultListKey)
}

func (h *Handler) writeServiceError(log *slog.Logger, w http.ResponseWriter, op string, err error) {
	var invalid *categories.InvalidCategoryError
	switch {
	case errors.As(err, &invalid):
		log.Warn(op+": invalid category", slog.String("input", invalid.Input))
		transport.WriteError(w, http.StatusBadRequest, invalid.Error(), nil)
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, "photo not found", nil)
	case errors.Is(err, ErrImagesChanged):
		log.Warn(op + ": concurrent image change")
		transport.WriteError(w, http.StatusConflict, "photo images changed, please retry", nil)
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
