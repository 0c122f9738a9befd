package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/categories"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/images"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/models"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("photo not found")
	// ErrImagesChanged reports a lost image-list update: another request
	// changed the list between our read and our guarded write.
	ErrImagesChanged = errors.New("photo images changed concurrently")
	ErrInvalidDate   = errors.New("invalid date format, use YYYY-MM-DD")
)

type FileUpload struct {
	File io.Reader
	Alt  string
}

// ImageAction is one mutation of a photo's image list.
type ImageAction struct {
	Kind  string // add, delete or updateAlt
	Index int
	Alt   string
	File  io.Reader // required for add
}

type Service struct {
	repo       Repository
	categories *categories.Service
	store      storage.Storage
	location   *time.Location
	log        *slog.Logger
}

func NewService(repo Repository, cats *categories.Service, store storage.Storage, location *time.Location, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: cats,
		store:      store,
		location:   location,
		log:        log,
	}
}

var listSortFields = map[string]string{
	"createdAt": "createdAt",
	"date":      "date",
	"title":     "title",
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Photo, int64, error) {
	query := bson.M{"isActive": true}

	if f.Category != "" {
		cat, err := s.categories.Resolve(ctx, f.Category, models.CategoryPhoto)
		if err != nil {
			return nil, 0, err
		}
		query["category"] = cat.ID
	}

	if q := strings.TrimSpace(f.Search); q != "" {
		regex := bson.M{"$regex": q, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
			bson.M{"location": regex},
			bson.M{"images.alt": regex},
		}
	}

	field, ok := listSortFields[f.SortBy]
	if !ok {
		field = "createdAt"
	}
	order := f.SortOrder
	if order != 1 {
		order = -1
	}
	sort := bson.D{{Key: field, Value: order}}

	items, err := s.repo.List(ctx, query, sort, f.Page, f.Limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	if err := s.populate(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Get returns an active photo; inactive ones are hidden from the public site.
func (s *Service) Get(ctx context.Context, id string) (Photo, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return Photo{}, err
	}
	if !item.IsActive {
		return Photo{}, ErrNotFound
	}
	if err := s.populateOne(ctx, &item); err != nil {
		return Photo{}, err
	}
	return item, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Photo, error) {
	cat, err := s.categories.Resolve(ctx, req.Category, models.CategoryPhoto)
	if err != nil {
		return Photo{}, err
	}
	if err := images.Validate(req.Images, images.MaxPerPost); err != nil {
		return Photo{}, err
	}

	now := time.Now().In(s.location)
	date, err := parseDate(strings.TrimSpace(req.Date), s.location, now)
	if err != nil {
		return Photo{}, ErrInvalidDate
	}

	item := Photo{
		ID:          primitive.NewObjectID().Hex(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Images:      req.Images,
		CategoryID:  cat.ID,
		Date:        date,
		Location:    strings.TrimSpace(req.Location),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return Photo{}, err
	}
	ref := cat.Ref()
	item.Category = &ref
	return item, nil
}

// Upload stores one file and creates a photo around it. The blob is removed
// again if the document write fails.
func (s *Service) Upload(ctx context.Context, meta UploadMeta, alt string, file io.Reader) (Photo, error) {
	return s.UploadMultiple(ctx, meta, []FileUpload{{File: file, Alt: alt}})
}

func (s *Service) UploadMultiple(ctx context.Context, meta UploadMeta, files []FileUpload) (Photo, error) {
	if len(files) == 0 {
		return Photo{}, errors.New("at least one file is required")
	}
	if len(files) > images.MaxPerPost {
		return Photo{}, images.ErrCollectionFull
	}

	cat, err := s.categories.Resolve(ctx, meta.Category, models.CategoryPhoto)
	if err != nil {
		return Photo{}, err
	}

	uploaded := make([]images.Image, 0, len(files))
	for i, f := range files {
		alt := strings.TrimSpace(f.Alt)
		if alt == "" {
			alt = strings.TrimSpace(meta.Title)
		}
		res, err := s.store.UploadImage(ctx, f.File)
		if err != nil {
			s.cleanupBlobs(ctx, uploaded)
			return Photo{}, fmt.Errorf("upload file %d: %w", i+1, err)
		}
		uploaded = append(uploaded, images.Image{Src: res.URL, Alt: alt, PublicID: res.PublicID})
	}

	now := time.Now().In(s.location)
	date, err := parseDate(strings.TrimSpace(meta.Date), s.location, now)
	if err != nil {
		s.cleanupBlobs(ctx, uploaded)
		return Photo{}, ErrInvalidDate
	}

	item := Photo{
		ID:          primitive.NewObjectID().Hex(),
		Title:       strings.TrimSpace(meta.Title),
		Description: strings.TrimSpace(meta.Description),
		Images:      uploaded,
		CategoryID:  cat.ID,
		Date:        date,
		Location:    strings.TrimSpace(meta.Location),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		s.cleanupBlobs(ctx, uploaded)
		return Photo{}, err
	}
	ref := cat.Ref()
	item.Category = &ref
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Photo, error) {
	set := bson.M{"updatedAt": time.Now().In(s.location)}

	if req.Title != nil {
		set["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		set["location"] = strings.TrimSpace(*req.Location)
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}
	if req.Date != nil {
		date, err := parseDate(strings.TrimSpace(*req.Date), s.location, time.Time{})
		if err != nil || date.IsZero() {
			return Photo{}, ErrInvalidDate
		}
		set["date"] = date
	}
	if req.Category != nil {
		cat, err := s.categories.Resolve(ctx, *req.Category, models.CategoryPhoto)
		if err != nil {
			return Photo{}, err
		}
		set["category"] = cat.ID
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Photo{}, ErrNotFound
		}
		return Photo{}, err
	}
	if err := s.populateOne(ctx, &updated); err != nil {
		return Photo{}, err
	}
	return updated, nil
}

// ApplyImageAction runs one add/delete/updateAlt mutation against the image
// list, guarded against concurrent writers.
func (s *Service) ApplyImageAction(ctx context.Context, id string, action ImageAction) (Photo, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return Photo{}, err
	}
	prevLen := len(item.Images)
	now := time.Now().In(s.location)

	var next []images.Image
	var removed images.Image

	switch action.Kind {
	case "add":
		if action.File == nil {
			return Photo{}, errors.New("image file is required for add")
		}
		alt := strings.TrimSpace(action.Alt)
		if alt == "" {
			return Photo{}, images.ErrInvalidAltText
		}
		if prevLen >= images.MaxPerPostUpdate {
			return Photo{}, images.ErrCollectionFull
		}
		res, err := s.store.UploadImage(ctx, action.File)
		if err != nil {
			return Photo{}, err
		}
		next, err = images.Add(item.Images, images.Image{Src: res.URL, Alt: alt, PublicID: res.PublicID}, images.MaxPerPostUpdate)
		if err != nil {
			s.destroyBlob(ctx, res.PublicID)
			return Photo{}, err
		}
		ok, err := s.repo.ReplaceImages(ctx, item.ID, prevLen, next, now)
		if err != nil {
			return Photo{}, err
		}
		if !ok {
			s.destroyBlob(ctx, res.PublicID)
			return Photo{}, ErrImagesChanged
		}

	case "delete":
		next, removed, err = images.Remove(item.Images, action.Index)
		if err != nil {
			return Photo{}, err
		}
		ok, err := s.repo.ReplaceImages(ctx, item.ID, prevLen, next, now)
		if err != nil {
			return Photo{}, err
		}
		if !ok {
			return Photo{}, ErrImagesChanged
		}
		s.destroyBlob(ctx, removed.PublicID)

	case "updateAlt":
		next, err = images.RenameAlt(item.Images, action.Index, action.Alt)
		if err != nil {
			return Photo{}, err
		}
		ok, err := s.repo.ReplaceImages(ctx, item.ID, prevLen, next, now)
		if err != nil {
			return Photo{}, err
		}
		if !ok {
			return Photo{}, ErrImagesChanged
		}

	default:
		return Photo{}, fmt.Errorf("unknown image action %q", action.Kind)
	}

	item.Images = next
	item.UpdatedAt = now
	if err := s.populateOne(ctx, &item); err != nil {
		return Photo{}, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, item.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.cleanupBlobs(ctx, item.Images)
	return nil
}

// UsesCategory backs the category-delete guard.
func (s *Service) UsesCategory(ctx context.Context, categoryID string) (bool, error) {
	return s.repo.ExistsByCategory(ctx, categoryID)
}

func (s *Service) find(ctx context.Context, id string) (Photo, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Photo{}, ErrNotFound
		}
		return Photo{}, err
	}
	return item, nil
}

func (s *Service) cleanupBlobs(ctx context.Context, imgs []images.Image) {
	for _, img := range imgs {
		s.destroyBlob(ctx, img.PublicID)
	}
}

func (s *Service) destroyBlob(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := s.store.Destroy(ctx, publicID); err != nil {
		s.log.Warn("photo blob cleanup failed", slog.String("public_id", publicID), slog.String("error", err.Error()))
	}
}

func (s *Service) populateOne(ctx context.Context, item *Photo) error {
	items := []Photo{*item}
	if err := s.populate(ctx, items); err != nil {
		return err
	}
	*item = items[0]
	return nil
}

func (s *Service) populate(ctx context.Context, items []Photo) error {
	refs := make(map[string]*categories.Ref)
	for i := range items {
		ref, seen := refs[items[i].CategoryID]
		if !seen {
			cat, err := s.categories.Get(ctx, items[i].CategoryID)
			switch {
			case err == nil:
				r := cat.Ref()
				ref = &r
			case errors.Is(err, categories.ErrNotFound):
				// category deleted after the post was created
				ref = nil
			default:
				return err
			}
			refs[items[i].CategoryID] = ref
		}
		items[i].Category = ref
	}
	return nil
}
