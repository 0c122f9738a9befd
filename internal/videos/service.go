package videos

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/categories"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/models"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound    = errors.New("video not found")
	ErrDuplicate   = errors.New("video already exists")
	ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")
)

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

func (s *Service) List(ctx context.Context, f ListFilter) ([]Video, int64, error) {
	query := bson.M{"isActive": true}

	if f.Category != "" {
		cat, err := s.categories.Resolve(ctx, f.Category, models.CategoryVideo)
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

func (s *Service) Get(ctx context.Context, id string) (Video, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return Video{}, err
	}
	if !item.IsActive {
		return Video{}, ErrNotFound
	}
	if err := s.populateOne(ctx, &item); err != nil {
		return Video{}, err
	}
	return item, nil
}

// Upload stores the video and an optional thumbnail. Without a thumbnail
// file, a poster frame URL is derived from the video itself.
func (s *Service) Upload(ctx context.Context, meta UploadMeta, video io.Reader, thumbnail io.Reader) (Video, error) {
	cat, err := s.categories.Resolve(ctx, meta.Category, models.CategoryVideo)
	if err != nil {
		return Video{}, err
	}

	videoRes, err := s.store.UploadVideo(ctx, video)
	if err != nil {
		return Video{}, err
	}

	thumbnailURL := s.store.ThumbnailURL(videoRes.PublicID)
	thumbnailPublicID := ""
	if thumbnail != nil {
		thumbRes, err := s.store.UploadImage(ctx, thumbnail)
		if err != nil {
			s.destroyVideoBlob(ctx, videoRes.PublicID)
			return Video{}, err
		}
		thumbnailURL = thumbRes.URL
		thumbnailPublicID = thumbRes.PublicID
	}

	now := time.Now().In(s.location)
	date, err := parseDate(strings.TrimSpace(meta.Date), s.location, now)
	if err != nil {
		s.destroyVideoBlob(ctx, videoRes.PublicID)
		s.destroyImageBlob(ctx, thumbnailPublicID)
		return Video{}, ErrInvalidDate
	}

	item := Video{
		ID:                primitive.NewObjectID().Hex(),
		Title:             strings.TrimSpace(meta.Title),
		Description:       strings.TrimSpace(meta.Description),
		Thumbnail:         thumbnailURL,
		VideoURL:          videoRes.URL,
		Date:              date,
		CategoryID:        cat.ID,
		Duration:          strings.TrimSpace(meta.Duration),
		PublicID:          videoRes.PublicID,
		ThumbnailPublicID: thumbnailPublicID,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		s.destroyVideoBlob(ctx, videoRes.PublicID)
		s.destroyImageBlob(ctx, thumbnailPublicID)
		if mongo.IsDuplicateKeyError(err) {
			return Video{}, ErrDuplicate
		}
		return Video{}, err
	}
	ref := cat.Ref()
	item.Category = &ref
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Video, error) {
	set := bson.M{"updatedAt": time.Now().In(s.location)}

	if req.Title != nil {
		set["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Duration != nil {
		set["duration"] = strings.TrimSpace(*req.Duration)
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}
	if req.Date != nil {
		date, err := parseDate(strings.TrimSpace(*req.Date), s.location, time.Time{})
		if err != nil || date.IsZero() {
			return Video{}, ErrInvalidDate
		}
		set["date"] = date
	}
	if req.Category != nil {
		cat, err := s.categories.Resolve(ctx, *req.Category, models.CategoryVideo)
		if err != nil {
			return Video{}, err
		}
		set["category"] = cat.ID
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Video{}, ErrNotFound
		}
		return Video{}, err
	}
	if err := s.populateOne(ctx, &updated); err != nil {
		return Video{}, err
	}
	return updated, nil
}

// Delete removes the document first, then both blobs best-effort.
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
	s.destroyVideoBlob(ctx, item.PublicID)
	s.destroyImageBlob(ctx, item.ThumbnailPublicID)
	return nil
}

func (s *Service) UsesCategory(ctx context.Context, categoryID string) (bool, error) {
	return s.repo.ExistsByCategory(ctx, categoryID)
}

func (s *Service) find(ctx context.Context, id string) (Video, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Video{}, ErrNotFound
		}
		return Video{}, err
	}
	return item, nil
}

func (s *Service) destroyVideoBlob(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := s.store.DestroyVideo(ctx, publicID); err != nil {
		s.log.Warn("video blob cleanup failed", slog.String("public_id", publicID), slog.String("error", err.Error()))
	}
}

func (s *Service) destroyImageBlob(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := s.store.Destroy(ctx, publicID); err != nil {
		s.log.Warn("thumbnail blob cleanup failed", slog.String("public_id", publicID), slog.String("error", err.Error()))
	}
}

func (s *Service) populateOne(ctx context.Context, item *Video) error {
	items := []Video{*item}
	if err := s.populate(ctx, items); err != nil {
		return err
	}
	*item = items[0]
	return nil
}

func (s *Service) populate(ctx context.Context, items []Video) error {
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
