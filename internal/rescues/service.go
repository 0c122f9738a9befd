package rescues

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("rescue post not found")

type Service struct {
	repo     Repository
	store    storage.Storage
	location *time.Location
	log      *slog.Logger
}

func NewService(repo Repository, store storage.Storage, location *time.Location, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		location: location,
		log:      log,
	}
}

func (s *Service) List(ctx context.Context, page, limit int64) ([]Rescue, int64, error) {
	items, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (Rescue, error) {
	return s.find(ctx, id)
}

// Create uploads the before and after images and writes the document. Both
// images are required; a failure rolls back any blob already stored.
func (s *Service) Create(ctx context.Context, meta CreateMeta, before, after io.Reader) (Rescue, error) {
	beforeRes, err := s.store.UploadImage(ctx, before)
	if err != nil {
		return Rescue{}, err
	}
	afterRes, err := s.store.UploadImage(ctx, after)
	if err != nil {
		s.destroyBlob(ctx, beforeRes.PublicID)
		return Rescue{}, err
	}

	now := time.Now().In(s.location)
	item := Rescue{
		ID:             primitive.NewObjectID().Hex(),
		Title:          strings.TrimSpace(meta.Title),
		Description:    strings.TrimSpace(meta.Description),
		BeforeImage:    beforeRes.URL,
		BeforePublicID: beforeRes.PublicID,
		AfterImage:     afterRes.URL,
		AfterPublicID:  afterRes.PublicID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		s.destroyBlob(ctx, beforeRes.PublicID)
		s.destroyBlob(ctx, afterRes.PublicID)
		return Rescue{}, err
	}
	return item, nil
}

// Update replaces text fields and/or either image. An image can only be
// swapped for a new one, never removed, so the pair stays complete. The
// replaced blob is destroyed best-effort after the write lands.
func (s *Service) Update(ctx context.Context, id string, meta UpdateMeta, before, after io.Reader) (Rescue, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		return Rescue{}, err
	}

	set := bson.M{"updatedAt": time.Now().In(s.location)}
	if meta.Title != "" {
		set["title"] = strings.TrimSpace(meta.Title)
	}
	if meta.Description != "" {
		set["description"] = strings.TrimSpace(meta.Description)
	}

	var oldBlobs []string
	var newBlobs []string

	if before != nil {
		res, err := s.store.UploadImage(ctx, before)
		if err != nil {
			return Rescue{}, err
		}
		set["beforeImage"] = res.URL
		set["beforePublicId"] = res.PublicID
		oldBlobs = append(oldBlobs, existing.BeforePublicID)
		newBlobs = append(newBlobs, res.PublicID)
	}
	if after != nil {
		res, err := s.store.UploadImage(ctx, after)
		if err != nil {
			for _, id := range newBlobs {
				s.destroyBlob(ctx, id)
			}
			return Rescue{}, err
		}
		set["afterImage"] = res.URL
		set["afterPublicId"] = res.PublicID
		oldBlobs = append(oldBlobs, existing.AfterPublicID)
		newBlobs = append(newBlobs, res.PublicID)
	}

	updated, err := s.repo.Update(ctx, existing.ID, set)
	if err != nil {
		for _, id := range newBlobs {
			s.destroyBlob(ctx, id)
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Rescue{}, ErrNotFound
		}
		return Rescue{}, err
	}
	for _, id := range oldBlobs {
		s.destroyBlob(ctx, id)
	}
	return updated, nil
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
	s.destroyBlob(ctx, item.BeforePublicID)
	s.destroyBlob(ctx, item.AfterPublicID)
	return nil
}

func (s *Service) find(ctx context.Context, id string) (Rescue, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Rescue{}, ErrNotFound
		}
		return Rescue{}, err
	}
	return item, nil
}

func (s *Service) destroyBlob(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := s.store.Destroy(ctx, publicID); err != nil {
		s.log.Warn("rescue blob cleanup failed", slog.String("public_id", publicID), slog.String("error", err.Error()))
	}
}
