package impact

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("impact record not found")

	// ErrAdoptedExceedsRescued rejects numbers that cannot be true:
	// every adopted dog was rescued first.
	ErrAdoptedExceedsRescued = errors.New("dogsAdopted cannot exceed dogsRescued")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, page, limit int64) ([]Impact, int64, error) {
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

func (s *Service) Get(ctx context.Context, id string) (Impact, error) {
	item, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Impact{}, ErrNotFound
	}
	if err != nil {
		return Impact{}, err
	}
	return item, nil
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Impact, error) {
	if req.DogsAdopted > req.DogsRescued {
		return Impact{}, ErrAdoptedExceedsRescued
	}

	now := time.Now().UTC()
	item := Impact{
		ID:          primitive.NewObjectID().Hex(),
		DogsRescued: req.DogsRescued,
		DogsAdopted: req.DogsAdopted,
		Volunteers:  req.Volunteers,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return Impact{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Impact, error) {
	if req.DogsAdopted > req.DogsRescued {
		return Impact{}, ErrAdoptedExceedsRescued
	}

	set := bson.M{
		"dogsRescued": req.DogsRescued,
		"dogsAdopted": req.DogsAdopted,
		"volunteers":  req.Volunteers,
		"updatedAt":   time.Now().UTC(),
	}
	updated, err := s.repo.Update(ctx, id, set)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Impact{}, ErrNotFound
	}
	if err != nil {
		return Impact{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
