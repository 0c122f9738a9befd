package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("category not found")
	ErrInUse     = errors.New("category is in use")
	ErrDuplicate = errors.New("category already exists for this type")
)

// InvalidCategoryError reports a resolve input that matched nothing for the
// requested type, neither as an id nor as a name.
type InvalidCategoryError struct {
	Input string
	Type  string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid category %q for type %s", e.Input, e.Type)
}

// UsageCheck reports whether any entity still references the category.
type UsageCheck func(ctx context.Context, categoryID string) (bool, error)

type Service struct {
	repo        Repository
	location    *time.Location
	usageChecks []UsageCheck
}

func NewService(repo Repository, location *time.Location, usageChecks ...UsageCheck) *Service {
	return &Service{
		repo:        repo,
		location:    location,
		usageChecks: usageChecks,
	}
}

// RegisterUsageCheck adds a reference check consulted before delete. Entity
// services register themselves here during wiring.
func (s *Service) RegisterUsageCheck(check UsageCheck) {
	s.usageChecks = append(s.usageChecks, check)
}

// Resolve maps a client-supplied category reference to a stored category of
// the given type. A 24-hex input is tried as an id first; only a clean miss
// falls through to the name lookup, so a name that happens to look like an
// id can never shadow a real id.
func (s *Service) Resolve(ctx context.Context, input, categoryType string) (Category, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Category{}, &InvalidCategoryError{Input: input, Type: categoryType}
	}

	if primitive.IsValidObjectID(input) {
		item, err := s.repo.FindByIDAndType(ctx, input, categoryType)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return Category{}, err
		}
	}

	item, err := s.repo.FindByNameAndType(ctx, input, categoryType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Category{}, &InvalidCategoryError{Input: input, Type: categoryType}
		}
		return Category{}, err
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, id string) (Category, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Category{}, ErrNotFound
		}
		return Category{}, err
	}
	return item, nil
}

func (s *Service) ListByType(ctx context.Context, categoryType string) ([]Category, error) {
	return s.repo.ListByType(ctx, categoryType)
}

func (s *Service) ListAll(ctx context.Context) ([]Category, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Category, error) {
	item := Category{
		ID:        primitive.NewObjectID().Hex(),
		Name:      strings.TrimSpace(req.Name),
		Type:      req.Type,
		CreatedAt: time.Now().In(s.location),
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Category{}, ErrDuplicate
		}
		return Category{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Category, error) {
	updated, err := s.repo.UpdateName(ctx, strings.TrimSpace(id), strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Category{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return Category{}, ErrDuplicate
		}
		return Category{}, err
	}
	return updated, nil
}

// Delete removes a category unless an entity still references it. The check
// and the delete are separate reads, so a concurrent create can slip between
// them; posts keep working because categories embed by reference.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	for _, check := range s.usageChecks {
		inUse, err := check(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return ErrInUse
		}
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
