package testimonials

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("testimonial not found")
	ErrDuplicate = errors.New("this testimonial already exists")
)

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

var listSortFields = map[string]string{
	"createdAt": "createdAt",
	"rate":      "rate",
	"name":      "name",
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Testimonial, int64, error) {
	query := bson.M{}

	if f.Rate > 0 {
		query["rate"] = f.Rate
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		regex := bson.M{"$regex": q, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"quote": regex},
			bson.M{"profession": regex},
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
	return items, total, nil
}

func (s *Service) ListActive(ctx context.Context, page, limit int64) ([]Testimonial, int64, error) {
	query := bson.M{"isActive": true}
	sort := bson.D{{Key: "createdAt", Value: -1}}

	items, err := s.repo.List(ctx, query, sort, page, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Featured returns the best-rated active testimonials.
func (s *Service) Featured(ctx context.Context, limit int64) ([]Testimonial, error) {
	query := bson.M{"isActive": true}
	sort := bson.D{
		{Key: "rate", Value: -1},
		{Key: "createdAt", Value: -1},
	}
	return s.repo.List(ctx, query, sort, 1, limit)
}

func (s *Service) Get(ctx context.Context, id string) (Testimonial, error) {
	return s.find(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Testimonial, error) {
	name := strings.TrimSpace(req.Name)
	quote := strings.TrimSpace(req.Quote)

	dup, err := s.repo.ExistsDuplicate(ctx, name, quote, "")
	if err != nil {
		return Testimonial{}, err
	}
	if dup {
		return Testimonial{}, ErrDuplicate
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := time.Now().In(s.location)
	item := Testimonial{
		ID:         primitive.NewObjectID().Hex(),
		Quote:      quote,
		Name:       name,
		Profession: strings.TrimSpace(req.Profession),
		Rate:       req.Rate,
		IsActive:   active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return Testimonial{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Testimonial, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		return Testimonial{}, err
	}

	name := existing.Name
	quote := existing.Quote
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if req.Quote != nil {
		quote = strings.TrimSpace(*req.Quote)
	}
	if req.Name != nil || req.Quote != nil {
		dup, err := s.repo.ExistsDuplicate(ctx, name, quote, existing.ID)
		if err != nil {
			return Testimonial{}, err
		}
		if dup {
			return Testimonial{}, ErrDuplicate
		}
	}

	set := bson.M{"updatedAt": time.Now().In(s.location)}
	if req.Name != nil {
		set["name"] = name
	}
	if req.Quote != nil {
		set["quote"] = quote
	}
	if req.Profession != nil {
		set["profession"] = strings.TrimSpace(*req.Profession)
	}
	if req.Rate != nil {
		set["rate"] = *req.Rate
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}

	updated, err := s.repo.Update(ctx, existing.ID, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Testimonial{}, ErrNotFound
		}
		return Testimonial{}, err
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
	return nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	total, err := s.repo.Count(ctx, bson.M{})
	if err != nil {
		return Stats{}, err
	}
	active, err := s.repo.Count(ctx, bson.M{"isActive": true})
	if err != nil {
		return Stats{}, err
	}
	recent, err := s.repo.CountSince(ctx, time.Now().In(s.location).AddDate(0, 0, -30))
	if err != nil {
		return Stats{}, err
	}
	avg, max, min, err := s.repo.RatingStats(ctx)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		Total:     total,
		Active:    active,
		Inactive:  total - active,
		Recent:    recent,
		AvgRating: math.Round(avg*10) / 10,
		MaxRating: max,
		MinRating: min,
	}, nil
}

func (s *Service) find(ctx context.Context, id string) (Testimonial, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Testimonial{}, ErrNotFound
		}
		return Testimonial{}, err
	}
	return item, nil
}
