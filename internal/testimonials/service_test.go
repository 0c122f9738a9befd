package testimonials

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items map[string]Testimonial
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Testimonial)}
}

func (f *fakeRepo) Insert(ctx context.Context, item Testimonial) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (Testimonial, error) {
	item, ok := f.items[id]
	if !ok {
		return Testimonial{}, mongo.ErrNoDocuments
	}
	return item, nil
}

func (f *fakeRepo) List(ctx context.Context, query bson.M, sort bson.D, page, limit int64) ([]Testimonial, error) {
	out := make([]Testimonial, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepo) Count(ctx context.Context, query bson.M) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, set bson.M) (Testimonial, error) {
	item, ok := f.items[id]
	if !ok {
		return Testimonial{}, mongo.ErrNoDocuments
	}
	if name, ok := set["name"].(string); ok {
		item.Name = name
	}
	if quote, ok := set["quote"].(string); ok {
		item.Quote = quote
	}
	if rate, ok := set["rate"].(float64); ok {
		item.Rate = rate
	}
	f.items[id] = item
	return item, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

func (f *fakeRepo) ExistsDuplicate(ctx context.Context, name, quote, excludeID string) (bool, error) {
	for id, item := range f.items {
		if id == excludeID {
			continue
		}
		if item.Name == name && item.Quote == quote {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) RatingStats(ctx context.Context) (float64, float64, float64, error) {
	if len(f.items) == 0 {
		return 0, 0, 0, nil
	}
	var sum float64
	max := -1.0
	min := 6.0
	for _, item := range f.items {
		sum += item.Rate
		if item.Rate > max {
			max = item.Rate
		}
		if item.Rate < min {
			min = item.Rate
		}
	}
	return sum / float64(len(f.items)), max, min, nil
}

func (f *fakeRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	for _, item := range f.items {
		if !item.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

const quote = "The shelter took wonderful care of the dog we found."

func TestCreateRejectsDuplicate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC)

	req := CreateRequest{Quote: quote, Name: "Anita Das", Profession: "Teacher", Rate: 4.5}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("first Create error: %v", err)
	}
	if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateTrimsBeforeDuplicateCheck(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC)

	if _, err := svc.Create(context.Background(), CreateRequest{
		Quote: quote, Name: "Anita Das", Profession: "Teacher", Rate: 4,
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	_, err := svc.Create(context.Background(), CreateRequest{
		Quote: "  " + quote + "  ", Name: " Anita Das ", Profession: "Teacher", Rate: 5,
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("whitespace variant not treated as duplicate: %v", err)
	}
}

func TestUpdateDuplicateExcludesSelf(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC)

	item, err := svc.Create(context.Background(), CreateRequest{
		Quote: quote, Name: "Anita Das", Profession: "Teacher", Rate: 4,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// re-submitting its own name and quote is not a duplicate
	name := "Anita Das"
	q := quote
	if _, err := svc.Update(context.Background(), item.ID, UpdateRequest{Name: &name, Quote: &q}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
}

func TestUpdateDetectsCollision(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC)

	if _, err := svc.Create(context.Background(), CreateRequest{
		Quote: quote, Name: "Anita Das", Profession: "Teacher", Rate: 4,
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	other, err := svc.Create(context.Background(), CreateRequest{
		Quote: "A different quote about the foundation's work.", Name: "Ravi Bora", Profession: "Engineer", Rate: 5,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	name := "Anita Das"
	q := quote
	_, err = svc.Update(context.Background(), other.ID, UpdateRequest{Name: &name, Quote: &q})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestStatsRoundsAverage(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC)

	ratings := []float64{5, 4.5, 3}
	for i, rate := range ratings {
		if _, err := svc.Create(context.Background(), CreateRequest{
			Quote:      quote + string(rune('a'+i)),
			Name:       "Person",
			Profession: "Visitor",
			Rate:       rate,
		}); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.Total != 3 || stats.Active != 3 || stats.Inactive != 0 {
		t.Fatalf("wrong counts: %+v", stats)
	}
	if stats.AvgRating != 4.2 {
		t.Fatalf("average not rounded to one decimal: %v", stats.AvgRating)
	}
	if stats.MaxRating != 5 || stats.MinRating != 3 {
		t.Fatalf("wrong min/max: %+v", stats)
	}
}
