package categories

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items   []Category
	deleted []string
}

func (f *fakeRepo) Insert(ctx context.Context, item Category) error {
	f.items = append(f.items, item)
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (Category, error) {
	for _, item := range f.items {
		if item.ID == id {
			return item, nil
		}
	}
	return Category{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) FindByIDAndType(ctx context.Context, id, categoryType string) (Category, error) {
	for _, item := range f.items {
		if item.ID == id && item.Type == categoryType {
			return item, nil
		}
	}
	return Category{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) FindByNameAndType(ctx context.Context, name, categoryType string) (Category, error) {
	for _, item := range f.items {
		if item.Name == name && item.Type == categoryType {
			return item, nil
		}
	}
	return Category{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) ListByType(ctx context.Context, categoryType string) ([]Category, error) {
	out := make([]Category, 0)
	for _, item := range f.items {
		if item.Type == categoryType {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]Category, error) {
	return f.items, nil
}

func (f *fakeRepo) UpdateName(ctx context.Context, id, name string) (Category, error) {
	for i, item := range f.items {
		if item.ID == id {
			f.items[i].Name = name
			return f.items[i], nil
		}
	}
	return Category{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	for i, item := range f.items {
		if item.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			f.deleted = append(f.deleted, id)
			return true, nil
		}
	}
	return false, nil
}

func newTestService(repo Repository, checks ...UsageCheck) *Service {
	return NewService(repo, time.UTC, checks...)
}

const (
	rescueID = "64a000000000000000000001"
	// A stored category whose name is itself a valid hex id. Resolving that
	// name must keep returning it even after another category claims the hex
	// string as its id.
	trickyName = "64a0000000000000000000ff"
)

func seededRepo() *fakeRepo {
	return &fakeRepo{items: []Category{
		{ID: rescueID, Name: "Rescues", Type: "photo"},
		{ID: "64a000000000000000000002", Name: trickyName, Type: "photo"},
		{ID: trickyName, Name: "Adoptions", Type: "photo"},
		{ID: "64a000000000000000000003", Name: "Rescues", Type: "video"},
	}}
}

func TestResolveByID(t *testing.T) {
	svc := newTestService(seededRepo())

	got, err := svc.Resolve(context.Background(), rescueID, "photo")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.Name != "Rescues" || got.Type != "photo" {
		t.Fatalf("resolved wrong category: %+v", got)
	}
}

func TestResolveIDBeatsName(t *testing.T) {
	svc := newTestService(seededRepo())

	// trickyName is both the name of one category and the id of another.
	// The id match must win.
	got, err := svc.Resolve(context.Background(), trickyName, "photo")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.ID != trickyName || got.Name != "Adoptions" {
		t.Fatalf("id match should win over name match, got %+v", got)
	}
}

func TestResolveFallsBackToName(t *testing.T) {
	svc := newTestService(seededRepo())

	got, err := svc.Resolve(context.Background(), "Rescues", "video")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.ID != "64a000000000000000000003" {
		t.Fatalf("resolved wrong category: %+v", got)
	}
}

func TestResolveWrongType(t *testing.T) {
	svc := newTestService(seededRepo())

	// rescueID exists but with type photo; asking for video must miss on id,
	// miss on name, and come back invalid.
	_, err := svc.Resolve(context.Background(), rescueID, "video")
	var invalid *InvalidCategoryError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidCategoryError, got %v", err)
	}
	if invalid.Input != rescueID || invalid.Type != "video" {
		t.Fatalf("error carries wrong context: %+v", invalid)
	}
}

func TestResolveUnknownName(t *testing.T) {
	svc := newTestService(seededRepo())

	_, err := svc.Resolve(context.Background(), "No Such Category", "photo")
	var invalid *InvalidCategoryError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidCategoryError, got %v", err)
	}
}

func TestResolveEmptyInput(t *testing.T) {
	svc := newTestService(seededRepo())

	_, err := svc.Resolve(context.Background(), "   ", "photo")
	var invalid *InvalidCategoryError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidCategoryError, got %v", err)
	}
}

func TestDeleteRefusedWhileInUse(t *testing.T) {
	repo := seededRepo()
	svc := newTestService(repo, func(ctx context.Context, categoryID string) (bool, error) {
		return categoryID == rescueID, nil
	})

	err := svc.Delete(context.Background(), rescueID)
	if !errors.Is(err, ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("category deleted despite usage: %v", repo.deleted)
	}
}

func TestDeleteSucceedsWhenUnused(t *testing.T) {
	repo := seededRepo()
	svc := newTestService(repo, func(ctx context.Context, categoryID string) (bool, error) {
		return false, nil
	})

	if err := svc.Delete(context.Background(), rescueID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != rescueID {
		t.Fatalf("expected %s deleted, got %v", rescueID, repo.deleted)
	}
}

func TestDeleteUnknownCategory(t *testing.T) {
	svc := newTestService(seededRepo())

	err := svc.Delete(context.Background(), "64a0000000000000000000aa")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateTrimsName(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	item, err := svc.Create(context.Background(), CreateRequest{Name: "  Street Dogs  ", Type: "photo"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if item.Name != "Street Dogs" {
		t.Fatalf("name not trimmed: %q", item.Name)
	}
	if item.ID == "" {
		t.Fatalf("expected generated id")
	}
}
