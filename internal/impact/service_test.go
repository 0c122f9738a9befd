package impact

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items map[string]Impact
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Impact)}
}

func (f *fakeRepo) Insert(_ context.Context, item Impact) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (Impact, error) {
	item, ok := f.items[id]
	if !ok {
		return Impact{}, mongo.ErrNoDocuments
	}
	return item, nil
}

func (f *fakeRepo) List(_ context.Context, _, _ int64) ([]Impact, error) {
	out := make([]Impact, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeRepo) Update(_ context.Context, id string, set bson.M) (Impact, error) {
	item, ok := f.items[id]
	if !ok {
		return Impact{}, mongo.ErrNoDocuments
	}
	if v, ok := set["dogsRescued"].(int64); ok {
		item.DogsRescued = v
	}
	if v, ok := set["dogsAdopted"].(int64); ok {
		item.DogsAdopted = v
	}
	if v, ok := set["volunteers"].(int64); ok {
		item.Volunteers = v
	}
	f.items[id] = item
	return item, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

func TestCreateRejectsAdoptedAboveRescued(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), UpsertRequest{DogsRescued: 10, DogsAdopted: 11, Volunteers: 5})
	if !errors.Is(err, ErrAdoptedExceedsRescued) {
		t.Fatalf("expected ErrAdoptedExceedsRescued, got %v", err)
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), UpsertRequest{DogsRescued: 120, DogsAdopted: 85, Volunteers: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DogsRescued != 120 || got.DogsAdopted != 85 || got.Volunteers != 30 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestUpdateRejectsAdoptedAboveRescued(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), UpsertRequest{DogsRescued: 50, DogsAdopted: 20})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(context.Background(), created.ID, UpsertRequest{DogsRescued: 10, DogsAdopted: 20})
	if !errors.Is(err, ErrAdoptedExceedsRescued) {
		t.Fatalf("expected ErrAdoptedExceedsRescued, got %v", err)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DogsRescued != 50 || got.DogsAdopted != 20 {
		t.Fatalf("record changed despite rejected update: %+v", got)
	}
}

func TestGetUnknown(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Get(context.Background(), "64a0000000000000000000aa")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUnknown(t *testing.T) {
	svc := NewService(newFakeRepo())

	if err := svc.Delete(context.Background(), "64a0000000000000000000aa"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
