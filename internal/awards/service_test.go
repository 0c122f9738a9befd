package awards

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/categories"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/images"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const awardCategoryID = "64c000000000000000000001"

type fakeCategoryRepo struct {
	items []categories.Category
}

func (f *fakeCategoryRepo) Insert(ctx context.Context, item categories.Category) error {
	f.items = append(f.items, item)
	return nil
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id string) (categories.Category, error) {
	for _, item := range f.items {
		if item.ID == id {
			return item, nil
		}
	}
	return categories.Category{}, mongo.ErrNoDocuments
}

func (f *fakeCategoryRepo) FindByIDAndType(ctx context.Context, id, t string) (categories.Category, error) {
	for _, item := range f.items {
		if item.ID == id && item.Type == t {
			return item, nil
		}
	}
	return categories.Category{}, mongo.ErrNoDocuments
}

func (f *fakeCategoryRepo) FindByNameAndType(ctx context.Context, name, t string) (categories.Category, error) {
	for _, item := range f.items {
		if item.Name == name && item.Type == t {
			return item, nil
		}
	}
	return categories.Category{}, mongo.ErrNoDocuments
}

func (f *fakeCategoryRepo) ListByType(ctx context.Context, t string) ([]categories.Category, error) {
	return f.items, nil
}

func (f *fakeCategoryRepo) ListAll(ctx context.Context) ([]categories.Category, error) {
	return f.items, nil
}

func (f *fakeCategoryRepo) UpdateName(ctx context.Context, id, name string) (categories.Category, error) {
	return categories.Category{}, mongo.ErrNoDocuments
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	return false, nil
}

type fakeRepo struct {
	items     map[string]Award
	replaceOK bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Award), replaceOK: true}
}

func (f *fakeRepo) Insert(ctx context.Context, item Award) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (Award, error) {
	item, ok := f.items[id]
	if !ok {
		return Award{}, mongo.ErrNoDocuments
	}
	return item, nil
}

func (f *fakeRepo) List(ctx context.Context, query bson.M, sort bson.D, page, limit int64) ([]Award, error) {
	out := make([]Award, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepo) Count(ctx context.Context, query bson.M) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, set bson.M) (Award, error) {
	item, ok := f.items[id]
	if !ok {
		return Award{}, mongo.ErrNoDocuments
	}
	if title, ok := set["title"].(string); ok {
		item.Title = title
	}
	if active, ok := set["isActive"].(bool); ok {
		item.IsActive = active
	}
	f.items[id] = item
	return item, nil
}

func (f *fakeRepo) ReplaceImages(ctx context.Context, id string, prevLen int, imgs []images.Image, now time.Time) (bool, error) {
	if !f.replaceOK {
		return false, nil
	}
	item, ok := f.items[id]
	if !ok {
		return false, nil
	}
	if len(item.Images) != prevLen {
		return false, nil
	}
	item.Images = imgs
	f.items[id] = item
	return true, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

func (f *fakeRepo) ExistsByCategory(ctx context.Context, categoryID string) (bool, error) {
	for _, item := range f.items {
		if item.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

type fakeStore struct {
	uploads   int
	destroyed []string
}

func (f *fakeStore) UploadImage(ctx context.Context, file io.Reader) (storage.UploadResult, error) {
	f.uploads++
	id := fmt.Sprintf("prapti-foundation-images/award-%d", f.uploads)
	return storage.UploadResult{URL: "https://res.example.com/" + id + ".jpg", PublicID: id}, nil
}

func (f *fakeStore) UploadVideo(ctx context.Context, file io.Reader) (storage.UploadResult, error) {
	return storage.UploadResult{}, errors.New("not a video store")
}

func (f *fakeStore) Destroy(ctx context.Context, publicID string) error {
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

func (f *fakeStore) DestroyVideo(ctx context.Context, publicID string) error {
	return errors.New("not a video store")
}

func (f *fakeStore) ThumbnailURL(videoPublicID string) string {
	return ""
}

func newTestService(repo *fakeRepo, store *fakeStore) *Service {
	catRepo := &fakeCategoryRepo{items: []categories.Category{
		{ID: awardCategoryID, Name: "Recognition", Type: "award"},
	}}
	cats := categories.NewService(catRepo, time.UTC)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, cats, store, time.UTC, log)
}

func storedImages(n int) []images.Image {
	list := make([]images.Image, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, images.Image{
			Src:      fmt.Sprintf("https://res.example.com/award-img-%d.jpg", i),
			Alt:      fmt.Sprintf("ceremony %d", i),
			PublicID: fmt.Sprintf("prapti-foundation-images/award-img-%d", i),
		})
	}
	return list
}

func seedAward(repo *fakeRepo, n int, active bool) Award {
	item := Award{
		ID:         "64c0000000000000000000aa",
		Title:      "Community service award",
		Images:     storedImages(n),
		CategoryID: awardCategoryID,
		IsActive:   active,
	}
	repo.items[item.ID] = item
	return item
}

func TestCreateResolvesCategoryByName(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeStore{})

	item, err := svc.Create(context.Background(), CreateRequest{
		Title:       "Community service award",
		Description: "Recognized for street rescue work",
		Images:      storedImages(2),
		Category:    "Recognition",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if item.CategoryID != awardCategoryID {
		t.Fatalf("category not resolved: %q", item.CategoryID)
	}
	if item.Category == nil || item.Category.Name != "Recognition" {
		t.Fatalf("category not populated: %+v", item.Category)
	}
}

func TestImageActionAddStopsAtTen(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	item := seedAward(repo, images.MaxPerPost, true)
	svc := newTestService(repo, store)

	_, err := svc.ApplyImageAction(context.Background(), item.ID, ImageAction{
		Kind: "add",
		Alt:  "eleventh",
		File: strings.NewReader("fake bytes"),
	})
	if !errors.Is(err, images.ErrCollectionFull) {
		t.Fatalf("expected ErrCollectionFull, got %v", err)
	}
	if store.uploads != 0 {
		t.Fatalf("file uploaded despite full collection")
	}
	if got := len(repo.items[item.ID].Images); got != images.MaxPerPost {
		t.Fatalf("stored list grew past the bound: %d images", got)
	}
}

func TestImageActionAddFillsToTen(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	item := seedAward(repo, images.MaxPerPost-1, true)
	svc := newTestService(repo, store)

	updated, err := svc.ApplyImageAction(context.Background(), item.ID, ImageAction{
		Kind: "add",
		Alt:  "tenth",
		File: strings.NewReader("fake bytes"),
	})
	if err != nil {
		t.Fatalf("ApplyImageAction error: %v", err)
	}
	if len(updated.Images) != images.MaxPerPost {
		t.Fatalf("expected %d images, got %d", images.MaxPerPost, len(updated.Images))
	}
}

func TestImageActionDeleteProtectsLastImage(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	item := seedAward(repo, 1, true)
	svc := newTestService(repo, store)

	_, err := svc.ApplyImageAction(context.Background(), item.ID, ImageAction{Kind: "delete", Index: 0})
	if !errors.Is(err, images.ErrLastImageProtected) {
		t.Fatalf("expected ErrLastImageProtected, got %v", err)
	}
	if len(store.destroyed) != 0 {
		t.Fatalf("blob destroyed despite rejection: %v", store.destroyed)
	}
}

func TestImageActionDeleteDestroysBlob(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	item := seedAward(repo, 3, true)
	svc := newTestService(repo, store)

	updated, err := svc.ApplyImageAction(context.Background(), item.ID, ImageAction{Kind: "delete", Index: 1})
	if err != nil {
		t.Fatalf("ApplyImageAction error: %v", err)
	}
	if len(updated.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(updated.Images))
	}
	if len(store.destroyed) != 1 || store.destroyed[0] != "prapti-foundation-images/award-img-1" {
		t.Fatalf("removed blob not destroyed: %v", store.destroyed)
	}
}

func TestImageActionAddConflictRollsBackBlob(t *testing.T) {
	repo := newFakeRepo()
	repo.replaceOK = false
	store := &fakeStore{}
	item := seedAward(repo, 2, true)
	svc := newTestService(repo, store)

	_, err := svc.ApplyImageAction(context.Background(), item.ID, ImageAction{
		Kind: "add",
		Alt:  "new photo",
		File: strings.NewReader("fake bytes"),
	})
	if !errors.Is(err, ErrImagesChanged) {
		t.Fatalf("expected ErrImagesChanged, got %v", err)
	}
	if len(store.destroyed) != 1 {
		t.Fatalf("orphaned blob not cleaned up: %v", store.destroyed)
	}
}

func TestUploadRejectsMoreThanTenFiles(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	svc := newTestService(repo, store)

	files := make([]FileUpload, images.MaxPerPost+1)
	for i := range files {
		files[i] = FileUpload{File: strings.NewReader("fake bytes"), Alt: fmt.Sprintf("img %d", i)}
	}

	_, err := svc.Upload(context.Background(), UploadMeta{
		Title:       "Community service award",
		Description: "desc",
		Category:    "Recognition",
	}, files)
	if !errors.Is(err, images.ErrCollectionFull) {
		t.Fatalf("expected ErrCollectionFull, got %v", err)
	}
	if store.uploads != 0 {
		t.Fatalf("files uploaded despite oversized batch")
	}
}

func TestDeleteDestroysAllBlobs(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	item := seedAward(repo, 3, true)
	svc := newTestService(repo, store)

	if err := svc.Delete(context.Background(), item.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(store.destroyed) != 3 {
		t.Fatalf("expected 3 destroyed blobs, got %v", store.destroyed)
	}
	if _, ok := repo.items[item.ID]; ok {
		t.Fatalf("award still present after delete")
	}
}
