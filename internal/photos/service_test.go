package photos

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

const photoCategoryID = "64b000000000000000000001"

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
	items          map[string]Photo
	replaceOK      bool
	replaceCalled  int
	lastReplaceLen int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Photo), replaceOK: true}
}

func (f *fakeRepo) Insert(ctx context.Context, item Photo) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (Photo, error) {
	item, ok := f.items[id]
	if !ok {
		return Photo{}, mongo.ErrNoDocuments
	}
	return item, nil
}

func (f *fakeRepo) List(ctx context.Context, query bson.M, sort bson.D, page, limit int64) ([]Photo, error) {
	out := make([]Photo, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepo) Count(ctx context.Context, query bson.M) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, set bson.M) (Photo, error) {
	item, ok := f.items[id]
	if !ok {
		return Photo{}, mongo.ErrNoDocuments
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
	f.replaceCalled++
	f.lastReplaceLen = prevLen
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
	failNext  bool
}

func (f *fakeStore) UploadImage(ctx context.Context, file io.Reader) (storage.UploadResult, error) {
	if f.failNext {
		f.failNext = false
		return storage.UploadResult{}, errors.New("upload failed")
	}
	f.uploads++
	id := fmt.Sprintf("prapti-foundation-images/up-%d", f.uploads)
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
		{ID: photoCategoryID, Name: "Rescues", Type: "photo"},
	}}
	cats := categories.NewService(catRepo, time.UTC)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, cats, store, time.UTC, log)
}

func storedImages(n int) []images.Image {
	list := make([]images.Image, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, images.Image{
			Src:      fmt.Sprintf("https://res.example.com/img-%d.jpg", i),
			Alt:      fmt.Sprintf("dog %d", i),
			PublicID: fmt.Sprintf("prapti-foundation-images/img-%d", i),
		})
	}
	return list
}

func seedPhoto(repo *fakeRepo, n int, active bool) Photo {
	item := Photo{
		ID:         "64b0000000000000000000aa",
		Title:      "Rescue day",
		Images:     storedImages(n),
		CategoryID: photoCategoryID,
		IsActive:   active,
	}
	repo.items[item.ID] = item
	return item
}

func TestCreateResolvesCategoryByName(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeStore{})

	item, err := svc.Create(context.Background(), CreateRequest{
		Title:       "Rescue day",
		Description: "A long day in the field",
		Images:      storedImages(2),
		Category:    "Rescues",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if item.CategoryID != photoCategoryID {
		t.Fatalf("category not resolved: %q", item.CategoryID)
	}
	if item.Category == nil || item.Category.Name != "Rescues" {
		t.Fatalf("category not populated: %+v", item.Category)
	}
	if !item.IsActive {
		t.Fatalf("new photo should be active")
	}
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeStore{})

	_, err := svc.Create(context.Background(), CreateRequest{
		Title:       "x",
		Description: "y",
		Images:      storedImages(1),
		Category:    "No Such",
	})
	var invalid *categories.InvalidCategoryError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidCategoryError, got %v", err)
	}
}

func TestGetHidesInactive(t *testing.T) {
	repo := newFakeRepo()
	item := seedPhoto(repo, 2, false)
	svc := newTestService(repo, &fakeStore{})

	_, err := svc.Get(context.Background(), item.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for inactive photo, got %v", err)
	}
}

func TestImageActionDeleteDestroysBlob(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	item := seedPhoto(repo, 3, true)
	svc := newTestService(repo, store)

	updated, err := svc.ApplyImageAction(context.Background(), item.ID, ImageAction{Kind: "delete", Index: 1})
	if err != nil {
		t.Fatalf("ApplyImageAction error: %v", err)
	}
	if len(updated.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(updated.Images))
	}
	if len(store.destroyed) != 1 || store.destroyed[0] != "prapti-foundation-images/img-1" {
		t.Fatalf("removed blob not destroyed: %v", store.destroyed)
	}
}

func TestImageActionDeleteProtectsLastImage(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	item := seedPhoto(repo, 1, true)
	svc := newTestService(repo, store)

	_, err := svc.ApplyImageAction(context.Background(), item.ID, ImageAction{Kind: "delete", Index: 0})
	if !errors.Is(err, images.ErrLastImageProtected) {
		t.Fatalf("expected ErrLastImageProtected, got %v", err)
	}
	if len(store.destroyed) != 0 {
		t.Fatalf("blob destroyed despite rejection: %v", store.destroyed)
	}
}

func TestImageActionAddConflictRollsBackBlob(t *testing.T) {
	repo := newFakeRepo()
	repo.replaceOK = false
	store := &fakeStore{}
	item := seedPhoto(repo, 2, true)
	svc := newTestService(repo, store)

	_, err := svc.ApplyImageAction(context.Background(), item.ID, ImageAction{
		Kind: "add",
		Alt:  "new dog",
		File: strings.NewReader("fake bytes"),
	})
	if !errors.Is(err, ErrImagesChanged) {
		t.Fatalf("expected ErrImagesChanged, got %v", err)
	}
	if len(store.destroyed) != 1 {
		t.Fatalf("orphaned blob not cleaned up: %v", store.destroyed)
	}
}

func TestImageActionAddRespectsUpdateCap(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	item := seedPhoto(repo, images.MaxPerPostUpdate, true)
	svc := newTestService(repo, store)

	_, err := svc.ApplyImageAction(context.Background(), item.ID, ImageAction{
		Kind: "add",
		Alt:  "one too many",
		File: strings.NewReader("fake bytes"),
	})
	if !errors.Is(err, images.ErrCollectionFull) {
		t.Fatalf("expected ErrCollectionFull, got %v", err)
	}
	if store.uploads != 0 {
		t.Fatalf("file uploaded despite full collection")
	}
}

func TestUploadMultipleCleansUpOnFailure(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	svc := newTestService(repo, store)

	// second upload fails, the first blob must be destroyed
	files := []FileUpload{
		{File: strings.NewReader("one"), Alt: "one"},
		{File: strings.NewReader("two"), Alt: "two"},
	}
	uploadedThenFail := &failSecondStore{inner: store}
	svc2 := NewService(repo, svc.categories, uploadedThenFail, time.UTC, svc.log)

	_, err := svc2.UploadMultiple(context.Background(), UploadMeta{
		Title:       "Rescue day",
		Description: "desc",
		Category:    "Rescues",
	}, files)
	if err == nil {
		t.Fatalf("expected upload error")
	}
	if len(store.destroyed) != 1 {
		t.Fatalf("first blob not cleaned up: %v", store.destroyed)
	}
	if len(repo.items) != 0 {
		t.Fatalf("photo persisted despite failed upload")
	}
}

type failSecondStore struct {
	inner *fakeStore
	calls int
}

func (f *failSecondStore) UploadImage(ctx context.Context, file io.Reader) (storage.UploadResult, error) {
	f.calls++
	if f.calls == 2 {
		return storage.UploadResult{}, errors.New("upload failed")
	}
	return f.inner.UploadImage(ctx, file)
}

func (f *failSecondStore) UploadVideo(ctx context.Context, file io.Reader) (storage.UploadResult, error) {
	return f.inner.UploadVideo(ctx, file)
}

func (f *failSecondStore) Destroy(ctx context.Context, publicID string) error {
	return f.inner.Destroy(ctx, publicID)
}

func (f *failSecondStore) DestroyVideo(ctx context.Context, publicID string) error {
	return f.inner.DestroyVideo(ctx, publicID)
}

func (f *failSecondStore) ThumbnailURL(videoPublicID string) string {
	return f.inner.ThumbnailURL(videoPublicID)
}

func TestDeleteDestroysAllBlobs(t *testing.T) {
	repo := newFakeRepo()
	store := &fakeStore{}
	item := seedPhoto(repo, 3, true)
	svc := newTestService(repo, store)

	if err := svc.Delete(context.Background(), item.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(store.destroyed) != 3 {
		t.Fatalf("expected 3 destroyed blobs, got %v", store.destroyed)
	}
	if _, ok := repo.items[item.ID]; ok {
		t.Fatalf("photo still present after delete")
	}
}

func TestUsesCategory(t *testing.T) {
	repo := newFakeRepo()
	seedPhoto(repo, 1, true)
	svc := newTestService(repo, &fakeStore{})

	inUse, err := svc.UsesCategory(context.Background(), photoCategoryID)
	if err != nil || !inUse {
		t.Fatalf("expected category in use, got %v %v", inUse, err)
	}
	inUse, err = svc.UsesCategory(context.Background(), "64b0000000000000000000ff")
	if err != nil || inUse {
		t.Fatalf("expected category unused, got %v %v", inUse, err)
	}
}
