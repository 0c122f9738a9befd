package blogs

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/categories"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/models"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("blog post not found")

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

func (s *Service) List(ctx context.Context, f ListFilter) ([]Blog, int64, error) {
	query := bson.M{}
	if f.Category != "" {
		cat, err := s.categories.Resolve(ctx, f.Category, models.CategoryBlogs)
		if err != nil {
			return nil, 0, err
		}
		query["category"] = cat.ID
	}

	items, err := s.repo.List(ctx, query, f.Page, f.Limit)
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

func (s *Service) Get(ctx context.Context, id string) (Blog, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return Blog{}, err
	}
	if err := s.populateOne(ctx, &item); err != nil {
		return Blog{}, err
	}
	return item, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Blog, error) {
	cat, err := s.categories.Resolve(ctx, req.Category, models.CategoryBlogs)
	if err != nil {
		return Blog{}, err
	}

	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = defaultAuthor
	}

	now := time.Now().In(s.location)
	item := Blog{
		ID:         primitive.NewObjectID().Hex(),
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		CategoryID: cat.ID,
		Image:      strings.TrimSpace(req.Image),
		Author:     author,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return Blog{}, err
	}
	ref := cat.Ref()
	item.Category = &ref
	return item, nil
}

// Update merges the submitted fields onto the stored post. Replacing the
// image destroys the old blob best-effort.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Blog, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		return Blog{}, err
	}

	set := bson.M{"updatedAt": time.Now().In(s.location)}
	oldImage := ""

	if req.Title != nil {
		set["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		set["content"] = *req.Content
	}
	if req.Author != nil {
		author := strings.TrimSpace(*req.Author)
		if author == "" {
			author = defaultAuthor
		}
		set["author"] = author
	}
	if req.Image != nil {
		image := strings.TrimSpace(*req.Image)
		if image != existing.Image {
			oldImage = existing.Image
		}
		set["image"] = image
	}
	if req.Category != nil {
		cat, err := s.categories.Resolve(ctx, *req.Category, models.CategoryBlogs)
		if err != nil {
			return Blog{}, err
		}
		set["category"] = cat.ID
	}

	updated, err := s.repo.Update(ctx, existing.ID, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Blog{}, ErrNotFound
		}
		return Blog{}, err
	}
	if oldImage != "" {
		s.destroyImage(ctx, oldImage)
	}
	if err := s.populateOne(ctx, &updated); err != nil {
		return Blog{}, err
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
	s.destroyImage(ctx, item.Image)
	return nil
}

func (s *Service) UsesCategory(ctx context.Context, categoryID string) (bool, error) {
	return s.repo.ExistsByCategory(ctx, categoryID)
}

func (s *Service) destroyImage(ctx context.Context, imageURL string) {
	publicID := ExtractPublicID(imageURL)
	if publicID == "" {
		return
	}
	if err := s.store.Destroy(ctx, publicID); err != nil {
		s.log.Warn("blog image cleanup failed", slog.String("public_id", publicID), slog.String("error", err.Error()))
	}
}

func (s *Service) find(ctx context.Context, id string) (Blog, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Blog{}, ErrNotFound
		}
		return Blog{}, err
	}
	return item, nil
}

func (s *Service) populateOne(ctx context.Context, item *Blog) error {
	items := []Blog{*item}
	if err := s.populate(ctx, items); err != nil {
		return err
	}
	*item = items[0]
	return nil
}

func (s *Service) populate(ctx context.Context, items []Blog) error {
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

var versionSegment = regexp.MustCompile(`^v\d+$`)

// ExtractPublicID recovers the Cloudinary public id from a delivery URL,
// e.g. .../image/upload/v123/prapti-foundation-images/dog.jpg ->
// prapti-foundation-images/dog. Returns "" for URLs that are not Cloudinary
// uploads.
func ExtractPublicID(imageURL string) string {
	idx := strings.Index(imageURL, "/upload/")
	if idx < 0 {
		return ""
	}
	rest := strings.TrimPrefix(imageURL[idx+len("/upload/"):], "/")
	parts := strings.Split(rest, "/")

	// drop version and transformation segments before the folder path
	start := 0
	for start < len(parts)-1 {
		seg := parts[start]
		if versionSegment.MatchString(seg) || looksLikeTransformation(seg) {
			start++
			continue
		}
		break
	}
	rest = strings.Join(parts[start:], "/")
	if rest == "" {
		return ""
	}
	if dot := strings.LastIndex(rest, "."); dot > strings.LastIndex(rest, "/") {
		rest = rest[:dot]
	}
	return rest
}

func looksLikeTransformation(seg string) bool {
	for _, p := range strings.Split(seg, ",") {
		if !strings.Contains(p, "_") {
			return false
		}
	}
	return true
}
