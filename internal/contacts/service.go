package contacts

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/captcha"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/notifications"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("contact message not found")

type Service struct {
	repo       Repository
	guard      *captcha.Guard
	mailer     *notifications.BrevoClient
	adminEmail string
	location   *time.Location
	log        *slog.Logger
}

func NewService(repo Repository, guard *captcha.Guard, mailer *notifications.BrevoClient, adminEmail string, location *time.Location, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		guard:      guard,
		mailer:     mailer,
		adminEmail: adminEmail,
		location:   location,
		log:        log,
	}
}

// Send verifies the captcha, stores the message and alerts the admin inbox.
// The mail is best-effort: a delivery failure never fails the request.
func (s *Service) Send(ctx context.Context, req SendRequest) (Contact, error) {
	if err := s.guard.Check(ctx, req.RecaptchaToken); err != nil {
		return Contact{}, err
	}

	item := Contact{
		ID:        primitive.NewObjectID().Hex(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		IsRead:    false,
		CreatedAt: time.Now().In(s.location),
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return Contact{}, err
	}

	if s.mailer != nil && s.adminEmail != "" {
		if _, err := s.mailer.SendContactAlert(ctx, s.adminEmail, item.Name, item.Email, item.Subject, item.Message); err != nil {
			s.log.Warn("contact alert mail failed", slog.String("contact_id", item.ID), slog.String("error", err.Error()))
		}
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Contact, int64, int64, error) {
	query := bson.M{}
	if f.Read != nil {
		query["isRead"] = *f.Read
	}

	items, err := s.repo.List(ctx, query, f.Page, f.Limit)
	if err != nil {
		return nil, 0, 0, err
	}
	total, err := s.repo.Count(ctx, query)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.repo.Count(ctx, bson.M{"isRead": false})
	if err != nil {
		return nil, 0, 0, err
	}
	return items, total, unread, nil
}

// Get returns a message and marks it read in the same step.
func (s *Service) Get(ctx context.Context, id string) (Contact, error) {
	return s.markRead(ctx, id)
}

func (s *Service) MarkRead(ctx context.Context, id string) (Contact, error) {
	return s.markRead(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) markRead(ctx context.Context, id string) (Contact, error) {
	item, err := s.repo.MarkRead(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Contact{}, ErrNotFound
		}
		return Contact{}, err
	}
	return item, nil
}
