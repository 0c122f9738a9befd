package volunteers

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/captcha"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/notifications"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("volunteer application not found")
	ErrDuplicate = errors.New("an application with this email already exists")
)

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

// Apply verifies the captcha and stores the application. One application per
// email; the unique index turns a re-submission into ErrDuplicate.
func (s *Service) Apply(ctx context.Context, req ApplyRequest) (Volunteer, error) {
	if err := s.guard.Check(ctx, req.RecaptchaToken); err != nil {
		return Volunteer{}, err
	}

	item := Volunteer{
		ID:           primitive.NewObjectID().Hex(),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		District:     strings.TrimSpace(req.District),
		State:        strings.TrimSpace(req.State),
		Pincode:      strings.TrimSpace(req.Pincode),
		Availability: req.Availability,
		Interests:    req.Interests,
		Experience:   strings.TrimSpace(req.Experience),
		Reason:       strings.TrimSpace(req.Reason),
		SubmittedAt:  time.Now().In(s.location),
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Volunteer{}, ErrDuplicate
		}
		return Volunteer{}, err
	}

	if s.mailer != nil && s.adminEmail != "" {
		if _, err := s.mailer.SendVolunteerAlert(ctx, s.adminEmail, item.FirstName, item.LastName, item.Email); err != nil {
			s.log.Warn("volunteer alert mail failed", slog.String("volunteer_id", item.ID), slog.String("error", err.Error()))
		}
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, page, limit int64) ([]Volunteer, int64, error) {
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

func (s *Service) Get(ctx context.Context, id string) (Volunteer, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Volunteer{}, ErrNotFound
		}
		return Volunteer{}, err
	}
	return item, nil
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
