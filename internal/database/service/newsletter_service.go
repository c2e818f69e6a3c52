package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/mailer"
)

const welcomeMailTimeout = 30 * time.Second

// BackgroundRunner is the part of worker.Pool the services need.
type BackgroundRunner interface {
	SubmitWithTimeout(timeout time.Duration, task func(ctx context.Context))
}

// NewsletterService defines the interface for newsletter subscriptions
type NewsletterService interface {
	Subscribe(ctx context.Context, email string) (*models.NewsletterSubscription, error)
	List(ctx context.Context) ([]models.NewsletterSubscription, error)
}

type newsletterService struct {
	repo     repository.NewsletterRepository
	sender   mailer.EmailSender
	runner   BackgroundRunner
	validate *validator.Validate
	logger   *slog.Logger
}

// NewNewsletterService creates a new newsletter service instance
func NewNewsletterService(
	repo repository.NewsletterRepository,
	sender mailer.EmailSender,
	runner BackgroundRunner,
	logger *slog.Logger,
) NewsletterService {
	return &newsletterService{
		repo:     repo,
		sender:   sender,
		runner:   runner,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *newsletterService) Subscribe(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, validationError("Email é obrigatório")
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, validationError("Email inválido")
	}

	sub := &models.NewsletterSubscription{Email: email}
	if err := s.repo.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.logger.Warn("⚠️ [NewsletterService] Email already subscribed", "email", email)
			return nil, ErrAlreadySubscribed
		}
		s.logger.Error("❌ [NewsletterService] Failed to save subscription", "error", err)
		return nil, err
	}

	s.logger.Info("📬 [NewsletterService] New subscription", "subscription_id", sub.ID)

	s.runner.SubmitWithTimeout(welcomeMailTimeout, func(ctx context.Context) {
		if err := s.sender.SendWelcome(ctx, email); err != nil {
			s.logger.Error("❌ [NewsletterService] Failed to send welcome email",
				"subscription_id", sub.ID,
				"error", err,
			)
		}
	})

	return sub, nil
}

func (s *newsletterService) List(ctx context.Context) ([]models.NewsletterSubscription, error) {
	return s.repo.List(ctx)
}

// Service errors
var (
	ErrAlreadySubscribed = errors.New("email already subscribed")
)
