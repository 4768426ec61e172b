package services

import (
	"context"
	"strings"

	"restaurant_web/internal/events"
	"restaurant_web/internal/models"
	"restaurant_web/internal/repository"

	"github.com/sirupsen/logrus"
)

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email,max=200"`
	Phone   string `json:"phone" validate:"omitempty,min=6,max=32"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type ContactService interface {
	Submit(ctx context.Context, req ContactRequest) (*models.ContactMessage, error)
	List(ctx context.Context, unreadOnly bool, page, limit int) ([]models.ContactMessage, int64, error)
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type contactService struct {
	repo      repository.ContactRepository
	publisher events.Publisher
	notifier  Notifier
	logger    *logrus.Logger
}

func NewContactService(repo repository.ContactRepository, publisher events.Publisher, notifier Notifier, logger *logrus.Logger) ContactService {
	return &contactService{repo: repo, publisher: publisher, notifier: notifier, logger: logger}
}

func (s *contactService) Submit(ctx context.Context, req ContactRequest) (*models.ContactMessage, error) {
	if fields := validateStruct(req); len(fields) > 0 {
		return nil, NewValidationError("invalid message", fields)
	}
	message := &models.ContactMessage{
		Name:    sanitizeText(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: sanitizeText(req.Subject),
		Message: sanitizeText(req.Message),
	}
	if message.Message == "" {
		return nil, NewValidationError("invalid message", map[string]string{"message": "is required"})
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, Internal("failed to save message", err)
	}

	s.logger.WithField("message_id", message.ID).Info("Contact message received")
	publishEvent(ctx, s.publisher, s.logger, events.Event{
		Type:     events.ContactReceived,
		EntityID: message.ID,
	})
	s.notifier.NotifyStaff(staffContactMessage(message))
	return message, nil
}

func (s *contactService) List(ctx context.Context, unreadOnly bool, page, limit int) ([]models.ContactMessage, int64, error) {
	messages, total, err := s.repo.List(ctx, unreadOnly, page, limit)
	if err != nil {
		return nil, 0, Internal("failed to list messages", err)
	}
	return messages, total, nil
}

func (s *contactService) MarkRead(ctx context.Context, id uint) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return lookupError(err, "message")
	}
	return nil
}

func (s *contactService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "message")
	}
	return nil
}
