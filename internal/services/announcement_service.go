package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"restaurant_web/internal/models"
	"restaurant_web/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AnnouncementRequest struct {
	Message  string `json:"message"`
	IsActive bool   `json:"isActive"`
}

type AnnouncementService interface {
	// Current returns the most recently saved announcement, or nil.
	Current(ctx context.Context) (*models.Announcement, error)
	// Active returns the active announcement, or nil.
	Active(ctx context.Context) (*models.Announcement, error)
	List(ctx context.Context) ([]models.Announcement, error)
	// Save updates the current announcement in place, creating it on first use.
	Save(ctx context.Context, req AnnouncementRequest) (*models.Announcement, error)
	Create(ctx context.Context, req AnnouncementRequest) (*models.Announcement, error)
	Activate(ctx context.Context, id uint) (*models.Announcement, error)
}

type announcementService struct {
	repo   repository.AnnouncementRepository
	logger *logrus.Logger
}

func NewAnnouncementService(repo repository.AnnouncementRepository, logger *logrus.Logger) AnnouncementService {
	return &announcementService{repo: repo, logger: logger}
}

func validateAnnouncement(req AnnouncementRequest) (string, error) {
	message := sanitizeText(req.Message)
	if req.IsActive && message == "" {
		return "", NewValidationError("message required if active", map[string]string{"message": "is required when the announcement is active"})
	}
	if utf8.RuneCountInString(message) > models.AnnouncementMaxLength {
		return "", NewValidationError(
			fmt.Sprintf("message must be at most %d characters", models.AnnouncementMaxLength),
			map[string]string{"message": fmt.Sprintf("must be at most %d characters", models.AnnouncementMaxLength)},
		)
	}
	return message, nil
}

func (s *announcementService) Current(ctx context.Context) (*models.Announcement, error) {
	return s.optional(s.repo.Latest(ctx))
}

func (s *announcementService) Active(ctx context.Context) (*models.Announcement, error) {
	return s.optional(s.repo.Active(ctx))
}

func (s *announcementService) optional(announcement *models.Announcement, err error) (*models.Announcement, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, Internal("failed to load announcement", err)
	}
	return announcement, nil
}

func (s *announcementService) List(ctx context.Context) ([]models.Announcement, error) {
	announcements, err := s.repo.List(ctx)
	if err != nil {
		return nil, Internal("failed to list announcements", err)
	}
	return announcements, nil
}

func (s *announcementService) Save(ctx context.Context, req AnnouncementRequest) (*models.Announcement, error) {
	message, err := validateAnnouncement(req)
	if err != nil {
		return nil, err
	}

	announcement, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if announcement == nil {
		announcement = &models.Announcement{}
	}
	announcement.Message = message
	announcement.IsActive = req.IsActive

	if err := s.repo.Save(ctx, announcement); err != nil {
		return nil, Internal("failed to save announcement", err)
	}
	s.logger.WithFields(logrus.Fields{
		"announcement_id": announcement.ID,
		"active":          announcement.IsActive,
	}).Info("Announcement saved")
	return announcement, nil
}

func (s *announcementService) Create(ctx context.Context, req AnnouncementRequest) (*models.Announcement, error) {
	message, err := validateAnnouncement(req)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(message) == "" {
		return nil, NewValidationError("message required", map[string]string{"message": "is required"})
	}

	announcement := &models.Announcement{Message: message, IsActive: req.IsActive}
	if err := s.repo.Save(ctx, announcement); err != nil {
		return nil, Internal("failed to create announcement", err)
	}
	s.logger.WithField("announcement_id", announcement.ID).Info("Announcement created")
	return announcement, nil
}

func (s *announcementService) Activate(ctx context.Context, id uint) (*models.Announcement, error) {
	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "announcement")
	}
	if announcement.Message == "" {
		return nil, NewValidationError("message required if active", map[string]string{"message": "is required when the announcement is active"})
	}
	if err := s.repo.Activate(ctx, id); err != nil {
		return nil, lookupError(err, "announcement")
	}
	announcement.IsActive = true
	s.logger.WithField("announcement_id", id).Info("Announcement activated")
	return announcement, nil
}
