package services

import (
	"context"
	"errors"
	"strings"

	"restaurant_web/internal/models"
	"restaurant_web/internal/repository"
	"restaurant_web/pkg/whatsapp"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Name           string          `json:"name" validate:"required,max=120"`
	Email          string          `json:"email" validate:"required,email,max=191"`
	Password       string          `json:"password" validate:"required,min=8,max=72"`
	Role           models.UserRole `json:"role" validate:"required,oneof=ADMIN STAFF"`
	WhatsAppNumber string          `json:"whatsappNumber" validate:"omitempty,min=6,max=32"`
}

type UpdateUserRequest struct {
	Name           *string          `json:"name" validate:"omitempty,max=120"`
	Email          *string          `json:"email" validate:"omitempty,email,max=191"`
	Password       *string          `json:"password" validate:"omitempty,min=8,max=72"`
	Role           *models.UserRole `json:"role" validate:"omitempty,oneof=ADMIN STAFF"`
	WhatsAppNumber *string          `json:"whatsappNumber" validate:"omitempty,max=32"`
	IsActive       *bool            `json:"isActive"`
}

type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByWhatsAppNumber(ctx context.Context, number string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, actorID, id uint, req UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, actorID, id uint) error
	// EnsureAdmin creates the first ADMIN account when none exists.
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}

type userService struct {
	userRepo    repository.UserRepository
	countryCode string
	logger      *logrus.Logger
}

func NewUserService(userRepo repository.UserRepository, countryCode string, logger *logrus.Logger) UserService {
	return &userService{userRepo: userRepo, countryCode: countryCode, logger: logger}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", Internal("failed to hash password", err)
	}
	return string(hash), nil
}

func (s *userService) normalizeNumber(number string) string {
	return whatsapp.NormalizePhone(number, s.countryCode)
}

func (s *userService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if fields := validateStruct(req); len(fields) > 0 {
		return nil, NewValidationError("invalid user", fields)
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:           sanitizeText(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:   hash,
		Role:           req.Role,
		WhatsAppNumber: s.normalizeNumber(req.WhatsAppNumber),
		IsActive:       true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflict("email already in use")
		}
		return nil, Internal("failed to create user", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User created")
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	return user, nil
}

func (s *userService) GetByWhatsAppNumber(ctx context.Context, number string) (*models.User, error) {
	normalized := s.normalizeNumber(number)
	if normalized == "" {
		return nil, NotFound("user not found")
	}
	user, err := s.userRepo.GetByWhatsAppNumber(ctx, normalized)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	return user, nil
}

func (s *userService) GetAll(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, Internal("failed to list users", err)
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, actorID, id uint, req UpdateUserRequest) (*models.User, error) {
	if fields := validateStruct(req); len(fields) > 0 {
		return nil, NewValidationError("invalid user", fields)
	}
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	demotes := (req.Role != nil && *req.Role != models.RoleAdmin) || (req.IsActive != nil && !*req.IsActive)
	if demotes && actorID == id {
		return nil, Forbidden("cannot demote or deactivate yourself")
	}
	if demotes && user.Role == models.RoleAdmin && user.IsActive {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		user.Name = sanitizeText(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.WhatsAppNumber != nil {
		user.WhatsAppNumber = s.normalizeNumber(*req.WhatsAppNumber)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflict("email already in use")
		}
		return nil, Internal("failed to update user", err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "actor_id": actorID}).Info("User updated")
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return Forbidden("cannot delete yourself")
	}
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin && user.IsActive {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return err
		}
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return lookupError(err, "user")
	}
	s.logger.WithFields(logrus.Fields{"user_id": id, "actor_id": actorID}).Info("User deleted")
	return nil
}

func (s *userService) ensureAnotherAdmin(ctx context.Context) error {
	admins, err := s.userRepo.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return Internal("failed to count admins", err)
	}
	if admins <= 1 {
		return Conflict("at least one active admin is required")
	}
	return nil
}

func (s *userService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	admins, err := s.userRepo.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return false, Internal("failed to count admins", err)
	}
	if admins > 0 {
		return false, nil
	}
	if email == "" || password == "" {
		return false, NewValidationError("ADMIN_EMAIL and ADMIN_PASSWORD are required to create the first admin", nil)
	}

	_, err = s.Create(ctx, CreateUserRequest{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
