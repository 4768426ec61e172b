package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"restaurant_web/internal/models"
	"restaurant_web/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenIssuer = "restaurant-web"

// Principal is the authenticated caller carried by the session token.
type Principal struct {
	UserID uint            `json:"id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
}

type sessionClaims struct {
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Session struct {
	Token     string       `json:"-"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*Session, error)
	ParseToken(token string) (*Principal, error)
	Me(ctx context.Context, principal *Principal) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
	logger   *logrus.Logger
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, secret string, ttl time.Duration, logger *logrus.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		secret:   []byte(secret),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

var errInvalidCredentials = Unauthorized("invalid email or password")

func (s *authService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	if fields := validateStruct(req); len(fields) > 0 {
		return nil, NewValidationError("invalid credentials", fields)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, Internal("failed to load user", err)
	}
	if !user.IsActive {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.WithField("user_id", user.ID).Warn("Failed login attempt")
		return nil, errInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	token, err := s.sign(user, now, expiresAt)
	if err != nil {
		return nil, Internal("failed to sign token", err)
	}

	if err := s.userRepo.TouchLogin(ctx, user.ID, now); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to record login time")
	}
	user.LastLoginAt = &now

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User logged in")
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) sign(user *models.User, issuedAt, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *authService) ParseToken(token string) (*Principal, error) {
	if strings.TrimSpace(token) == "" {
		return nil, Unauthorized("authentication required")
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, Unauthorized("invalid or expired session")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || !claims.Role.Valid() {
		return nil, Unauthorized("invalid or expired session")
	}
	return &Principal{UserID: uint(id), Email: claims.Email, Role: claims.Role}, nil
}

func (s *authService) Me(ctx context.Context, principal *Principal) (*models.User, error) {
	if principal == nil {
		return nil, Unauthorized("authentication required")
	}
	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthorized("account no longer exists")
		}
		return nil, Internal("failed to load user", err)
	}
	if !user.IsActive {
		return nil, Unauthorized("account disabled")
	}
	return user, nil
}

// Authorize is the single role check used by every protected operation.
func Authorize(principal *Principal, roles ...models.UserRole) error {
	if principal == nil {
		return Unauthorized("authentication required")
	}
	if len(roles) == 0 {
		return nil
	}
	for _, role := range roles {
		if principal.Role == role {
			return nil
		}
	}
	return Forbidden("insufficient permissions")
}
