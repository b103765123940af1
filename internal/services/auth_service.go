package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gatherline/rsvp-service/internal/cache"
	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/gatherline/rsvp-service/internal/repositories"
	"github.com/gatherline/rsvp-service/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService issues and validates admin session tokens.
type AuthService interface {
	Login(ctx context.Context, username, password, clientIP string) (string, error)
	ValidateToken(tokenString string) (*AdminClaims, error)
	CreateAdmin(ctx context.Context, username, password string) (*models.Admin, error)
}

// AdminClaims is the JWT payload for an authenticated admin.
type AdminClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

const (
	tokenLifetime     = 24 * time.Hour
	maxLoginAttempts  = 10
	loginAttemptsTTL  = 15 * time.Minute
	minPasswordLength = 8
)

type authService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	jwtSecret []byte
	logger    *slog.Logger
}

func NewAuthService(repo repositories.Repository, cacheService cache.CacheService, jwtSecret string, logger *slog.Logger) AuthService {
	return &authService{
		repo:      repo,
		cache:     cacheService,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, username, password, clientIP string) (string, error) {
	if err := s.checkRateLimit(ctx, clientIP); err != nil {
		return "", err
	}

	admin, err := s.repo.Admin().GetByUsername(ctx, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Same error as a bad password; usernames are not probeable.
			s.logger.Warn("Login failed, unknown username", "username", username, "client_ip", clientIP)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !admin.IsActive {
		return "", ErrAccountDisabled
	}
	if !utils.CheckSecret(admin.PasswordHash, password) {
		s.logger.Warn("Login failed, wrong password", "username", username, "client_ip", clientIP)
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := AdminClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", admin.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("Admin logged in", "admin_id", admin.ID, "username", admin.Username)
	return signed, nil
}

func (s *authService) ValidateToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrUnauthorized
	}
	if !token.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func (s *authService) CreateAdmin(ctx context.Context, username, password string) (*models.Admin, error) {
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := utils.HashSecret(password)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.repo.Admin().Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("Admin account created", "admin_id", admin.ID, "username", username)
	return admin, nil
}

func (s *authService) checkRateLimit(ctx context.Context, clientIP string) error {
	if s.cache == nil || clientIP == "" {
		return nil
	}
	key := fmt.Sprintf("login_attempts:%s", clientIP)
	count, err := s.cache.Increment(ctx, key, loginAttemptsTTL)
	if err != nil {
		// The limiter never blocks logins when Redis is down.
		s.logger.Warn("Login rate limiter unavailable", "error", err)
		return nil
	}
	if count > maxLoginAttempts {
		s.logger.Warn("Login rate limit exceeded", "client_ip", clientIP, "attempts", count)
		return ErrTooManyAttempts
	}
	return nil
}
