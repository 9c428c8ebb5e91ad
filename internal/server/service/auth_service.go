package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/pktikkani/forecastio/internal/server/password"
	"github.com/pktikkani/forecastio/internal/server/repository"
)

var (
	// ErrEmailInUse is returned when attempting to register duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// UserRepository defines storage contract used by the service.
type UserRepository interface {
	Create(ctx context.Context, user *repository.User) error
	GetByEmail(ctx context.Context, email string) (*repository.User, error)
}

// AuthService contains registration/login logic.
type AuthService struct {
	repo      UserRepository
	hasher    password.Hasher
	tokenizer *TokenService
	logger    *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokenizer *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// Signup registers a new user and logs them in.
func (s *AuthService) Signup(ctx context.Context, email, plain string) (string, *repository.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", nil, errors.New("auth: email required")
	}
	if plain == "" {
		return "", nil, errors.New("auth: password required")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return "", nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, err
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return "", nil, err
	}

	user := &repository.User{Email: email, PasswordHash: hash}
	if err := s.repo.Create(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.tokenizer.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user signed up", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return token, user, nil
}

// Login authenticates a user and produces a JWT.
func (s *AuthService) Login(ctx context.Context, email, plain string) (string, *repository.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plain == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, plain); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenizer.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
