// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-tier shape:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and small param structs, never HTTP types, and
// return domain errors from the apperror package — the handler layer maps
// those to status codes. Every service takes its repository as an interface,
// so tests inject in-memory mocks.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sakif/recipebox/internal/apperror"
	"github.com/sakif/recipebox/internal/auth"
	"github.com/sakif/recipebox/internal/model"
	"github.com/sakif/recipebox/internal/repository"
)

// Validation constants.
const (
	MinPasswordLength = 5
	MaxNameLength     = 255
)

// UserService handles registration, authentication and account lookups.
type UserService struct {
	repo      repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		passwords: passwords,
		logger:    logger,
	}
}

// NormalizeEmail lowercases the domain portion of an email address and
// leaves the local part untouched: "Test2@Example.COM" → "Test2@example.com".
//
// Only the domain is case-insensitive by standard; lowercasing the local
// part could technically merge two distinct mailboxes, so we don't.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", apperror.ValidationFailed("email", "email address is required")
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", apperror.ValidationFailed("email", "email address is invalid")
	}

	local, domain := email[:at], email[at+1:]
	return local + "@" + strings.ToLower(domain), nil
}

// Register creates a new regular account.
//
// The email is normalized before storage; an empty email fails validation
// before anything touches the database. The password is bcrypt-hashed —
// the plaintext never leaves this method.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	name = strings.TrimSpace(name)
	if len(name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxNameLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "password is invalid")
	}

	user := &model.User{
		Email:        normalized,
		PasswordHash: hash,
		Name:         name,
		IsActive:     true,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("email", normalized),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// RegisterSuperuser creates an account with the staff and superuser flags
// set. Used by the createadmin CLI, never exposed over HTTP.
func (s *UserService) RegisterSuperuser(ctx context.Context, email, password, name string) (*model.User, error) {
	user, err := s.Register(ctx, email, password, name)
	if err != nil {
		return nil, err
	}

	user.IsStaff = true
	user.IsSuperuser = true
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("promoting superuser: %w", err)
	}

	s.logger.Info("superuser created", slog.String("id", user.ID))
	return user, nil
}

// Authenticate verifies an email/password pair and returns the account.
//
// Every failure mode — unknown email, wrong password, deactivated account —
// returns the same apperror.ErrUnauthorized with the same message, so a
// caller can't probe which emails are registered.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	user, err := s.repo.GetUserByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	if !user.IsActive {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	now := time.Now()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		// A failed timestamp write shouldn't block a valid login.
		s.logger.Warn("failed to record last login",
			slog.String("id", user.ID),
			slog.String("error", err.Error()),
		)
	} else {
		user.LastLogin = &now
	}

	s.logger.Info("user authenticated", slog.String("id", user.ID))
	return user, nil
}

// GetByID returns the account with the given ID.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.repo.GetUserByID(ctx, id)
}

// LoginGitHub provisions or reuses a local account for a GitHub identity
// and records the login. GitHub must expose an email — it's our account key.
//
// A freshly provisioned account gets an unguessable random password hash, so
// the password login path can never match it; the account is OAuth-only
// until the user sets a password through some future flow.
func (s *UserService) LoginGitHub(ctx context.Context, gh *auth.GitHubUser) (*model.User, error) {
	if gh.Email == "" {
		return nil, apperror.Unauthorized("GitHub account has no public email")
	}

	normalized, err := NormalizeEmail(gh.Email)
	if err != nil {
		return nil, apperror.Unauthorized("GitHub account email is invalid")
	}

	user, err := s.repo.GetUserByEmail(ctx, normalized)
	switch {
	case err == nil:
		// Existing account — fall through to the login bookkeeping.
	case errors.Is(err, apperror.ErrNotFound):
		name := gh.Name
		if name == "" {
			name = gh.Login
		}

		hash, hashErr := s.passwords.Hash(uuid.NewString())
		if hashErr != nil {
			return nil, fmt.Errorf("generating placeholder password: %w", hashErr)
		}

		user = &model.User{
			Email:        normalized,
			PasswordHash: hash,
			Name:         name,
			IsActive:     true,
		}
		if err := s.repo.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("provisioning GitHub user: %w", err)
		}
		s.logger.Info("user provisioned via GitHub",
			slog.String("id", user.ID),
			slog.String("login", gh.Login),
		)
	default:
		return nil, fmt.Errorf("looking up GitHub user: %w", err)
	}

	if !user.IsActive {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	now := time.Now()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record last login",
			slog.String("id", user.ID),
			slog.String("error", err.Error()),
		)
	} else {
		user.LastLogin = &now
	}

	return user, nil
}
