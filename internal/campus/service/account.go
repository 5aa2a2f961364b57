package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/internal/campus/store"
	"github.com/campushub/campushub/pkg/cryptox"
	"github.com/campushub/campushub/pkg/idx"
	"github.com/campushub/campushub/pkg/slogx"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
)

type AccountService struct {
	Store store.Store
}

type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	Department string
	Year       int
}

// Register creates a new student account with a hashed password.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	email := normalizeEmail(in.Email)

	// 1. Check the email is free. The unique index backstops the race
	// between this check and the insert.
	_, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err == nil {
		log.Warn("registration attempted with taken email", slog.String("email", email))
		return domain.Account{}, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return domain.Account{}, err
	}

	// 2. Hash the password using Argon2id.
	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Account{}, err
	}

	account := domain.Account{
		ID:           idx.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleStudent,
		Phone:        strings.TrimSpace(in.Phone),
		Department:   strings.TrimSpace(in.Department),
		Year:         in.Year,
	}

	if err := s.Store.Accounts().CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, ErrEmailTaken
		}
		log.Error("failed to create account", slog.Any("error", err))
		return domain.Account{}, err
	}

	log.Info("account registered",
		slog.String("account_id", account.ID),
		slog.String("email", account.Email),
	)

	return account, nil
}

// Login verifies credentials and returns the account. Callers mint the
// access token; this service never sees token concerns.
func (s *AccountService) Login(ctx context.Context, email, password string) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	account, err := s.Store.Accounts().GetAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Indistinguishable from a wrong password on purpose.
			return domain.Account{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch account", slog.Any("error", err))
		return domain.Account{}, err
	}

	if err := cryptox.VerifyPassword(password, account.PasswordHash); err != nil {
		log.Warn("login failed", slog.String("account_id", account.ID))
		return domain.Account{}, ErrInvalidCredentials
	}

	return account, nil
}

// GetAccount returns an account by id.
func (s *AccountService) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	account, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return account, nil
}

type UpdateProfileInput struct {
	Name       string
	Email      string
	Phone      string
	Department string
	Year       int
}

// UpdateProfile mutates the caller's own profile attributes. An email
// change re-checks uniqueness.
func (s *AccountService) UpdateProfile(ctx context.Context, actor domain.Actor, in UpdateProfileInput) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	account, err := s.GetAccount(ctx, actor.AccountID)
	if err != nil {
		return domain.Account{}, err
	}

	account.Name = strings.TrimSpace(in.Name)
	account.Email = normalizeEmail(in.Email)
	account.Phone = strings.TrimSpace(in.Phone)
	account.Department = strings.TrimSpace(in.Department)
	account.Year = in.Year

	if err := s.Store.Accounts().UpdateProfile(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, ErrEmailTaken
		}
		log.Error("failed to update profile", slog.Any("error", err))
		return domain.Account{}, err
	}

	return s.GetAccount(ctx, actor.AccountID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
