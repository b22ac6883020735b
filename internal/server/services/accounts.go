// Package services implements the identity server's account operations:
// sign-up, sign-in and token introspection.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mhst/internal/common"
	"github.com/dmitrijs2005/mhst/internal/logging"
	"github.com/dmitrijs2005/mhst/internal/server/auth"
	"github.com/dmitrijs2005/mhst/internal/server/config"
	"github.com/dmitrijs2005/mhst/internal/server/models"
	"github.com/dmitrijs2005/mhst/internal/server/repositories/accounts"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Session is the result of a successful sign-up or sign-in.
type Session struct {
	Account   *models.Account
	Token     string
	ExpiresAt time.Time
}

type AccountService struct {
	repo          accounts.Repository
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	bcryptCost    int
}

func NewAccountService(repo accounts.Repository, cfg *config.Config, l logging.Logger) *AccountService {
	return &AccountService{
		repo:          repo,
		logger:        l.With("module", "accounts"),
		jwtSecret:     []byte(cfg.JWTSecret),
		tokenValidity: cfg.TokenValidity,
		bcryptCost:    bcrypt.DefaultCost,
	}
}

// SignUp creates an account and signs it in.
func (s *AccountService) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.repo.Create(ctx, &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info(ctx, "account created", "user_id", account.ID)
	return s.issue(account)
}

// SignIn checks the password of an existing, enabled account.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}
	if account.Disabled {
		return nil, ErrUserDisabled
	}

	return s.issue(account)
}

// Whoami resolves an id token to its account. Invalid or expired tokens
// yield common.ErrInvalidToken or common.ErrTokenExpired.
func (s *AccountService) Whoami(ctx context.Context, token string) (*models.Account, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	if account.Disabled {
		return nil, ErrUserDisabled
	}

	return account, nil
}

func (s *AccountService) issue(account *models.Account) (*Session, error) {
	token, expires, err := auth.GenerateToken(account.ID, account.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &Session{Account: account, Token: token, ExpiresAt: expires}, nil
}
