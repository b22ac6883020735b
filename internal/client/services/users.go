package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/mhst/internal/client/models"
	"github.com/dmitrijs2005/mhst/internal/client/repositories/users"
	"github.com/dmitrijs2005/mhst/internal/common"
	"github.com/dmitrijs2005/mhst/internal/livequery"
	"github.com/dmitrijs2005/mhst/internal/logging"
)

const (
	msgRegistrationFailed = "Registration failed"
	msgLoginFailed        = "Login failed"
)

// UserService manages locally registered accounts.
type UserService struct {
	repo users.Repository
	log  logging.Logger
	now  func() time.Time
}

func NewUserService(repo users.Repository, log logging.Logger) *UserService {
	return &UserService{repo: repo, log: log.With("module", "users"), now: time.Now}
}

// RegisterUser inserts u unless its email is taken. The email check runs
// before the insert; the UNIQUE index on users.email catches a concurrent
// registration that slips between the two and is reported the same way.
func (s *UserService) RegisterUser(ctx context.Context, u *models.User) RegistrationResult {
	n, err := s.repo.CountByEmail(ctx, u.Email)
	if err != nil {
		s.log.Error(ctx, "email check failed", "error", err)
		return RegistrationResult{Status: RegistrationError, Message: msgRegistrationFailed}
	}
	if n > 0 {
		return RegistrationResult{Status: RegistrationEmailExists}
	}

	if u.RegistrationDate == 0 {
		u.RegistrationDate = s.now().UnixMilli()
	}

	id, err := s.repo.Insert(ctx, u)
	if errors.Is(err, common.ErrAlreadyExists) {
		return RegistrationResult{Status: RegistrationEmailExists}
	}
	if err != nil {
		s.log.Error(ctx, "user insert failed", "error", err)
		return RegistrationResult{Status: RegistrationError, Message: msgRegistrationFailed}
	}

	u.ID = id
	s.log.Info(ctx, "user registered", "user_id", id)
	return RegistrationResult{Status: RegistrationSuccess, UserID: id}
}

// LoginUser looks up the account with exactly this email and password.
func (s *UserService) LoginUser(ctx context.Context, email, password string) LoginResult {
	u, err := s.repo.Login(ctx, email, password)
	if err != nil {
		s.log.Error(ctx, "login lookup failed", "error", err)
		return LoginResult{Status: LoginError, Message: msgLoginFailed}
	}
	if u == nil {
		return LoginResult{Status: LoginInvalidCredentials}
	}
	return LoginResult{Status: LoginSuccess, User: u}
}

// GetUserByID returns nil when the user does not exist.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) WatchUser(ctx context.Context, id int64) (*livequery.Subscription[*models.User], error) {
	return s.repo.WatchByID(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, u *models.User) error {
	err := s.repo.Update(ctx, u)
	if err != nil && !errors.Is(err, common.ErrAlreadyExists) {
		s.log.Error(ctx, "user update failed", "user_id", u.ID, "error", err)
	}
	return err
}
