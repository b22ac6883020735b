package services

import "github.com/dmitrijs2005/mhst/internal/client/models"

// RegistrationStatus tags a RegistrationResult.
type RegistrationStatus int

const (
	RegistrationSuccess RegistrationStatus = iota
	RegistrationEmailExists
	RegistrationError
)

// RegistrationResult is the outcome of UserService.RegisterUser. UserID is
// set on success, Message on error.
type RegistrationResult struct {
	Status  RegistrationStatus
	UserID  int64
	Message string
}

func (r RegistrationResult) OK() bool {
	return r.Status == RegistrationSuccess
}

// LoginStatus tags a LoginResult.
type LoginStatus int

const (
	LoginSuccess LoginStatus = iota
	LoginInvalidCredentials
	LoginError
)

// LoginResult is the outcome of UserService.LoginUser.
type LoginResult struct {
	Status  LoginStatus
	User    *models.User
	Message string
}

func (r LoginResult) OK() bool {
	return r.Status == LoginSuccess
}
