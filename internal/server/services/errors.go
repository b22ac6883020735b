package services

import "errors"

// Account errors. Each maps to one provider error code on the wire.
var (
	ErrInvalidEmail  = errors.New("invalid email")
	ErrWeakPassword  = errors.New("weak password")
	ErrWrongPassword = errors.New("wrong password")
	ErrUserNotFound  = errors.New("user not found")
	ErrUserDisabled  = errors.New("user disabled")
	ErrEmailInUse    = errors.New("email already in use")
)
