package auth

import "errors"

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("account is deactivated")
	ErrLastAdmin          = errors.New("cannot remove the last admin")
)
