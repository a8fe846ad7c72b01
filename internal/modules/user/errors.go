package user

import "errors"

var (
	ErrInvalidCredentials    = errors.New("invalid_credentials")
	ErrEmailAlreadyExists    = errors.New("email_already_exists")
	ErrUsernameAlreadyExists = errors.New("username_already_exists")
	ErrNotFound              = errors.New("not_found")
)
