package model

import "errors"

// Sentinel errors returned by the repositories. Services translate them
// into coded apierror values where an HTTP status is needed.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrCategoryNotFound  = errors.New("category not found")
)
