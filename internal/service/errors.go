package service

import "errors"

// Closed set of caller-facing error kinds. The transport layer selects a
// status and message with errors.Is against these; internal failures reach
// it wrapped and unmatched.
var (
	ErrEmailTaken            = errors.New("email is already registered")
	ErrUsernameTaken         = errors.New("username already taken")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrAccountInactive       = errors.New("account is inactive")
	ErrMissingToken          = errors.New("refresh token is required")
	ErrInvalidRefreshToken   = errors.New("invalid refresh token")
	ErrRefreshTokenExpired   = errors.New("refresh token expired")
	ErrUserInactiveOrMissing = errors.New("user not found or inactive")
	ErrNotFound              = errors.New("user not found")
)
