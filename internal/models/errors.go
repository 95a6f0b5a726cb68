package models

import "errors"

// user
var (
	ErrDuplicateEmail   = errors.New("user already exists with this email")
	ErrWrongPassword    = errors.New("current password is incorrect")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

// shared
var (
	ErrNotFound = errors.New("record not found")
)
