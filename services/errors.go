package services

import (
	"errors"
	"strings"
)

var (
	ErrDuelNotFound       = errors.New("duel not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSelfFriend         = errors.New("cannot add yourself as friend")
)

// ValidationError rejects a request before any state is touched.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}
