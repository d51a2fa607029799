package model

import (
	"errors"
	"fmt"
	"time"

	"moments-backend/internal/shared"
)

type FollowingStatus struct {
	IsFollowing  bool `json:"is_following"`
	IsFollowedBy bool `json:"is_followed_by"`
}

// FollowEntry is one row of a followers/following list.
type FollowEntry struct {
	User      shared.UserSummary `json:"user"`
	Headline  *string            `json:"headline,omitempty"`
	CreatedAt time.Time          `json:"followed_at"`
}

const (
	ErrCodeSelfFollow      = "FOL001"
	ErrCodeProfileNotFound = "FOL002"
)

var (
	ErrSelfFollow      = errors.New("cannot follow yourself")
	ErrProfileNotFound = errors.New("profile not found")
)

type FollowError struct {
	Code    string
	Message string
	Err     error
}

func (e *FollowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *FollowError) Unwrap() error { return e.Err }

func NewSelfFollowError() *FollowError {
	return &FollowError{Code: ErrCodeSelfFollow, Message: "You cannot follow yourself", Err: ErrSelfFollow}
}

func NewProfileNotFoundError() *FollowError {
	return &FollowError{Code: ErrCodeProfileNotFound, Message: "Profile not found", Err: ErrProfileNotFound}
}
