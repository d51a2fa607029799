package model

import (
	"errors"
	"fmt"
)

const (
	ErrCodeMomentNotFound  = "MOM001"
	ErrCodeNotCreator      = "MOM002"
	ErrCodeNotActive       = "MOM003"
	ErrCodeRateLimited     = "MOM004"
	ErrCodeInvalidFeedMode = "MOM005"
)

var (
	ErrMomentNotFound = errors.New("moment not found")
	ErrNotCreator     = errors.New("not the moment creator")
	ErrNotActive      = errors.New("moment is not active")
	ErrRateLimited    = errors.New("moment creation limit reached")
)

type MomentError struct {
	Code    string
	Message string
	Err     error
}

func (e *MomentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *MomentError) Unwrap() error { return e.Err }

func NewMomentNotFoundError() *MomentError {
	return &MomentError{Code: ErrCodeMomentNotFound, Message: "Moment not found", Err: ErrMomentNotFound}
}

func NewNotCreatorError() *MomentError {
	return &MomentError{Code: ErrCodeNotCreator, Message: "Only the creator can do this", Err: ErrNotCreator}
}

func NewNotActiveError() *MomentError {
	return &MomentError{Code: ErrCodeNotActive, Message: "Moment is no longer active", Err: ErrNotActive}
}

func NewRateLimitedError(limit int) *MomentError {
	return &MomentError{
		Code:    ErrCodeRateLimited,
		Message: fmt.Sprintf("You have reached your limit of %d moments for now", limit),
		Err:     ErrRateLimited,
	}
}

func NewInvalidFeedModeError(mode string) *MomentError {
	return &MomentError{Code: ErrCodeInvalidFeedMode, Message: fmt.Sprintf("Unknown feed mode %q", mode)}
}
