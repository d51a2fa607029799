package model

import (
	"errors"
	"fmt"
)

const (
	ErrCodeApplicationNotFound = "APP001"
	ErrCodeMomentNotFound      = "APP002"
	ErrCodeMomentNotOpen       = "APP003"
	ErrCodeOwnMoment           = "APP004"
	ErrCodeBlocked             = "APP005"
	ErrCodeVerificationNeeded  = "APP006"
	ErrCodeAlreadyApplied      = "APP007"
	ErrCodeRateLimited         = "APP008"
	ErrCodeNotAllowed          = "APP009"
	ErrCodeNotPending          = "APP010"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrMomentNotFound      = errors.New("moment not found")
	ErrMomentNotOpen       = errors.New("moment is not open")
	ErrAlreadyApplied      = errors.New("already applied")
	ErrNotAllowed          = errors.New("not allowed")
	ErrNotPending          = errors.New("application is not pending")
)

type ApplicationError struct {
	Code    string
	Message string
	Err     error
}

func (e *ApplicationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ApplicationError) Unwrap() error { return e.Err }

func NewApplicationNotFoundError() *ApplicationError {
	return &ApplicationError{Code: ErrCodeApplicationNotFound, Message: "Application not found", Err: ErrApplicationNotFound}
}

func NewMomentNotFoundError() *ApplicationError {
	return &ApplicationError{Code: ErrCodeMomentNotFound, Message: "Moment not found", Err: ErrMomentNotFound}
}

func NewMomentNotOpenError() *ApplicationError {
	return &ApplicationError{Code: ErrCodeMomentNotOpen, Message: "This moment is no longer accepting applications", Err: ErrMomentNotOpen}
}

func NewOwnMomentError() *ApplicationError {
	return &ApplicationError{Code: ErrCodeOwnMoment, Message: "You cannot apply to your own moment"}
}

func NewBlockedError() *ApplicationError {
	return &ApplicationError{Code: ErrCodeBlocked, Message: "You cannot interact with this user"}
}

func NewVerificationNeededError() *ApplicationError {
	return &ApplicationError{Code: ErrCodeVerificationNeeded, Message: "This moment is only open to verified members"}
}

func NewAlreadyAppliedError() *ApplicationError {
	return &ApplicationError{Code: ErrCodeAlreadyApplied, Message: "You have already applied to this moment", Err: ErrAlreadyApplied}
}

func NewRateLimitedError(limit int) *ApplicationError {
	return &ApplicationError{Code: ErrCodeRateLimited, Message: fmt.Sprintf("You have reached your limit of %d applications for now", limit)}
}

func NewNotAllowedError() *ApplicationError {
	return &ApplicationError{Code: ErrCodeNotAllowed, Message: "You are not allowed to do this", Err: ErrNotAllowed}
}

func NewNotPendingError() *ApplicationError {
	return &ApplicationError{Code: ErrCodeNotPending, Message: "Application is no longer pending", Err: ErrNotPending}
}
