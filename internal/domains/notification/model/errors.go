package model

import (
	"errors"
	"fmt"
)

const (
	ErrCodeNotificationNotFound = "NOTIF001"
	ErrCodeInvalidInput         = "NOTIF002"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidInput         = errors.New("invalid notification input")
)

type NotificationError struct {
	Code    string
	Message string
	Err     error
}

func (e *NotificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *NotificationError) Unwrap() error { return e.Err }

func NewNotificationNotFoundError() *NotificationError {
	return &NotificationError{
		Code:    ErrCodeNotificationNotFound,
		Message: "Notification not found",
		Err:     ErrNotificationNotFound,
	}
}

func NewInvalidInputError(reason string) *NotificationError {
	return &NotificationError{
		Code:    ErrCodeInvalidInput,
		Message: reason,
		Err:     ErrInvalidInput,
	}
}
