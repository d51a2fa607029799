package model

import (
	"errors"
	"fmt"
)

const (
	ErrCodeProfileNotFound    = "PRF001"
	ErrCodeEmailTaken         = "PRF002"
	ErrCodeUsernameTaken      = "PRF003"
	ErrCodeInvalidCredentials = "PRF004"
	ErrCodeInvalidToken       = "PRF005"
	ErrCodeInvalidImage       = "PRF006"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid refresh token")
	ErrInvalidImage       = errors.New("invalid image")
)

type ProfileError struct {
	Code    string
	Message string
	Err     error
}

func (e *ProfileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProfileError) Unwrap() error { return e.Err }

func NewProfileNotFoundError() *ProfileError {
	return &ProfileError{Code: ErrCodeProfileNotFound, Message: "Profile not found", Err: ErrProfileNotFound}
}

func NewEmailTakenError() *ProfileError {
	return &ProfileError{Code: ErrCodeEmailTaken, Message: "Email is already registered", Err: ErrEmailTaken}
}

func NewUsernameTakenError() *ProfileError {
	return &ProfileError{Code: ErrCodeUsernameTaken, Message: "Username is already taken", Err: ErrUsernameTaken}
}

func NewInvalidCredentialsError() *ProfileError {
	return &ProfileError{Code: ErrCodeInvalidCredentials, Message: "Invalid email or password", Err: ErrInvalidCredentials}
}

func NewInvalidTokenError() *ProfileError {
	return &ProfileError{Code: ErrCodeInvalidToken, Message: "Invalid or expired refresh token", Err: ErrInvalidToken}
}

func NewInvalidImageError(reason error) *ProfileError {
	return &ProfileError{Code: ErrCodeInvalidImage, Message: reason.Error(), Err: ErrInvalidImage}
}
