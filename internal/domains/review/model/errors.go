package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeMomentNotFound  = "REV001"
	ErrCodeAlreadyReviewed = "REV002"
	ErrCodeNotEligible     = "REV003"
)

// Errors
var (
	ErrMomentNotFound  = errors.New("moment not found")
	ErrAlreadyReviewed = errors.New("already reviewed this moment")
	ErrNotEligible     = errors.New("not eligible to review")
)

// ReviewError custom error type
type ReviewError struct {
	Code    string
	Message string
	Err     error
}

func (e *ReviewError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ReviewError) Unwrap() error { return e.Err }

// Error constructors
func NewMomentNotFoundError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeMomentNotFound,
		Message: "Moment not found",
		Err:     ErrMomentNotFound,
	}
}

func NewAlreadyReviewedError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeAlreadyReviewed,
		Message: "You have already reviewed this moment",
		Err:     ErrAlreadyReviewed,
	}
}

func NewNotEligibleError(reason string) *ReviewError {
	return &ReviewError{
		Code:    ErrCodeNotEligible,
		Message: fmt.Sprintf("Not eligible to review: %s", reason),
		Err:     ErrNotEligible,
	}
}
