package model

import (
	"errors"
	"fmt"
)

const (
	ErrCodeSelfBlock    = "BLK001"
	ErrCodeUserNotFound = "BLK002"
	ErrCodeNotBlocked   = "BLK003"
)

var (
	ErrSelfBlock    = errors.New("cannot block yourself")
	ErrUserNotFound = errors.New("user not found")
	ErrNotBlocked   = errors.New("user is not blocked")
)

type BlockError struct {
	Code    string
	Message string
	Err     error
}

func (e *BlockError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BlockError) Unwrap() error { return e.Err }

func NewSelfBlockError() *BlockError {
	return &BlockError{Code: ErrCodeSelfBlock, Message: "You cannot block yourself", Err: ErrSelfBlock}
}

func NewUserNotFoundError() *BlockError {
	return &BlockError{Code: ErrCodeUserNotFound, Message: "User not found", Err: ErrUserNotFound}
}

func NewNotBlockedError() *BlockError {
	return &BlockError{Code: ErrCodeNotBlocked, Message: "User is not blocked", Err: ErrNotBlocked}
}
