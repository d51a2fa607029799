package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"moments-backend/internal/shared"
)

const MaxBodyLength = 2000

type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CommentView struct {
	Comment
	Author shared.UserSummary `json:"author"`
}

type CommentRequest struct {
	Body string `json:"body" binding:"required"`
}

func (r *CommentRequest) Validate() error {
	r.Body = strings.TrimSpace(r.Body)
	return validation.ValidateStruct(r,
		validation.Field(&r.Body, validation.Required, validation.RuneLength(1, MaxBodyLength)),
	)
}

// PostRef is the little the comment domain needs to know about a post.
type PostRef struct {
	ID       uuid.UUID
	AuthorID uuid.UUID
}

const (
	ErrCodeCommentNotFound = "CMT001"
	ErrCodePostNotFound    = "CMT002"
	ErrCodeNotAuthor       = "CMT003"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrPostNotFound    = errors.New("post not found")
)

type CommentError struct {
	Code    string
	Message string
	Err     error
}

func (e *CommentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CommentError) Unwrap() error { return e.Err }

func NewCommentNotFoundError() *CommentError {
	return &CommentError{Code: ErrCodeCommentNotFound, Message: "Comment not found", Err: ErrCommentNotFound}
}

func NewPostNotFoundError() *CommentError {
	return &CommentError{Code: ErrCodePostNotFound, Message: "Post not found", Err: ErrPostNotFound}
}

func NewNotAuthorError() *CommentError {
	return &CommentError{Code: ErrCodeNotAuthor, Message: "Only the author can change this comment"}
}
