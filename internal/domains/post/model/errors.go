package model

import (
	"errors"
	"fmt"
)

const (
	ErrCodePostNotFound           = "PST001"
	ErrCodeNotAuthor              = "PST002"
	ErrCodeAttachmentNotFound     = "PST003"
	ErrCodeTooManyAttachments     = "PST004"
	ErrCodeAttachmentTooLarge     = "PST005"
	ErrCodeUnsupportedAttachment  = "PST006"
	ErrCodeInvalidImageAttachment = "PST007"
)

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
)

type PostError struct {
	Code    string
	Message string
	Err     error
}

func (e *PostError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PostError) Unwrap() error { return e.Err }

func NewPostNotFoundError() *PostError {
	return &PostError{Code: ErrCodePostNotFound, Message: "Post not found", Err: ErrPostNotFound}
}

func NewNotAuthorError() *PostError {
	return &PostError{Code: ErrCodeNotAuthor, Message: "Only the author can change this post"}
}

func NewAttachmentNotFoundError() *PostError {
	return &PostError{Code: ErrCodeAttachmentNotFound, Message: "Attachment not found", Err: ErrAttachmentNotFound}
}

func NewTooManyAttachmentsError() *PostError {
	return &PostError{
		Code:    ErrCodeTooManyAttachments,
		Message: fmt.Sprintf("A post can have at most %d attachments", MaxAttachmentsPerPost),
	}
}

func NewAttachmentTooLargeError() *PostError {
	return &PostError{
		Code:    ErrCodeAttachmentTooLarge,
		Message: fmt.Sprintf("Attachments must be %dMB or smaller", MaxAttachmentBytes>>20),
	}
}

func NewUnsupportedAttachmentError(contentType string) *PostError {
	return &PostError{
		Code:    ErrCodeUnsupportedAttachment,
		Message: fmt.Sprintf("File type %q is not supported", contentType),
	}
}

func NewInvalidImageAttachmentError(err error) *PostError {
	return &PostError{Code: ErrCodeInvalidImageAttachment, Message: "Image could not be read", Err: err}
}
