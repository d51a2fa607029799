package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreateBlockRequest struct {
	BlockedUserID string  `json:"blocked_user_id" binding:"required"`
	Reason        *string `json:"reason"`
}

func (r CreateBlockRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BlockedUserID, validation.Required, is.UUID),
		validation.Field(&r.Reason, validation.NilOrNotEmpty, validation.Length(1, 500)),
	)
}
