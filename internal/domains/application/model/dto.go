package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type ApplyRequest struct {
	Message string `json:"message" binding:"required"`
}

// Validate caps the message at 240 characters while the moment is in quiet mode.
func (r ApplyRequest) Validate(quietMode bool) error {
	max := MaxMessage
	if quietMode {
		max = QuietModeMaxMessage
	}
	r.Message = strings.TrimSpace(r.Message)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Message,
			validation.Required.Error("message is required"),
			validation.RuneLength(1, max),
		),
	)
}
