package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreateReportRequest struct {
	TargetType string  `json:"target_type" binding:"required"`
	TargetID   string  `json:"target_id" binding:"required"`
	Reason     string  `json:"reason" binding:"required"`
	Details    *string `json:"details"`
}

func (r CreateReportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TargetType, validation.Required, validation.In(TargetMoment, TargetUser, TargetMessage)),
		validation.Field(&r.TargetID, validation.Required, is.UUID),
		validation.Field(&r.Reason, validation.Required,
			validation.In(ReasonSpam, ReasonHarassment, ReasonInappropriate, ReasonScam, ReasonFake, ReasonOther)),
		validation.Field(&r.Details, validation.When(r.Details != nil, validation.RuneLength(0, 1000))),
	)
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required,
			validation.In(StatusOpen, StatusReviewing, StatusResolved, StatusRejected)),
	)
}

// ListFilter - GET /admin/reports?status=&page=&limit=
type ListFilter struct {
	Status string
	Page   int
	Limit  int
}

func ValidStatus(status string) bool {
	switch status {
	case StatusOpen, StatusReviewing, StatusResolved, StatusRejected:
		return true
	}
	return false
}
