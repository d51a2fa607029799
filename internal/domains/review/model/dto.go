package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateReviewRequest - POST /moments/:id/reviews
type CreateReviewRequest struct {
	Rating int     `json:"rating" binding:"required"`
	Note   *string `json:"note"`
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating,
			validation.Required.Error("rating is required"),
			validation.Min(MinRating).Error("rating must be between 1 and 5"),
			validation.Max(MaxRating).Error("rating must be between 1 and 5"),
		),
		validation.Field(&r.Note, validation.When(r.Note != nil, validation.RuneLength(0, MaxNoteLength))),
	)
}

// ProfileReviewsResponse - GET /profiles/:id/reviews
type ProfileReviewsResponse struct {
	Summary RatingSummary `json:"summary"`
	Reviews []ReviewView  `json:"reviews"`
}
