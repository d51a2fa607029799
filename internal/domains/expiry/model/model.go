package model

import (
	"fmt"

	"github.com/google/uuid"

	notificationModel "moments-backend/internal/domains/notification/model"
)

const (
	MessageNoneExpired = "No expired moments found"
	MessageExpired     = "Successfully expired moments"
)

// ExpiredMoment is one moment moved from active to expired by a sweep.
type ExpiredMoment struct {
	ID        uuid.UUID
	CreatorID uuid.UUID
	Title     string
}

// Outcome is what one sweep transaction committed.
type Outcome struct {
	Moments               []ExpiredMoment
	Notifications         []notificationModel.Notification
	CancelledApplications int64
}

type SweepResult struct {
	Count     int         `json:"count"`
	MomentIDs []uuid.UUID `json:"moment_ids"`
	Message   string      `json:"message"`
}

// Notice is the notification sent to the creator of an expired moment.
func Notice(m ExpiredMoment) notificationModel.NotifyInput {
	return notificationModel.NotifyInput{
		UserID: m.CreatorID,
		Type:   notificationModel.TypeMomentExpired,
		Title:  "Moment Expired",
		Body:   fmt.Sprintf("Your moment \"%s\" has expired", m.Title),
		Data:   map[string]any{"moment_id": m.ID.String()},
	}
}
