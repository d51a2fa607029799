package repository

import (
	"context"

	"github.com/google/uuid"

	"moments-backend/internal/domains/application/model"
)

type ApplicationRepository interface {
	FindMoment(ctx context.Context, momentID uuid.UUID) (*model.MomentInfo, error)
	FindApplicant(ctx context.Context, userID uuid.UUID) (*model.Applicant, error)

	// HasApplied reports whether applicantID already has an application,
	// in any status, on momentID.
	HasApplied(ctx context.Context, momentID, applicantID uuid.UUID) (bool, error)

	// Create returns ErrAlreadyApplied on a duplicate (moment, applicant).
	Create(ctx context.Context, a *model.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	ListByMoment(ctx context.Context, momentID uuid.UUID) ([]model.ApplicationView, error)
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]model.ApplicationView, error)

	// Accept runs the whole accept flow in one transaction: the application
	// is accepted, the moment matched, other pending applications rejected
	// and a conversation opened between creator and applicant.
	Accept(ctx context.Context, id, creatorID uuid.UUID) (*model.AcceptResult, error)

	// Transition moves a pending application to status and reports
	// whether it was still pending.
	Transition(ctx context.Context, id uuid.UUID, status string) (bool, error)
}
