package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"moments-backend/internal/domains/application/model"
	"moments-backend/internal/domains/application/repository"
	momentModel "moments-backend/internal/domains/moment/model"
	notificationModel "moments-backend/internal/domains/notification/model"
	notificationService "moments-backend/internal/domains/notification/service"
	"moments-backend/pkg/logger"
)

type applicationService struct {
	repo     repository.ApplicationRepository
	blocks   BlockChecker
	quota    QuotaChecker
	notifier notificationService.Notifier
	now      func() time.Time
}

func NewApplicationService(
	repo repository.ApplicationRepository,
	blocks BlockChecker,
	quota QuotaChecker,
	notifier notificationService.Notifier,
) ServiceInterface {
	return &applicationService{repo: repo, blocks: blocks, quota: quota, notifier: notifier, now: time.Now}
}

func (s *applicationService) Apply(ctx context.Context, applicantID, momentID uuid.UUID, req model.ApplyRequest) (*model.Application, error) {
	// Step 1: moment must be open and not ours
	m, err := s.repo.FindMoment(ctx, momentID)
	if err != nil {
		return nil, translate(err)
	}
	now := s.now()
	if m.Status != momentModel.StatusActive || !m.ExpiresAt.After(now) {
		return nil, model.NewMomentNotOpenError()
	}
	if m.CreatorID == applicantID {
		return nil, model.NewOwnMomentError()
	}

	// Step 2: message length depends on quiet mode
	if err := req.Validate(m.QuietMode); err != nil {
		return nil, err
	}

	// Step 3: blocks and verification
	blocked, err := s.blocks.IsBlockedEither(ctx, applicantID, m.CreatorID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, model.NewBlockedError()
	}

	applicant, err := s.repo.FindApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if m.RequiresVerified && !applicant.IsVerified {
		return nil, model.NewVerificationNeededError()
	}

	// Step 4: quota. A duplicate must not use up a slot.
	applied, err := s.repo.HasApplied(ctx, momentID, applicantID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, model.NewAlreadyAppliedError()
	}

	allowed, err := s.quota.CanApply(ctx, applicantID.String(), applicant.TrustLevel)
	if err != nil {
		return nil, fmt.Errorf("check apply quota: %w", err)
	}
	if !allowed {
		return nil, model.NewRateLimitedError(s.quota.ApplyLimit(applicant.TrustLevel))
	}

	// Step 5: persist and tell the creator
	a := &model.Application{
		ID:          uuid.New(),
		MomentID:    momentID,
		ApplicantID: applicantID,
		Message:     strings.TrimSpace(req.Message),
		Status:      model.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, translate(err)
	}

	s.notify(ctx, notificationModel.NotifyInput{
		UserID:  m.CreatorID,
		Type:    notificationModel.TypeApplicationReceived,
		Title:   "New application",
		Body:    fmt.Sprintf("%s applied to \"%s\"", applicant.DisplayName, m.Title),
		Link:    momentLink(m.ID),
		ActorID: &applicantID,
		Data:    map[string]any{"moment_id": m.ID.String(), "application_id": a.ID.String()},
	})

	return a, nil
}

func (s *applicationService) ListForMoment(ctx context.Context, creatorID, momentID uuid.UUID) ([]model.ApplicationView, error) {
	m, err := s.repo.FindMoment(ctx, momentID)
	if err != nil {
		return nil, translate(err)
	}
	if m.CreatorID != creatorID {
		return nil, model.NewNotAllowedError()
	}
	return s.repo.ListByMoment(ctx, momentID)
}

func (s *applicationService) ListMine(ctx context.Context, applicantID uuid.UUID) ([]model.ApplicationView, error) {
	return s.repo.ListByApplicant(ctx, applicantID)
}

func (s *applicationService) Accept(ctx context.Context, creatorID, id uuid.UUID) (*model.AcceptResult, error) {
	res, err := s.repo.Accept(ctx, id, creatorID)
	if err != nil {
		return nil, translate(err)
	}

	logger.Info("application accepted", map[string]interface{}{
		"application_id":  id.String(),
		"moment_id":       res.Application.MomentID.String(),
		"conversation_id": res.ConversationID.String(),
		"rejected":        len(res.Rejected),
	})

	link := "/conversations/" + res.ConversationID.String()
	s.notify(ctx, notificationModel.NotifyInput{
		UserID:  res.Application.ApplicantID,
		Type:    notificationModel.TypeApplicationAccepted,
		Title:   "Application accepted",
		Body:    fmt.Sprintf("Your application for \"%s\" was accepted", res.MomentTitle),
		Link:    &link,
		ActorID: &creatorID,
		Data: map[string]any{
			"moment_id":       res.Application.MomentID.String(),
			"application_id":  id.String(),
			"conversation_id": res.ConversationID.String(),
		},
	})

	for _, applicantID := range res.Rejected {
		s.notify(ctx, notificationModel.NotifyInput{
			UserID: applicantID,
			Type:   notificationModel.TypeApplicationRejected,
			Title:  "Application declined",
			Body:   fmt.Sprintf("Another applicant was chosen for \"%s\"", res.MomentTitle),
			Link:   momentLink(res.Application.MomentID),
			Data:   map[string]any{"moment_id": res.Application.MomentID.String()},
		})
	}

	return res, nil
}

func (s *applicationService) Reject(ctx context.Context, creatorID, id uuid.UUID) error {
	a, m, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if m.CreatorID != creatorID {
		return model.NewNotAllowedError()
	}

	if err := s.transition(ctx, a, model.StatusRejected); err != nil {
		return err
	}

	s.notify(ctx, notificationModel.NotifyInput{
		UserID:  a.ApplicantID,
		Type:    notificationModel.TypeApplicationRejected,
		Title:   "Application declined",
		Body:    fmt.Sprintf("Your application for \"%s\" was declined", m.Title),
		Link:    momentLink(m.ID),
		ActorID: &creatorID,
		Data:    map[string]any{"moment_id": m.ID.String(), "application_id": a.ID.String()},
	})
	return nil
}

func (s *applicationService) Withdraw(ctx context.Context, applicantID, id uuid.UUID) error {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return translate(err)
	}
	if a.ApplicantID != applicantID {
		return model.NewNotAllowedError()
	}
	return s.transition(ctx, a, model.StatusCancelled)
}

func (s *applicationService) load(ctx context.Context, id uuid.UUID) (*model.Application, *model.MomentInfo, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, translate(err)
	}
	m, err := s.repo.FindMoment(ctx, a.MomentID)
	if err != nil {
		return nil, nil, translate(err)
	}
	return a, m, nil
}

func (s *applicationService) transition(ctx context.Context, a *model.Application, status string) error {
	if a.Status != model.StatusPending {
		return model.NewNotPendingError()
	}
	ok, err := s.repo.Transition(ctx, a.ID, status)
	if err != nil {
		return err
	}
	if !ok {
		return model.NewNotPendingError()
	}
	a.Status = status
	return nil
}

func (s *applicationService) notify(ctx context.Context, in notificationModel.NotifyInput) {
	if _, err := s.notifier.Notify(ctx, in); err != nil {
		logger.Error("application notification failed", err)
	}
}

func momentLink(id uuid.UUID) *string {
	link := "/moments/" + id.String()
	return &link
}

func translate(err error) error {
	switch {
	case errors.Is(err, model.ErrApplicationNotFound):
		return model.NewApplicationNotFoundError()
	case errors.Is(err, model.ErrMomentNotFound):
		return model.NewMomentNotFoundError()
	case errors.Is(err, model.ErrMomentNotOpen):
		return model.NewMomentNotOpenError()
	case errors.Is(err, model.ErrAlreadyApplied):
		return model.NewAlreadyAppliedError()
	case errors.Is(err, model.ErrNotAllowed):
		return model.NewNotAllowedError()
	case errors.Is(err, model.ErrNotPending):
		return model.NewNotPendingError()
	}
	return err
}
