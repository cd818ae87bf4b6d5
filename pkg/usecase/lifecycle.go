package usecase

import (
	"context"
	"time"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

func transitionErr(a *model.RiskAssessment, target types.AssessmentStatus) error {
	return goerr.Wrap(model.ErrIllegalTransition, "cannot transition assessment",
		goerr.V(model.AssessmentIDKey, a.ID),
		goerr.V("from", a.Status.String()),
		goerr.V("to", target.String()))
}

// SubmitForReview moves a DRAFT assessment into UNDER_REVIEW. Both rating
// pairs must be populated; an unscored draft has nothing to review.
func (uc *AssessmentUseCase) SubmitForReview(ctx context.Context, id int64, revision int64) (*AssessmentView, error) {
	a, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.Status.Normalize().CanTransitionTo(types.StatusUnderReview) {
		return nil, transitionErr(a, types.StatusUnderReview)
	}
	if !a.HasRatings() {
		return nil, goerr.Wrap(model.ErrMissingRatings, "cannot submit for review",
			goerr.V(model.AssessmentIDKey, id))
	}

	updated := a.Clone()
	updated.Status = types.StatusUnderReview

	saved, err := uc.repo.Assessment().Update(ctx, updated, revision)
	if err != nil {
		return nil, err
	}
	return uc.view(saved)
}

// Approve moves an UNDER_REVIEW assessment to APPROVED. The decision of who
// may approve belongs to the injected authorizer; this method only checks
// that the capability is held. A repeated approve fails on the status guard
// and leaves the original ApprovedBy/ApprovedAt untouched.
func (uc *AssessmentUseCase) Approve(ctx context.Context, id int64, actor types.ActorID, revision int64) (*AssessmentView, error) {
	if err := actor.Validate(); err != nil {
		return nil, goerr.Wrap(model.ErrNotPermitted, "approval requires an actor", goerr.V(model.AssessmentIDKey, id))
	}

	a, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.Status.CanTransitionTo(types.StatusApproved) {
		return nil, transitionErr(a, types.StatusApproved)
	}

	if uc.authorizer == nil || !uc.authorizer.CanApprove(ctx, actor, a) {
		return nil, goerr.Wrap(model.ErrNotPermitted, "approval denied",
			goerr.V(model.AssessmentIDKey, id), goerr.V(model.ActorKey, actor.String()))
	}

	now := uc.now()
	updated := a.Clone()
	updated.Status = types.StatusApproved
	updated.ApprovedBy = actor
	updated.ApprovedAt = &now

	saved, err := uc.repo.Assessment().Update(ctx, updated, revision)
	if err != nil {
		return nil, err
	}
	return uc.view(saved)
}

// Reject moves an UNDER_REVIEW assessment to the terminal REJECTED state.
// A reason is mandatory.
func (uc *AssessmentUseCase) Reject(ctx context.Context, id int64, reason string, revision int64) (*AssessmentView, error) {
	if reason == "" {
		return nil, goerr.Wrap(model.ErrEmptyRejectReason, "cannot reject assessment",
			goerr.V(model.AssessmentIDKey, id))
	}

	a, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.Status.CanTransitionTo(types.StatusRejected) {
		return nil, transitionErr(a, types.StatusRejected)
	}

	updated := a.Clone()
	updated.Status = types.StatusRejected
	updated.RejectedReason = reason

	saved, err := uc.repo.Assessment().Update(ctx, updated, revision)
	if err != nil {
		return nil, err
	}
	return uc.view(saved)
}

// Activate puts an APPROVED assessment into operational use. The review
// clock starts here when no review has been recorded yet.
func (uc *AssessmentUseCase) Activate(ctx context.Context, id int64, revision int64) (*AssessmentView, error) {
	a, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.Status.CanTransitionTo(types.StatusActive) {
		return nil, transitionErr(a, types.StatusActive)
	}

	updated := a.Clone()
	updated.Status = types.StatusActive
	if updated.LastReviewDate.IsZero() {
		updated.LastReviewDate = uc.now()
	}

	saved, err := uc.repo.Assessment().Update(ctx, updated, revision)
	if err != nil {
		return nil, err
	}
	return uc.view(saved)
}

// Close moves an ACTIVE assessment to the terminal CLOSED state.
func (uc *AssessmentUseCase) Close(ctx context.Context, id int64, revision int64) (*AssessmentView, error) {
	a, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.Status.CanTransitionTo(types.StatusClosed) {
		return nil, transitionErr(a, types.StatusClosed)
	}

	updated := a.Clone()
	updated.Status = types.StatusClosed

	saved, err := uc.repo.Assessment().Update(ctx, updated, revision)
	if err != nil {
		return nil, err
	}
	return uc.view(saved)
}

// MarkReviewed records a periodic review on an ACTIVE assessment, resetting
// the next-review schedule.
func (uc *AssessmentUseCase) MarkReviewed(ctx context.Context, id int64, when time.Time, revision int64) (*AssessmentView, error) {
	a, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.Status != types.StatusActive {
		return nil, goerr.Wrap(model.ErrIllegalTransition, "only active assessments can be reviewed",
			goerr.V(model.AssessmentIDKey, id), goerr.V(model.StatusKey, a.Status))
	}

	if when.IsZero() {
		when = uc.now()
	}
	if when.Before(a.LastReviewDate) {
		return nil, goerr.New("review date precedes the last recorded review",
			goerr.T(model.TagValidation),
			goerr.V(model.AssessmentIDKey, id), goerr.V("when", when))
	}

	updated := a.Clone()
	updated.LastReviewDate = when

	saved, err := uc.repo.Assessment().Update(ctx, updated, revision)
	if err != nil {
		return nil, err
	}
	return uc.view(saved)
}
