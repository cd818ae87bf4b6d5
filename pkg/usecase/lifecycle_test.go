package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model/config"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/repository/memory"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/service/authz"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/usecase"
	"github.com/m-mizutani/gt"
)

const approverID = types.ActorID("U-APPROVER")

func newUseCases(opts ...usecase.Option) *usecase.UseCases {
	base := []usecase.Option{
		usecase.WithAuthorizer(authz.NewStatic([]types.ActorID{approverID})),
	}
	return usecase.New(memory.New(), config.DefaultMatrixConfig(), append(base, opts...)...)
}

func draftInput() usecase.CreateInput {
	return usecase.CreateInput{
		Title:               "Hot work in tank farm",
		Location:            "Tank Farm",
		ProcessArea:         "Maintenance",
		Category:            types.CategorySafety,
		ActivityType:        "Non-routine",
		ProbabilityInitial:  4,
		SeverityInitial:     4,
		ProbabilityResidual: 2,
		SeverityResidual:    2,
		AssessedBy:          types.ActorID("U100"),
		RiskOwner:           types.ActorID("U200"),
	}
}

func TestLifecycle_FullChain(t *testing.T) {
	uc := newUseCases()
	ctx := context.Background()

	created, err := uc.Assessment.CreateAssessment(ctx, draftInput())
	gt.NoError(t, err).Required()
	gt.V(t, created.Assessment.Status).Equal(types.StatusDraft)
	gt.S(t, created.Assessment.EventNumber).NotEqual("")

	submitted, err := uc.Assessment.SubmitForReview(ctx, created.Assessment.ID, created.Assessment.Revision)
	gt.NoError(t, err).Required()
	gt.V(t, submitted.Assessment.Status).Equal(types.StatusUnderReview)

	approved, err := uc.Assessment.Approve(ctx, submitted.Assessment.ID, approverID, submitted.Assessment.Revision)
	gt.NoError(t, err).Required()
	gt.V(t, approved.Assessment.Status).Equal(types.StatusApproved)
	gt.V(t, approved.Assessment.ApprovedBy).Equal(approverID)
	gt.V(t, approved.Assessment.ApprovedAt).NotNil()

	activated, err := uc.Assessment.Activate(ctx, approved.Assessment.ID, approved.Assessment.Revision)
	gt.NoError(t, err).Required()
	gt.V(t, activated.Assessment.Status).Equal(types.StatusActive)
	gt.B(t, activated.Assessment.LastReviewDate.IsZero()).False()

	closed, err := uc.Assessment.Close(ctx, activated.Assessment.ID, activated.Assessment.Revision)
	gt.NoError(t, err).Required()
	gt.V(t, closed.Assessment.Status).Equal(types.StatusClosed)
}

func TestLifecycle_DoubleApprove(t *testing.T) {
	uc := newUseCases()
	ctx := context.Background()

	created, err := uc.Assessment.CreateAssessment(ctx, draftInput())
	gt.NoError(t, err).Required()
	submitted, err := uc.Assessment.SubmitForReview(ctx, created.Assessment.ID, created.Assessment.Revision)
	gt.NoError(t, err).Required()

	approved, err := uc.Assessment.Approve(ctx, submitted.Assessment.ID, approverID, submitted.Assessment.Revision)
	gt.NoError(t, err).Required()

	// second approve fails on the status guard
	_, err = uc.Assessment.Approve(ctx, approved.Assessment.ID, approverID, approved.Assessment.Revision)
	gt.Error(t, err).Is(model.ErrIllegalTransition)

	// the first approval is untouched
	got, err := uc.Assessment.GetAssessment(ctx, approved.Assessment.ID)
	gt.NoError(t, err).Required()
	gt.V(t, got.Assessment.ApprovedBy).Equal(approverID)
	gt.V(t, *got.Assessment.ApprovedAt).Equal(*approved.Assessment.ApprovedAt)
}

func TestLifecycle_ApproveRequiresCapability(t *testing.T) {
	uc := newUseCases()
	ctx := context.Background()

	created, err := uc.Assessment.CreateAssessment(ctx, draftInput())
	gt.NoError(t, err).Required()
	submitted, err := uc.Assessment.SubmitForReview(ctx, created.Assessment.ID, created.Assessment.Revision)
	gt.NoError(t, err).Required()

	t.Run("unknown actor is denied", func(t *testing.T) {
		_, err := uc.Assessment.Approve(ctx, submitted.Assessment.ID, types.ActorID("U-NOBODY"), submitted.Assessment.Revision)
		gt.Error(t, err).Is(model.ErrNotPermitted)
	})

	t.Run("empty actor is denied", func(t *testing.T) {
		_, err := uc.Assessment.Approve(ctx, submitted.Assessment.ID, types.ActorID(""), submitted.Assessment.Revision)
		gt.Error(t, err).Is(model.ErrNotPermitted)
	})

	t.Run("denied approve leaves status unchanged", func(t *testing.T) {
		got, err := uc.Assessment.GetAssessment(ctx, submitted.Assessment.ID)
		gt.NoError(t, err).Required()
		gt.V(t, got.Assessment.Status).Equal(types.StatusUnderReview)
	})
}

func TestLifecycle_SubmitGuards(t *testing.T) {
	uc := newUseCases()
	ctx := context.Background()

	t.Run("draft without ratings cannot be submitted", func(t *testing.T) {
		in := draftInput()
		in.ProbabilityInitial = 0
		in.SeverityInitial = 0
		in.ProbabilityResidual = 0
		in.SeverityResidual = 0
		created, err := uc.Assessment.CreateAssessment(ctx, in)
		gt.NoError(t, err).Required()

		_, err = uc.Assessment.SubmitForReview(ctx, created.Assessment.ID, created.Assessment.Revision)
		gt.Error(t, err).Is(model.ErrMissingRatings)
	})

	t.Run("submit from non-draft fails", func(t *testing.T) {
		created, err := uc.Assessment.CreateAssessment(ctx, draftInput())
		gt.NoError(t, err).Required()
		submitted, err := uc.Assessment.SubmitForReview(ctx, created.Assessment.ID, created.Assessment.Revision)
		gt.NoError(t, err).Required()

		_, err = uc.Assessment.SubmitForReview(ctx, submitted.Assessment.ID, submitted.Assessment.Revision)
		gt.Error(t, err).Is(model.ErrIllegalTransition)
	})
}

func TestLifecycle_Reject(t *testing.T) {
	uc := newUseCases()
	ctx := context.Background()

	created, err := uc.Assessment.CreateAssessment(ctx, draftInput())
	gt.NoError(t, err).Required()
	submitted, err := uc.Assessment.SubmitForReview(ctx, created.Assessment.ID, created.Assessment.Revision)
	gt.NoError(t, err).Required()

	t.Run("empty reason fails", func(t *testing.T) {
		_, err := uc.Assessment.Reject(ctx, submitted.Assessment.ID, "", submitted.Assessment.Revision)
		gt.Error(t, err).Is(model.ErrEmptyRejectReason)
	})

	t.Run("rejection is terminal", func(t *testing.T) {
		rejected, err := uc.Assessment.Reject(ctx, submitted.Assessment.ID, "controls insufficient", submitted.Assessment.Revision)
		gt.NoError(t, err).Required()
		gt.V(t, rejected.Assessment.Status).Equal(types.StatusRejected)
		gt.S(t, rejected.Assessment.RejectedReason).Equal("controls insufficient")

		_, err = uc.Assessment.SubmitForReview(ctx, rejected.Assessment.ID, rejected.Assessment.Revision)
		gt.Error(t, err).Is(model.ErrIllegalTransition)
	})
}

func TestLifecycle_DeleteGuards(t *testing.T) {
	uc := newUseCases()
	ctx := context.Background()

	toStatus := func(t *testing.T, target types.AssessmentStatus) *usecase.AssessmentView {
		t.Helper()
		v, err := uc.Assessment.CreateAssessment(ctx, draftInput())
		gt.NoError(t, err).Required()

		if target == types.StatusDraft {
			return v
		}
		v, err = uc.Assessment.SubmitForReview(ctx, v.Assessment.ID, v.Assessment.Revision)
		gt.NoError(t, err).Required()
		switch target {
		case types.StatusUnderReview:
			return v
		case types.StatusRejected:
			v, err = uc.Assessment.Reject(ctx, v.Assessment.ID, "no", v.Assessment.Revision)
			gt.NoError(t, err).Required()
			return v
		}
		v, err = uc.Assessment.Approve(ctx, v.Assessment.ID, approverID, v.Assessment.Revision)
		gt.NoError(t, err).Required()
		if target == types.StatusApproved {
			return v
		}
		v, err = uc.Assessment.Activate(ctx, v.Assessment.ID, v.Assessment.Revision)
		gt.NoError(t, err).Required()
		if target == types.StatusActive {
			return v
		}
		v, err = uc.Assessment.Close(ctx, v.Assessment.ID, v.Assessment.Revision)
		gt.NoError(t, err).Required()
		return v
	}

	tests := []struct {
		status  types.AssessmentStatus
		deletes bool
	}{
		{types.StatusDraft, true},
		{types.StatusUnderReview, false},
		{types.StatusApproved, false},
		{types.StatusActive, false},
		{types.StatusRejected, true},
		{types.StatusClosed, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			v := toStatus(t, tt.status)
			err := uc.Assessment.DeleteAssessment(ctx, v.Assessment.ID)
			if tt.deletes {
				gt.NoError(t, err)
			} else {
				gt.Error(t, err).Is(model.ErrDeleteNotAllowed)
			}
		})
	}
}

func TestLifecycle_RevisionConflict(t *testing.T) {
	uc := newUseCases()
	ctx := context.Background()

	created, err := uc.Assessment.CreateAssessment(ctx, draftInput())
	gt.NoError(t, err).Required()

	// two actors read revision 1; the first submit wins
	_, err = uc.Assessment.SubmitForReview(ctx, created.Assessment.ID, created.Assessment.Revision)
	gt.NoError(t, err).Required()

	_, err = uc.Assessment.SubmitForReview(ctx, created.Assessment.ID, created.Assessment.Revision)
	gt.Error(t, err)
}

func TestLifecycle_MarkReviewed(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	uc := newUseCases(usecase.WithClock(func() time.Time { return base }))
	ctx := context.Background()

	v, err := uc.Assessment.CreateAssessment(ctx, draftInput())
	gt.NoError(t, err).Required()
	v, err = uc.Assessment.SubmitForReview(ctx, v.Assessment.ID, v.Assessment.Revision)
	gt.NoError(t, err).Required()
	v, err = uc.Assessment.Approve(ctx, v.Assessment.ID, approverID, v.Assessment.Revision)
	gt.NoError(t, err).Required()
	v, err = uc.Assessment.Activate(ctx, v.Assessment.ID, v.Assessment.Revision)
	gt.NoError(t, err).Required()

	reviewed, err := uc.Assessment.MarkReviewed(ctx, v.Assessment.ID, base.AddDate(0, 1, 0), v.Assessment.Revision)
	gt.NoError(t, err).Required()
	gt.V(t, reviewed.Assessment.LastReviewDate).Equal(base.AddDate(0, 1, 0))
	gt.V(t, reviewed.NextReview).Equal(base.AddDate(0, 1, 0).AddDate(0, 0, 365))

	t.Run("review before last review fails", func(t *testing.T) {
		_, err := uc.Assessment.MarkReviewed(ctx, reviewed.Assessment.ID, base.AddDate(0, 0, -10), reviewed.Assessment.Revision)
		gt.Error(t, err)
	})

	t.Run("only active assessments", func(t *testing.T) {
		closed, err := uc.Assessment.Close(ctx, reviewed.Assessment.ID, reviewed.Assessment.Revision)
		gt.NoError(t, err).Required()
		_, err = uc.Assessment.MarkReviewed(ctx, closed.Assessment.ID, base, closed.Assessment.Revision)
		gt.Error(t, err).Is(model.ErrIllegalTransition)
	})
}
