package usecase_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestCreateAssessment_Validation(t *testing.T) {
	uc := newUseCases()
	ctx := context.Background()

	t.Run("title is required", func(t *testing.T) {
		in := draftInput()
		in.Title = ""
		_, err := uc.Assessment.CreateAssessment(ctx, in)
		gt.Error(t, err).Is(model.ErrMissingField)
	})

	t.Run("category must be known", func(t *testing.T) {
		in := draftInput()
		in.Category = types.Category("FINANCIAL")
		_, err := uc.Assessment.CreateAssessment(ctx, in)
		gt.Error(t, err)
	})

	t.Run("negative review period", func(t *testing.T) {
		in := draftInput()
		in.ReviewPeriodDays = -1
		_, err := uc.Assessment.CreateAssessment(ctx, in)
		gt.Error(t, err).Is(model.ErrInvalidPeriod)
	})

	t.Run("rating above matrix size", func(t *testing.T) {
		in := draftInput()
		in.SeverityInitial = 6
		_, err := uc.Assessment.CreateAssessment(ctx, in)
		gt.Error(t, err).Is(model.ErrRatingOutOfRange)
	})

	t.Run("partially filled ratings", func(t *testing.T) {
		in := draftInput()
		in.SeverityResidual = 0
		_, err := uc.Assessment.CreateAssessment(ctx, in)
		gt.Error(t, err).Is(model.ErrRatingOutOfRange)
	})

	t.Run("all-zero ratings make a valid unrated draft", func(t *testing.T) {
		in := draftInput()
		in.ProbabilityInitial = 0
		in.SeverityInitial = 0
		in.ProbabilityResidual = 0
		in.SeverityResidual = 0
		v, err := uc.Assessment.CreateAssessment(ctx, in)
		gt.NoError(t, err).Required()
		gt.B(t, v.Assessment.HasRatings()).False()
	})
}

func TestCreateAssessment_Defaults(t *testing.T) {
	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	uc := newUseCases(usecase.WithClock(func() time.Time { return base }))
	ctx := context.Background()

	v, err := uc.Assessment.CreateAssessment(ctx, draftInput())
	gt.NoError(t, err).Required()

	a := v.Assessment
	gt.B(t, regexp.MustCompile(`^RA-2026-[0-9A-F]{8}$`).MatchString(a.EventNumber)).True()
	gt.V(t, a.AssessmentDate).Equal(base)
	gt.V(t, a.LastReviewDate).Equal(base)
	gt.N(t, a.ReviewPeriodDays).Equal(365)
	gt.N(t, a.MatrixVersion).Equal(1)
	gt.N(t, a.Revision).Equal(1)
	gt.V(t, v.NextReview).Equal(base.AddDate(0, 0, 365))
	gt.B(t, v.Overdue).False()
}

func TestCreateAssessment_EventNumbersUnique(t *testing.T) {
	uc := newUseCases()
	ctx := context.Background()

	pattern := regexp.MustCompile(`^RA-\d{4}-[0-9A-F]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		v, err := uc.Assessment.CreateAssessment(ctx, draftInput())
		gt.NoError(t, err).Required()
		gt.B(t, pattern.MatchString(v.Assessment.EventNumber)).True()
		gt.B(t, seen[v.Assessment.EventNumber]).False()
		seen[v.Assessment.EventNumber] = true
	}
}

func TestUpdateAssessment(t *testing.T) {
	uc := newUseCases()
	ctx := context.Background()

	created, err := uc.Assessment.CreateAssessment(ctx, draftInput())
	gt.NoError(t, err).Required()

	t.Run("draft can be edited", func(t *testing.T) {
		in := draftInput()
		in.Title = "Hot work in tank farm (revised)"
		in.ProbabilityResidual = 1
		in.SeverityResidual = 1

		updated, err := uc.Assessment.UpdateAssessment(ctx, created.Assessment.ID, in, created.Assessment.Revision)
		gt.NoError(t, err).Required()
		gt.S(t, updated.Assessment.Title).Equal("Hot work in tank farm (revised)")
		gt.N(t, updated.Assessment.Revision).Equal(created.Assessment.Revision + 1)
		// the event number never changes after creation
		gt.S(t, updated.Assessment.EventNumber).Equal(created.Assessment.EventNumber)
	})

	t.Run("non-draft cannot be edited", func(t *testing.T) {
		got, err := uc.Assessment.GetAssessment(ctx, created.Assessment.ID)
		gt.NoError(t, err).Required()
		submitted, err := uc.Assessment.SubmitForReview(ctx, got.Assessment.ID, got.Assessment.Revision)
		gt.NoError(t, err).Required()

		_, err = uc.Assessment.UpdateAssessment(ctx, submitted.Assessment.ID, draftInput(), submitted.Assessment.Revision)
		gt.Error(t, err).Is(model.ErrIllegalTransition)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := uc.Assessment.GetAssessment(ctx, 99999)
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}
