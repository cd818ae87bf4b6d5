package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/interfaces"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model/config"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/service/schedule"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/service/scoring"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/utils/logging"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// AssessmentUseCase creates assessments and drives their lifecycle. Status
// is never assigned directly; every transition goes through a guard and a
// revision-checked store update, so an illegal call leaves no partial state.
type AssessmentUseCase struct {
	repo       interfaces.Repository
	matrix     *config.MatrixConfig
	authorizer interfaces.Authorizer
	now        func() time.Time
}

// AssessmentView pairs a stored assessment with its derived projections:
// score (recomputed from ratings, never read from storage) and review
// scheduling.
type AssessmentView struct {
	Assessment *model.RiskAssessment
	Score      scoring.View
	NextReview time.Time
	Overdue    bool
}

// buildView derives the score and review projections for one assessment.
func buildView(a *model.RiskAssessment, matrix *config.MatrixConfig, now time.Time) (*AssessmentView, error) {
	v := &AssessmentView{Assessment: a}

	if a.HasRatings() {
		score, err := scoring.Assess(a, matrix)
		if err != nil {
			return nil, err
		}
		v.Score = score
	}

	if !a.LastReviewDate.IsZero() {
		next, err := schedule.NextReview(a.LastReviewDate, a.ReviewPeriodDays)
		if err != nil {
			return nil, err
		}
		v.NextReview = next
		v.Overdue = schedule.IsOverdue(next, now)
	}

	return v, nil
}

func (uc *AssessmentUseCase) view(a *model.RiskAssessment) (*AssessmentView, error) {
	return buildView(a, uc.matrix, uc.now())
}

// CreateInput carries the caller-supplied fields for a new assessment.
type CreateInput struct {
	EventNumber string // generated when empty

	Title        string
	Location     string
	ProcessArea  string
	Category     types.Category
	ActivityType string

	ProbabilityInitial  int
	SeverityInitial     int
	ProbabilityResidual int
	SeverityResidual    int

	AssessedBy types.ActorID
	RiskOwner  types.ActorID

	AssessmentDate   time.Time
	LastReviewDate   time.Time
	ReviewPeriodDays int

	Hazards  []model.Hazard
	Barriers []model.Barrier
}

func (uc *AssessmentUseCase) validateInput(in *CreateInput) error {
	if in.Title == "" {
		return goerr.Wrap(model.ErrMissingField, "assessment title is required")
	}
	if !in.Category.IsValid() {
		return goerr.New("invalid category", goerr.T(model.TagValidation), goerr.V("category", in.Category))
	}
	if in.ReviewPeriodDays < 0 {
		return goerr.Wrap(model.ErrInvalidPeriod, "invalid review period",
			goerr.V("period_days", in.ReviewPeriodDays))
	}

	// Ratings may be left unset on a draft, but a partially filled pair or
	// an out-of-range value is always an error.
	ratings := []struct {
		name  string
		value int
	}{
		{"probability_initial", in.ProbabilityInitial},
		{"severity_initial", in.SeverityInitial},
		{"probability_residual", in.ProbabilityResidual},
		{"severity_residual", in.SeverityResidual},
	}
	anySet := false
	for _, r := range ratings {
		if r.value != 0 {
			anySet = true
		}
	}
	if anySet {
		for _, r := range ratings {
			if !uc.matrix.InRange(r.value) {
				return goerr.Wrap(model.ErrRatingOutOfRange, "invalid rating",
					goerr.V("field", r.name), goerr.V("value", r.value), goerr.V("size", uc.matrix.Size))
			}
		}
	}

	return nil
}

// CreateAssessment validates the input against the active matrix config and
// persists a new DRAFT assessment. The event number is assigned here, once.
func (uc *AssessmentUseCase) CreateAssessment(ctx context.Context, in CreateInput) (*AssessmentView, error) {
	if err := uc.validateInput(&in); err != nil {
		return nil, err
	}

	eventNumber := in.EventNumber
	if eventNumber == "" {
		eventNumber = uc.newEventNumber()
	}

	assessmentDate := in.AssessmentDate
	if assessmentDate.IsZero() {
		assessmentDate = uc.now()
	}
	lastReview := in.LastReviewDate
	if lastReview.IsZero() {
		lastReview = assessmentDate
	}

	a := &model.RiskAssessment{
		EventNumber:         eventNumber,
		Title:               in.Title,
		Location:            in.Location,
		ProcessArea:         in.ProcessArea,
		Category:            in.Category,
		ActivityType:        in.ActivityType,
		ProbabilityInitial:  in.ProbabilityInitial,
		SeverityInitial:     in.SeverityInitial,
		ProbabilityResidual: in.ProbabilityResidual,
		SeverityResidual:    in.SeverityResidual,
		Status:              types.StatusDraft,
		AssessedBy:          in.AssessedBy,
		RiskOwner:           in.RiskOwner,
		AssessmentDate:      assessmentDate,
		LastReviewDate:      lastReview,
		ReviewPeriodDays:    schedule.NormalizePeriod(in.ReviewPeriodDays),
		MatrixVersion:       uc.matrix.Version,
		Hazards:             in.Hazards,
		Barriers:            in.Barriers,
	}

	if a.HasRatings() {
		view, err := scoring.Assess(a, uc.matrix)
		if err != nil {
			return nil, err
		}
		// Residual above initial is stored as given, but leaves a trace
		// for auditors.
		if view.Residual.Level > view.Initial.Level {
			logging.From(ctx).Warn("residual risk level exceeds initial level",
				"event_number", a.EventNumber,
				"initial", view.Initial.Level,
				"residual", view.Residual.Level,
			)
		}
	}

	created, err := uc.repo.Assessment().Create(ctx, a)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment")
	}

	return uc.view(created)
}

func (uc *AssessmentUseCase) newEventNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("RA-%d-%s", uc.now().Year(), suffix)
}

// UpdateAssessment edits metadata and ratings of a DRAFT assessment. Later
// statuses are fixed by the review chain; changing their content would
// invalidate the approval.
func (uc *AssessmentUseCase) UpdateAssessment(ctx context.Context, id int64, in CreateInput, revision int64) (*AssessmentView, error) {
	if err := uc.validateInput(&in); err != nil {
		return nil, err
	}

	existing, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.Status.Normalize() != types.StatusDraft {
		return nil, goerr.Wrap(model.ErrIllegalTransition, "only draft assessments can be edited",
			goerr.V(model.AssessmentIDKey, id), goerr.V(model.StatusKey, existing.Status))
	}

	updated := existing.Clone()
	updated.Title = in.Title
	updated.Location = in.Location
	updated.ProcessArea = in.ProcessArea
	updated.Category = in.Category
	updated.ActivityType = in.ActivityType
	updated.ProbabilityInitial = in.ProbabilityInitial
	updated.SeverityInitial = in.SeverityInitial
	updated.ProbabilityResidual = in.ProbabilityResidual
	updated.SeverityResidual = in.SeverityResidual
	updated.AssessedBy = in.AssessedBy
	updated.RiskOwner = in.RiskOwner
	updated.ReviewPeriodDays = schedule.NormalizePeriod(in.ReviewPeriodDays)
	updated.MatrixVersion = uc.matrix.Version
	updated.Hazards = in.Hazards
	updated.Barriers = in.Barriers
	if !in.AssessmentDate.IsZero() {
		updated.AssessmentDate = in.AssessmentDate
	}
	if !in.LastReviewDate.IsZero() {
		updated.LastReviewDate = in.LastReviewDate
	}

	saved, err := uc.repo.Assessment().Update(ctx, updated, revision)
	if err != nil {
		return nil, err
	}

	return uc.view(saved)
}

// GetAssessment returns one assessment with its derived projections.
func (uc *AssessmentUseCase) GetAssessment(ctx context.Context, id int64) (*AssessmentView, error) {
	a, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.view(a)
}

// DeleteAssessment deletes an assessment when its status allows it. ACTIVE
// and UNDER_REVIEW assessments must leave those states first.
func (uc *AssessmentUseCase) DeleteAssessment(ctx context.Context, id int64) error {
	a, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		return err
	}

	if !a.Status.Deletable() {
		return goerr.Wrap(model.ErrDeleteNotAllowed, "cannot delete assessment",
			goerr.V(model.AssessmentIDKey, id), goerr.V(model.StatusKey, a.Status))
	}

	if err := uc.repo.Assessment().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete assessment")
	}
	return nil
}
