package usecase

import (
	"context"
	"time"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/interfaces"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model/config"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/service/schedule"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/service/scoring"
	"github.com/m-mizutani/goerr/v2"
)

// QueryUseCase serves read-only projections: filtered lists, the matrix-cell
// aggregation and the dashboard. Derived values are recomputed per call.
type QueryUseCase struct {
	repo   interfaces.Repository
	matrix *config.MatrixConfig
	now    func() time.Time
}

// MatrixConfig returns the active matrix configuration.
func (uc *QueryUseCase) MatrixConfig() *config.MatrixConfig {
	return uc.matrix
}

// ListAssessments returns assessments matching the explicit filter, sort and
// pagination parameters, with derived score views, plus the pre-pagination
// total.
func (uc *QueryUseCase) ListAssessments(ctx context.Context, opts interfaces.ListOptions) ([]*AssessmentView, int, error) {
	if opts.SortBy != "" && !opts.SortBy.IsValid() {
		return nil, 0, goerr.New("invalid sort field", goerr.T(model.TagValidation),
			goerr.V("sort_by", string(opts.SortBy)))
	}

	items, total, err := uc.repo.Assessment().List(ctx, opts)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to list assessments")
	}

	views := make([]*AssessmentView, 0, len(items))
	for _, a := range items {
		v, err := uc.viewOf(a)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, v)
	}

	return views, total, nil
}

func (uc *QueryUseCase) viewOf(a *model.RiskAssessment) (*AssessmentView, error) {
	return buildView(a, uc.matrix, uc.now())
}

// AggregateByCell groups assessment summaries by their residual
// probability/severity cell for matrix rendering. One pass over the
// repository; the population is small by design.
func (uc *QueryUseCase) AggregateByCell(ctx context.Context) (map[model.Cell][]model.AssessmentSummary, error) {
	items, _, err := uc.repo.Assessment().List(ctx, interfaces.ListOptions{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments for aggregation")
	}

	cells := make(map[model.Cell][]model.AssessmentSummary)
	for _, a := range items {
		if !a.HasRatings() {
			continue
		}
		cell := model.Cell{Probability: a.ProbabilityResidual, Severity: a.SeverityResidual}
		cells[cell] = append(cells[cell], a.Summary())
	}

	return cells, nil
}

// Dashboard builds the aggregate counts projection: totals, residual band
// distribution, overdue reviews and per-category counts.
func (uc *QueryUseCase) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	items, total, err := uc.repo.Assessment().List(ctx, interfaces.ListOptions{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments for dashboard")
	}

	d := &model.Dashboard{
		Total:      total,
		ByBand:     make(map[types.Band]int),
		ByCategory: make(map[types.Category]int),
	}
	now := uc.now()

	for _, a := range items {
		d.ByCategory[a.Category]++

		if a.Status == types.StatusActive {
			d.Active++
		}

		if a.HasRatings() {
			score, err := scoring.Assess(a, uc.matrix)
			if err != nil {
				return nil, err
			}
			d.ByBand[score.Residual.Band]++
		}

		if !a.LastReviewDate.IsZero() {
			next, err := schedule.NextReview(a.LastReviewDate, a.ReviewPeriodDays)
			if err != nil {
				return nil, err
			}
			if schedule.IsOverdue(next, now) {
				d.OverdueReview++
			}
		}
	}

	return d, nil
}
