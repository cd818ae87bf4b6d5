package usecase

import (
	"context"
	"io"
	"sort"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/interfaces"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/service/sheet"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/utils/logging"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// importWorkers bounds the parallelism of bulk row processing.
const importWorkers = 4

// ImportUseCase handles bulk import and export. Import policy is row-level
// partial success: rows are validated and persisted independently, and a
// failed row never rolls back rows already committed.
type ImportUseCase struct {
	assessment *AssessmentUseCase
	repo       interfaces.Repository
}

// Import decodes CSV rows and creates one DRAFT assessment per valid row.
// The returned report lists the failed rows with 1-based row numbers; the
// error return is reserved for unreadable input.
func (uc *ImportUseCase) Import(ctx context.Context, r io.Reader) (*model.ImportReport, error) {
	rows, err := sheet.Decode(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode import data")
	}

	type outcome struct {
		row int
		err error
	}
	outcomes := make([]outcome, len(rows))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(importWorkers)
	for i, row := range rows {
		eg.Go(func() error {
			outcomes[i] = outcome{row: row.Number, err: uc.importRow(ctx, row)}
			return nil
		})
	}
	// Workers only record outcomes, they never abort the group.
	_ = eg.Wait()

	report := &model.ImportReport{BatchID: uuid.NewString()}
	for _, o := range outcomes {
		if o.err == nil {
			report.Succeeded++
			continue
		}
		report.Failed = append(report.Failed, model.RowError{Row: o.row, Error: o.err.Error()})
	}
	sort.Slice(report.Failed, func(i, j int) bool {
		return report.Failed[i].Row < report.Failed[j].Row
	})

	logging.From(ctx).Info("bulk import finished",
		"batch_id", report.BatchID,
		"succeeded", report.Succeeded,
		"failed", len(report.Failed),
	)

	return report, nil
}

func (uc *ImportUseCase) importRow(ctx context.Context, row sheet.Row) error {
	if row.Err != nil {
		return goerr.Wrap(row.Err, "unparsable row",
			goerr.T(model.TagValidation), goerr.V(model.RowKey, row.Number))
	}

	a := row.Assessment
	in := CreateInput{
		EventNumber:         a.EventNumber,
		Title:               a.Title,
		Location:            a.Location,
		ProcessArea:         a.ProcessArea,
		Category:            a.Category,
		ActivityType:        a.ActivityType,
		ProbabilityInitial:  a.ProbabilityInitial,
		SeverityInitial:     a.SeverityInitial,
		ProbabilityResidual: a.ProbabilityResidual,
		SeverityResidual:    a.SeverityResidual,
		AssessedBy:          a.AssessedBy,
		RiskOwner:           a.RiskOwner,
		AssessmentDate:      a.AssessmentDate,
		LastReviewDate:      a.LastReviewDate,
		ReviewPeriodDays:    a.ReviewPeriodDays,
	}

	// Imported rows must carry complete ratings; an all-blank pair that a
	// manually created draft may have is a data error here.
	if !a.HasRatings() {
		return goerr.Wrap(model.ErrRatingOutOfRange, "row is missing ratings",
			goerr.V(model.RowKey, row.Number))
	}

	if _, err := uc.assessment.CreateAssessment(ctx, in); err != nil {
		return goerr.Wrap(err, "failed to import row", goerr.V(model.RowKey, row.Number))
	}
	return nil
}

// Export writes the assessments matching the filter as CSV. Sorting and
// pagination of opts apply, so an export can mirror exactly what a list
// call returned.
func (uc *ImportUseCase) Export(ctx context.Context, w io.Writer, opts interfaces.ListOptions) error {
	items, _, err := uc.repo.Assessment().List(ctx, opts)
	if err != nil {
		return goerr.Wrap(err, "failed to list assessments for export")
	}

	if err := sheet.Encode(w, items); err != nil {
		return goerr.Wrap(err, "failed to encode assessments")
	}
	return nil
}
