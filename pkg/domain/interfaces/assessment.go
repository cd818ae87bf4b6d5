package interfaces

import (
	"context"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
)

// AssessmentRepository defines the interface for RiskAssessment data access
type AssessmentRepository interface {
	// Create persists a new assessment with an auto-generated ID and
	// revision 1. EventNumber uniqueness is enforced here.
	Create(ctx context.Context, a *model.RiskAssessment) (*model.RiskAssessment, error)

	// Get retrieves an assessment by ID
	Get(ctx context.Context, id int64) (*model.RiskAssessment, error)

	// GetByEventNumber retrieves an assessment by its event number
	GetByEventNumber(ctx context.Context, eventNumber string) (*model.RiskAssessment, error)

	// List retrieves assessments matching the filter, sorted and paginated.
	// total is the match count before pagination.
	List(ctx context.Context, opts ListOptions) (items []*model.RiskAssessment, total int, err error)

	// Update replaces an existing assessment. The write succeeds only when
	// expectedRevision matches the stored revision; the stored revision is
	// then incremented. Stale writers get model.ErrRevisionConflict.
	Update(ctx context.Context, a *model.RiskAssessment, expectedRevision int64) (*model.RiskAssessment, error)

	// Delete deletes an assessment by ID. Lifecycle guards live in the
	// use case layer, not here.
	Delete(ctx context.Context, id int64) error
}
