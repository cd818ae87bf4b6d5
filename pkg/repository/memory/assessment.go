package memory

import (
	"context"
	"sync"
	"time"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/interfaces"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/repository/query"
	"github.com/m-mizutani/goerr/v2"
)

type assessmentRepository struct {
	mu          sync.RWMutex
	assessments map[int64]*model.RiskAssessment
	eventIndex  map[string]int64
	nextID      int64
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		assessments: make(map[int64]*model.RiskAssessment),
		eventIndex:  make(map[string]int64),
		nextID:      1,
	}
}

func (r *assessmentRepository) Create(ctx context.Context, a *model.RiskAssessment) (*model.RiskAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.eventIndex[a.EventNumber]; exists {
		return nil, goerr.Wrap(model.ErrDuplicateEventNo, "cannot create assessment",
			goerr.V(model.EventNumberKey, a.EventNumber))
	}

	now := time.Now().UTC()
	created := a.Clone()
	created.ID = r.nextID
	created.Revision = 1
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.assessments[created.ID] = created
	r.eventIndex[created.EventNumber] = created.ID
	return created.Clone(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*model.RiskAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.assessments[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, id))
	}

	return a.Clone(), nil
}

func (r *assessmentRepository) GetByEventNumber(ctx context.Context, eventNumber string) (*model.RiskAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.eventIndex[eventNumber]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "assessment not found",
			goerr.V(model.EventNumberKey, eventNumber))
	}

	return r.assessments[id].Clone(), nil
}

func (r *assessmentRepository) List(ctx context.Context, opts interfaces.ListOptions) ([]*model.RiskAssessment, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*model.RiskAssessment, 0, len(r.assessments))
	for _, a := range r.assessments {
		all = append(all, a)
	}

	page, total := query.Apply(all, opts)

	items := make([]*model.RiskAssessment, len(page))
	for i, a := range page {
		items[i] = a.Clone()
	}
	return items, total, nil
}

func (r *assessmentRepository) Update(ctx context.Context, a *model.RiskAssessment, expectedRevision int64) (*model.RiskAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.assessments[a.ID]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, a.ID))
	}

	if existing.Revision != expectedRevision {
		return nil, goerr.Wrap(model.ErrRevisionConflict, "stale write rejected",
			goerr.V(model.AssessmentIDKey, a.ID),
			goerr.V("expected", expectedRevision),
			goerr.V("stored", existing.Revision))
	}

	updated := a.Clone()
	// event number is assigned once at creation and never mutated
	updated.EventNumber = existing.EventNumber
	updated.CreatedAt = existing.CreatedAt
	updated.Revision = existing.Revision + 1
	updated.UpdatedAt = time.Now().UTC()

	r.assessments[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.assessments[id]
	if !exists {
		return goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, id))
	}

	delete(r.eventIndex, a.EventNumber)
	delete(r.assessments, id)
	return nil
}
