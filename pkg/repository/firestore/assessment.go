package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/interfaces"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/repository/query"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type hazardDocument struct {
	Description string `firestore:"description"`
	Consequence string `firestore:"consequence"`
}

type barrierDocument struct {
	Description string `firestore:"description"`
	BarrierType string `firestore:"barrier_type"`
}

type assessmentDocument struct {
	ID          int64  `firestore:"id"`
	EventNumber string `firestore:"event_number"`

	Title        string `firestore:"title"`
	Location     string `firestore:"location"`
	ProcessArea  string `firestore:"process_area"`
	Category     string `firestore:"category"`
	ActivityType string `firestore:"activity_type"`

	ProbabilityInitial  int `firestore:"probability_initial"`
	SeverityInitial     int `firestore:"severity_initial"`
	ProbabilityResidual int `firestore:"probability_residual"`
	SeverityResidual    int `firestore:"severity_residual"`

	Status string `firestore:"status"`

	AssessedBy     string     `firestore:"assessed_by"`
	RiskOwner      string     `firestore:"risk_owner"`
	ApprovedBy     string     `firestore:"approved_by"`
	ApprovedAt     *time.Time `firestore:"approved_at"`
	RejectedReason string     `firestore:"rejected_reason"`

	AssessmentDate   time.Time `firestore:"assessment_date"`
	LastReviewDate   time.Time `firestore:"last_review_date"`
	ReviewPeriodDays int       `firestore:"review_period_days"`

	MatrixVersion int   `firestore:"matrix_version"`
	Revision      int64 `firestore:"revision"`

	Hazards  []hazardDocument  `firestore:"hazards"`
	Barriers []barrierDocument `firestore:"barriers"`

	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func toDocument(a *model.RiskAssessment) *assessmentDocument {
	doc := &assessmentDocument{
		ID:                  a.ID,
		EventNumber:         a.EventNumber,
		Title:               a.Title,
		Location:            a.Location,
		ProcessArea:         a.ProcessArea,
		Category:            a.Category.String(),
		ActivityType:        a.ActivityType,
		ProbabilityInitial:  a.ProbabilityInitial,
		SeverityInitial:     a.SeverityInitial,
		ProbabilityResidual: a.ProbabilityResidual,
		SeverityResidual:    a.SeverityResidual,
		Status:              a.Status.String(),
		AssessedBy:          a.AssessedBy.String(),
		RiskOwner:           a.RiskOwner.String(),
		ApprovedBy:          a.ApprovedBy.String(),
		ApprovedAt:          a.ApprovedAt,
		RejectedReason:      a.RejectedReason,
		AssessmentDate:      a.AssessmentDate,
		LastReviewDate:      a.LastReviewDate,
		ReviewPeriodDays:    a.ReviewPeriodDays,
		MatrixVersion:       a.MatrixVersion,
		Revision:            a.Revision,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
	for _, h := range a.Hazards {
		doc.Hazards = append(doc.Hazards, hazardDocument{Description: h.Description, Consequence: h.Consequence})
	}
	for _, b := range a.Barriers {
		doc.Barriers = append(doc.Barriers, barrierDocument{Description: b.Description, BarrierType: b.BarrierType})
	}
	return doc
}

func (d *assessmentDocument) toModel() *model.RiskAssessment {
	a := &model.RiskAssessment{
		ID:                  d.ID,
		EventNumber:         d.EventNumber,
		Title:               d.Title,
		Location:            d.Location,
		ProcessArea:         d.ProcessArea,
		Category:            types.Category(d.Category),
		ActivityType:        d.ActivityType,
		ProbabilityInitial:  d.ProbabilityInitial,
		SeverityInitial:     d.SeverityInitial,
		ProbabilityResidual: d.ProbabilityResidual,
		SeverityResidual:    d.SeverityResidual,
		Status:              types.AssessmentStatus(d.Status),
		AssessedBy:          types.ActorID(d.AssessedBy),
		RiskOwner:           types.ActorID(d.RiskOwner),
		ApprovedBy:          types.ActorID(d.ApprovedBy),
		ApprovedAt:          d.ApprovedAt,
		RejectedReason:      d.RejectedReason,
		AssessmentDate:      d.AssessmentDate,
		LastReviewDate:      d.LastReviewDate,
		ReviewPeriodDays:    d.ReviewPeriodDays,
		MatrixVersion:       d.MatrixVersion,
		Revision:            d.Revision,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
	for _, h := range d.Hazards {
		a.Hazards = append(a.Hazards, model.Hazard{Description: h.Description, Consequence: h.Consequence})
	}
	for _, b := range d.Barriers {
		a.Barriers = append(a.Barriers, model.Barrier{Description: b.Description, BarrierType: b.BarrierType})
	}
	return a
}

type assessmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAssessmentRepository(client *firestore.Client) *assessmentRepository {
	return &assessmentRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *assessmentRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_assessments"
	}
	return "assessments"
}

func (r *assessmentRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *assessmentRepository) eventNumberCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_event_numbers"
	}
	return "event_numbers"
}

func (r *assessmentRepository) getNextID(ctx context.Context) (int64, error) {
	counterRef := r.client.Collection(r.counterCollection()).Doc("assessment_counter")

	var nextID int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		nextID = currentValue.(int64) + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID")
	}

	return nextID, nil
}

func (r *assessmentRepository) Create(ctx context.Context, a *model.RiskAssessment) (*model.RiskAssessment, error) {
	id, err := r.getNextID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := toDocument(a)
	doc.ID = id
	doc.Revision = 1
	doc.CreatedAt = now
	doc.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	// The event-number index document doubles as a uniqueness lock. The
	// transaction reads it before writing, so concurrent creates sharing an
	// event number cannot both commit.
	indexRef := r.client.Collection(r.eventNumberCollection()).Doc(a.EventNumber)

	err = r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(indexRef)
		if err == nil {
			return goerr.Wrap(model.ErrDuplicateEventNo, "cannot create assessment",
				goerr.V(model.EventNumberKey, a.EventNumber))
		}
		if status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to check event number",
				goerr.V(model.EventNumberKey, a.EventNumber))
		}

		if err := tx.Create(indexRef, map[string]interface{}{"assessment_id": id}); err != nil {
			return goerr.Wrap(err, "failed to index event number")
		}
		return tx.Set(docRef, doc)
	})
	if err != nil {
		return nil, err
	}

	return doc.toModel(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*model.RiskAssessment, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	snap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V(model.AssessmentIDKey, id))
	}

	var doc assessmentDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode assessment document")
	}

	return doc.toModel(), nil
}

func (r *assessmentRepository) GetByEventNumber(ctx context.Context, eventNumber string) (*model.RiskAssessment, error) {
	iter := r.client.Collection(r.collection()).
		Where("event_number", "==", eventNumber).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(model.ErrNotFound, "assessment not found",
			goerr.V(model.EventNumberKey, eventNumber))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query assessment by event number")
	}

	var doc assessmentDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode assessment document")
	}

	return doc.toModel(), nil
}

// List fetches all documents and filters/sorts/paginates client-side. The
// assessment population is small (hundreds), so this stays within a single
// query and avoids composite index requirements.
func (r *assessmentRepository) List(ctx context.Context, opts interfaces.ListOptions) ([]*model.RiskAssessment, int, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var all []*model.RiskAssessment
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, goerr.Wrap(err, "failed to iterate assessments")
		}

		var doc assessmentDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, 0, goerr.Wrap(err, "failed to decode assessment document")
		}
		all = append(all, doc.toModel())
	}

	page, total := query.Apply(all, opts)
	return page, total, nil
}

func (r *assessmentRepository) Update(ctx context.Context, a *model.RiskAssessment, expectedRevision int64) (*model.RiskAssessment, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", a.ID))

	var updated *assessmentDocument
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, a.ID))
			}
			return goerr.Wrap(err, "failed to get assessment")
		}

		var existing assessmentDocument
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode assessment document")
		}

		if existing.Revision != expectedRevision {
			return goerr.Wrap(model.ErrRevisionConflict, "stale write rejected",
				goerr.V(model.AssessmentIDKey, a.ID),
				goerr.V("expected", expectedRevision),
				goerr.V("stored", existing.Revision))
		}

		doc := toDocument(a)
		// event number is assigned once at creation and never mutated
		doc.EventNumber = existing.EventNumber
		doc.CreatedAt = existing.CreatedAt
		doc.Revision = existing.Revision + 1
		doc.UpdatedAt = time.Now().UTC()
		updated = doc

		return tx.Set(docRef, doc)
	})
	if err != nil {
		return nil, err
	}

	return updated.toModel(), nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))

	snap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrNotFound, "assessment not found", goerr.V(model.AssessmentIDKey, id))
		}
		return goerr.Wrap(err, "failed to get assessment", goerr.V(model.AssessmentIDKey, id))
	}

	var doc assessmentDocument
	if err := snap.DataTo(&doc); err != nil {
		return goerr.Wrap(err, "failed to decode assessment document")
	}

	// Drop the event-number index alongside the document so the number can be
	// reused after deletion, matching the in-memory backend.
	indexRef := r.client.Collection(r.eventNumberCollection()).Doc(doc.EventNumber)
	err = r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Delete(docRef); err != nil {
			return err
		}
		return tx.Delete(indexRef)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete assessment", goerr.V(model.AssessmentIDKey, id))
	}
	return nil
}
