package model

import (
	"time"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
)

// Hazard is a single identified hazard on an assessment. The content is an
// opaque payload to this service; only ordering and counts matter here.
type Hazard struct {
	Description string `json:"description" firestore:"description"`
	Consequence string `json:"consequence" firestore:"consequence"`
}

// Barrier is a mitigation control applied to an assessment.
type Barrier struct {
	Description string `json:"description" firestore:"description"`
	BarrierType string `json:"barrier_type" firestore:"barrier_type"`
}

// RiskAssessment is the central aggregate of the risk module.
//
// Probability and severity ratings are the authoritative stored state; risk
// levels, bands and colors are recomputed from them and the matrix config
// version recorded at capture time (see scoring.Assess). Status is mutated
// only through lifecycle operations, never by direct assignment.
type RiskAssessment struct {
	ID          int64
	EventNumber string // unique, assigned once at creation

	Title        string
	Location     string
	ProcessArea  string
	Category     types.Category
	ActivityType string

	ProbabilityInitial  int
	SeverityInitial     int
	ProbabilityResidual int
	SeverityResidual    int

	Status types.AssessmentStatus

	AssessedBy types.ActorID
	RiskOwner  types.ActorID

	ApprovedBy     types.ActorID
	ApprovedAt     *time.Time
	RejectedReason string

	AssessmentDate   time.Time
	LastReviewDate   time.Time
	ReviewPeriodDays int

	// MatrixVersion is the matrix config version in effect when the ratings
	// were captured. Derived values are never stored without it.
	MatrixVersion int

	// Revision is an optimistic concurrency counter. Every successful update
	// increments it; writers supplying a stale revision are rejected.
	Revision int64

	Hazards  []Hazard
	Barriers []Barrier

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRatings reports whether both initial and residual ratings are populated.
func (a *RiskAssessment) HasRatings() bool {
	return a.ProbabilityInitial > 0 && a.SeverityInitial > 0 &&
		a.ProbabilityResidual > 0 && a.SeverityResidual > 0
}

// Clone returns a deep copy of the assessment.
func (a *RiskAssessment) Clone() *RiskAssessment {
	copied := *a
	if a.ApprovedAt != nil {
		t := *a.ApprovedAt
		copied.ApprovedAt = &t
	}
	if a.Hazards != nil {
		copied.Hazards = make([]Hazard, len(a.Hazards))
		copy(copied.Hazards, a.Hazards)
	}
	if a.Barriers != nil {
		copied.Barriers = make([]Barrier, len(a.Barriers))
		copy(copied.Barriers, a.Barriers)
	}
	return &copied
}

// AssessmentSummary is a lightweight projection used in lists, matrix cells
// and export rows.
type AssessmentSummary struct {
	ID          int64                  `json:"id"`
	EventNumber string                 `json:"event_number"`
	Title       string                 `json:"title"`
	Location    string                 `json:"location"`
	Category    types.Category         `json:"category"`
	Status      types.AssessmentStatus `json:"status"`
}

// Summary returns the list/cell projection of the assessment.
func (a *RiskAssessment) Summary() AssessmentSummary {
	return AssessmentSummary{
		ID:          a.ID,
		EventNumber: a.EventNumber,
		Title:       a.Title,
		Location:    a.Location,
		Category:    a.Category,
		Status:      a.Status,
	}
}
