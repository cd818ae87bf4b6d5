package interfaces

import (
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
)

// SortField enumerates the fields an assessment list can be sorted by.
type SortField string

const (
	SortByID             SortField = "id"
	SortByEventNumber    SortField = "event_number"
	SortByTitle          SortField = "title"
	SortByLocation       SortField = "location"
	SortByCategory       SortField = "category"
	SortByStatus         SortField = "status"
	SortByAssessmentDate SortField = "assessment_date"
	SortByNextReview     SortField = "next_review_date"
)

// IsValid checks if the sort field is valid
func (f SortField) IsValid() bool {
	switch f {
	case SortByID, SortByEventNumber, SortByTitle, SortByLocation,
		SortByCategory, SortByStatus, SortByAssessmentDate, SortByNextReview:
		return true
	default:
		return false
	}
}

// ListOptions carries explicit filter, sort and pagination parameters for
// List calls. There is no ambient filter state; every call supplies its own.
type ListOptions struct {
	// Exact-match filters; zero value means no filtering on that field.
	Status   types.AssessmentStatus
	Category types.Category
	Location string

	// Search is matched as a case-insensitive substring against event
	// number, location and process area (OR across the three), ANDed with
	// the exact-match filters.
	Search string

	// SortBy defaults to SortByID. Ties are always broken by ID ascending
	// so pagination stays stable.
	SortBy     SortField
	Descending bool

	// Offset/Limit paginate the filtered result. Limit == 0 means no limit.
	Offset int
	Limit  int
}
