// Package query implements the client-side filter/sort/paginate contract of
// AssessmentRepository.List, shared by the memory and firestore backends.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/interfaces"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/service/schedule"
)

// Apply filters, sorts and paginates the given assessments in place of a
// database query. total is the match count before pagination.
func Apply(items []*model.RiskAssessment, opts interfaces.ListOptions) (page []*model.RiskAssessment, total int) {
	matched := make([]*model.RiskAssessment, 0, len(items))
	for _, a := range items {
		if Match(a, opts) {
			matched = append(matched, a)
		}
	}

	Sort(matched, opts)
	return Paginate(matched, opts), len(matched)
}

// Match reports whether an assessment satisfies the filter part of opts.
// Search is OR across event number, location and process area, ANDed with
// the exact-match filters.
func Match(a *model.RiskAssessment, opts interfaces.ListOptions) bool {
	if opts.Status != "" && a.Status != opts.Status {
		return false
	}
	if opts.Category != "" && a.Category != opts.Category {
		return false
	}
	if opts.Location != "" && a.Location != opts.Location {
		return false
	}
	if opts.Search != "" {
		needle := strings.ToLower(opts.Search)
		if !strings.Contains(strings.ToLower(a.EventNumber), needle) &&
			!strings.Contains(strings.ToLower(a.Location), needle) &&
			!strings.Contains(strings.ToLower(a.ProcessArea), needle) {
			return false
		}
	}
	return true
}

// Sort orders items by the requested field. Ties are always broken by ID
// ascending so pagination stays stable across calls.
func Sort(items []*model.RiskAssessment, opts interfaces.ListOptions) {
	field := opts.SortBy
	if field == "" {
		field = interfaces.SortByID
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if opts.Descending {
			a, b = b, a
		}
		if cmp := compareBy(a, b, field); cmp != 0 {
			return cmp < 0
		}
		return items[i].ID < items[j].ID
	})
}

func compareBy(a, b *model.RiskAssessment, field interfaces.SortField) int {
	switch field {
	case interfaces.SortByEventNumber:
		return strings.Compare(a.EventNumber, b.EventNumber)
	case interfaces.SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case interfaces.SortByLocation:
		return strings.Compare(a.Location, b.Location)
	case interfaces.SortByCategory:
		return strings.Compare(a.Category.String(), b.Category.String())
	case interfaces.SortByStatus:
		return strings.Compare(a.Status.String(), b.Status.String())
	case interfaces.SortByAssessmentDate:
		return a.AssessmentDate.Compare(b.AssessmentDate)
	case interfaces.SortByNextReview:
		return nextReviewOf(a).Compare(nextReviewOf(b))
	default:
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	}
}

func nextReviewOf(a *model.RiskAssessment) time.Time {
	return a.LastReviewDate.AddDate(0, 0, schedule.NormalizePeriod(a.ReviewPeriodDays))
}

// Paginate slices items by offset/limit. A negative offset is treated as 0,
// Limit == 0 means no limit.
func Paginate(items []*model.RiskAssessment, opts interfaces.ListOptions) []*model.RiskAssessment {
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}
