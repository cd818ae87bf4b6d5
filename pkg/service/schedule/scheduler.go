// Package schedule computes review-due dates for assessments. Like scoring,
// these are total functions over valid inputs; the next-review date is always
// recomputed from last-review date and period rather than stored on its own.
package schedule

import (
	"time"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultReviewPeriodDays applies when an assessment does not specify a
// review period.
const DefaultReviewPeriodDays = 365

// NormalizePeriod returns the review period, substituting the default for an
// unset (zero) value. Negative periods are not normalized; they fail in
// NextReview.
func NormalizePeriod(periodDays int) int {
	if periodDays == 0 {
		return DefaultReviewPeriodDays
	}
	return periodDays
}

// NextReview computes the next review date from the last review date and the
// review period in days.
func NextReview(lastReview time.Time, periodDays int) (time.Time, error) {
	periodDays = NormalizePeriod(periodDays)
	if periodDays < 0 {
		return time.Time{}, goerr.Wrap(model.ErrInvalidPeriod, "cannot schedule review",
			goerr.V("period_days", periodDays))
	}
	return lastReview.AddDate(0, 0, periodDays), nil
}

// IsOverdue reports whether a review is overdue at the given instant. An
// exactly-due review is not yet overdue; the comparison is strict.
func IsOverdue(nextReview, now time.Time) bool {
	return now.After(nextReview)
}
