package schedule_test

import (
	"testing"
	"time"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/service/schedule"
	"github.com/m-mizutani/gt"
)

func TestNextReview(t *testing.T) {
	last := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("adds period days", func(t *testing.T) {
		next, err := schedule.NextReview(last, 30)
		gt.NoError(t, err).Required()
		gt.V(t, next).Equal(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	})

	t.Run("zero period uses default", func(t *testing.T) {
		next, err := schedule.NextReview(last, 0)
		gt.NoError(t, err).Required()
		gt.V(t, next).Equal(last.AddDate(0, 0, schedule.DefaultReviewPeriodDays))
	})

	t.Run("negative period fails", func(t *testing.T) {
		_, err := schedule.NextReview(last, -7)
		gt.Error(t, err).Is(model.ErrInvalidPeriod)
	})

	t.Run("next review never precedes last review", func(t *testing.T) {
		next, err := schedule.NextReview(last, 1)
		gt.NoError(t, err).Required()
		gt.B(t, next.Before(last)).False()
	})
}

func TestIsOverdue(t *testing.T) {
	last := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	next, err := schedule.NextReview(last, 30)
	gt.NoError(t, err).Required()

	t.Run("before due date", func(t *testing.T) {
		gt.B(t, schedule.IsOverdue(next, last.AddDate(0, 0, 29))).False()
	})

	t.Run("exactly due is not overdue", func(t *testing.T) {
		gt.B(t, schedule.IsOverdue(next, last.AddDate(0, 0, 30))).False()
	})

	t.Run("one day past due", func(t *testing.T) {
		gt.B(t, schedule.IsOverdue(next, last.AddDate(0, 0, 31))).True()
	})

	t.Run("one nanosecond past due", func(t *testing.T) {
		gt.B(t, schedule.IsOverdue(next, next.Add(time.Nanosecond))).True()
	})
}
