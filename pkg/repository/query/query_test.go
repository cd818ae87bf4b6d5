package query_test

import (
	"testing"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/interfaces"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/repository/query"
	"github.com/m-mizutani/gt"
)

func fixedAssessments(n int) []*model.RiskAssessment {
	items := make([]*model.RiskAssessment, n)
	for i := range items {
		items[i] = &model.RiskAssessment{ID: int64(i + 1)}
	}
	return items
}

func TestPaginate(t *testing.T) {
	items := fixedAssessments(4)

	t.Run("zero values return everything", func(t *testing.T) {
		gt.A(t, query.Paginate(items, interfaces.ListOptions{})).Length(4)
	})

	t.Run("offset and limit", func(t *testing.T) {
		page := query.Paginate(items, interfaces.ListOptions{Offset: 1, Limit: 2})
		gt.A(t, page).Length(2)
		gt.N(t, page[0].ID).Equal(2)
	})

	t.Run("offset beyond end", func(t *testing.T) {
		gt.A(t, query.Paginate(items, interfaces.ListOptions{Offset: 10})).Length(0)
	})

	t.Run("negative offset is treated as zero", func(t *testing.T) {
		page := query.Paginate(items, interfaces.ListOptions{Offset: -3, Limit: 2})
		gt.A(t, page).Length(2)
		gt.N(t, page[0].ID).Equal(1)
	})
}
