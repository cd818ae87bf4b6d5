package sheet_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/service/sheet"
	"github.com/m-mizutani/gt"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	assessments := []*model.RiskAssessment{
		{
			EventNumber:         "RA-2026-0001",
			Title:               "Forklift operation in warehouse B",
			Location:            "Warehouse B",
			ProcessArea:         "Logistics",
			Category:            types.CategorySafety,
			ActivityType:        "Routine",
			ProbabilityInitial:  4,
			SeverityInitial:     4,
			ProbabilityResidual: 2,
			SeverityResidual:    2,
			AssessedBy:          types.ActorID("U100"),
			RiskOwner:           types.ActorID("U200"),
			AssessmentDate:      time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			LastReviewDate:      time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			ReviewPeriodDays:    180,
		},
		{
			EventNumber:         "RA-2026-0002",
			Title:               "Solvent storage, field with, comma",
			Location:            "Plant 1",
			ProcessArea:         "Chemical Storage",
			Category:            types.CategoryEnvironmental,
			ActivityType:        "Non-routine",
			ProbabilityInitial:  3,
			SeverityInitial:     5,
			ProbabilityResidual: 1,
			SeverityResidual:    5,
			AssessedBy:          types.ActorID("U101"),
			RiskOwner:           types.ActorID("U201"),
			AssessmentDate:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			LastReviewDate:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			ReviewPeriodDays:    365,
		},
	}

	var buf bytes.Buffer
	gt.NoError(t, sheet.Encode(&buf, assessments)).Required()

	rows, err := sheet.Decode(&buf)
	gt.NoError(t, err).Required()
	gt.A(t, rows).Length(2)

	for i, row := range rows {
		gt.NoError(t, row.Err).Required()
		want := assessments[i]
		got := row.Assessment
		gt.S(t, got.EventNumber).Equal(want.EventNumber)
		gt.S(t, got.Title).Equal(want.Title)
		gt.S(t, got.Location).Equal(want.Location)
		gt.S(t, got.ProcessArea).Equal(want.ProcessArea)
		gt.V(t, got.Category).Equal(want.Category)
		gt.N(t, got.ProbabilityInitial).Equal(want.ProbabilityInitial)
		gt.N(t, got.SeverityResidual).Equal(want.SeverityResidual)
		gt.V(t, got.AssessedBy).Equal(want.AssessedBy)
		gt.V(t, got.AssessmentDate).Equal(want.AssessmentDate)
		gt.N(t, got.ReviewPeriodDays).Equal(want.ReviewPeriodDays)
	}
}

func TestDecode_RowNumbersAreOneBased(t *testing.T) {
	csv := strings.Join([]string{
		"event_number,title,location,process_area,category,activity_type,probability_initial,severity_initial,probability_residual,severity_residual,assessed_by,risk_owner,assessment_date,last_review_date,review_period_days",
		"RA-1,A,Loc,Area,SAFETY,Routine,2,2,1,1,U1,U2,2026-01-01,2026-01-01,365",
		"RA-2,B,Loc,Area,SAFETY,Routine,2,2,1,1,U1,U2,2026-01-01,2026-01-01,365",
	}, "\n")

	rows, err := sheet.Decode(strings.NewReader(csv))
	gt.NoError(t, err).Required()
	gt.A(t, rows).Length(2)
	gt.N(t, rows[0].Number).Equal(1)
	gt.N(t, rows[1].Number).Equal(2)
}

func TestDecode_BadCellScopedToRow(t *testing.T) {
	csv := strings.Join([]string{
		"event_number,title,location,process_area,category,activity_type,probability_initial,severity_initial,probability_residual,severity_residual,assessed_by,risk_owner,assessment_date,last_review_date,review_period_days",
		"RA-1,A,Loc,Area,SAFETY,Routine,2,2,1,1,U1,U2,2026-01-01,2026-01-01,365",
		"RA-2,B,Loc,Area,SAFETY,Routine,not-a-number,2,1,1,U1,U2,2026-01-01,2026-01-01,365",
		"RA-3,C,Loc,Area,SAFETY,Routine,2,2,1,1,U1,U2,2026-01-01,2026-01-01,365",
	}, "\n")

	rows, err := sheet.Decode(strings.NewReader(csv))
	gt.NoError(t, err).Required()
	gt.A(t, rows).Length(3)
	gt.NoError(t, rows[0].Err)
	gt.Error(t, rows[1].Err)
	gt.NoError(t, rows[2].Err)
}

func TestDecode_MissingHeader(t *testing.T) {
	_, err := sheet.Decode(strings.NewReader("just,three,columns\n"))
	gt.Error(t, err)
}
