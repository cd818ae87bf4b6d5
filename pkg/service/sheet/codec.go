// Package sheet encodes and decodes assessment rows as CSV with a stable
// header. Columns map 1:1 to RiskAssessment fields; decoding is permissive
// (rows are validated individually by the importer, not here) so one
// malformed cell never fails a whole batch.
package sheet

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const dateLayout = "2006-01-02"

var header = []string{
	"event_number",
	"title",
	"location",
	"process_area",
	"category",
	"activity_type",
	"probability_initial",
	"severity_initial",
	"probability_residual",
	"severity_residual",
	"assessed_by",
	"risk_owner",
	"assessment_date",
	"last_review_date",
	"review_period_days",
}

// Row is one decoded CSV row. Numeric fields keep their parsed value even
// when out of the matrix range; range validation is the importer's concern.
// Err records a parse failure scoped to this row.
type Row struct {
	Number     int // 1-based data row number
	Assessment model.RiskAssessment
	Err        error
}

// Encode writes the given assessments as CSV.
func Encode(w io.Writer, assessments []*model.RiskAssessment) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return goerr.Wrap(err, "failed to write CSV header")
	}

	for _, a := range assessments {
		record := []string{
			a.EventNumber,
			a.Title,
			a.Location,
			a.ProcessArea,
			a.Category.String(),
			a.ActivityType,
			strconv.Itoa(a.ProbabilityInitial),
			strconv.Itoa(a.SeverityInitial),
			strconv.Itoa(a.ProbabilityResidual),
			strconv.Itoa(a.SeverityResidual),
			a.AssessedBy.String(),
			a.RiskOwner.String(),
			formatDate(a.AssessmentDate),
			formatDate(a.LastReviewDate),
			strconv.Itoa(a.ReviewPeriodDays),
		}
		if err := cw.Write(record); err != nil {
			return goerr.Wrap(err, "failed to write CSV record", goerr.V(model.EventNumberKey, a.EventNumber))
		}
	}

	cw.Flush()
	return cw.Error()
}

// Decode reads CSV data into rows. A header line is required. Per-row parse
// failures are recorded on the row, not returned; only unreadable input or a
// bad header fails the whole decode.
func Decode(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read CSV header")
	}
	if len(head) < len(header) {
		return nil, goerr.New("unexpected CSV header", goerr.V("columns", len(head)))
	}

	var rows []Row
	for num := 1; ; num++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rows = append(rows, Row{Number: num, Err: goerr.Wrap(err, "unreadable CSV row")})
			continue
		}
		rows = append(rows, decodeRecord(num, record))
	}

	return rows, nil
}

func decodeRecord(num int, record []string) Row {
	row := Row{Number: num}

	if len(record) < len(header) {
		row.Err = goerr.New("row has too few columns", goerr.V("columns", len(record)))
		return row
	}

	a := &row.Assessment
	a.EventNumber = record[0]
	a.Title = record[1]
	a.Location = record[2]
	a.ProcessArea = record[3]
	a.Category = types.Category(record[4])
	a.ActivityType = record[5]
	a.AssessedBy = types.ActorID(record[10])
	a.RiskOwner = types.ActorID(record[11])

	ints := []struct {
		value string
		dst   *int
		field string
	}{
		{record[6], &a.ProbabilityInitial, "probability_initial"},
		{record[7], &a.SeverityInitial, "severity_initial"},
		{record[8], &a.ProbabilityResidual, "probability_residual"},
		{record[9], &a.SeverityResidual, "severity_residual"},
		{record[14], &a.ReviewPeriodDays, "review_period_days"},
	}
	for _, f := range ints {
		if f.value == "" {
			continue
		}
		v, err := strconv.Atoi(f.value)
		if err != nil {
			row.Err = goerr.New("invalid integer field", goerr.V("field", f.field), goerr.V("value", f.value))
			return row
		}
		*f.dst = v
	}

	dates := []struct {
		value string
		dst   *time.Time
		field string
	}{
		{record[12], &a.AssessmentDate, "assessment_date"},
		{record[13], &a.LastReviewDate, "last_review_date"},
	}
	for _, f := range dates {
		if f.value == "" {
			continue
		}
		v, err := time.Parse(dateLayout, f.value)
		if err != nil {
			row.Err = goerr.New("invalid date field", goerr.V("field", f.field), goerr.V("value", f.value))
			return row
		}
		*f.dst = v
	}

	return row
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
