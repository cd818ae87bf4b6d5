package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/usecase"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/utils/errutil"
)

// scoreResponse is one derived probability/severity score.
type scoreResponse struct {
	Level int    `json:"level"`
	Band  string `json:"band"`
	Color string `json:"color"`
}

// assessmentResponse serializes an assessment together with its derived
// values. Scores are omitted entirely for unrated drafts.
type assessmentResponse struct {
	ID           int64  `json:"id"`
	EventNumber  string `json:"event_number"`
	Title        string `json:"title"`
	Location     string `json:"location"`
	ProcessArea  string `json:"process_area"`
	Category     string `json:"category"`
	ActivityType string `json:"activity_type"`

	ProbabilityInitial  int `json:"probability_initial"`
	SeverityInitial     int `json:"severity_initial"`
	ProbabilityResidual int `json:"probability_residual"`
	SeverityResidual    int `json:"severity_residual"`

	Status         string     `json:"status"`
	AssessedBy     string     `json:"assessed_by"`
	RiskOwner      string     `json:"risk_owner"`
	ApprovedBy     string     `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	RejectedReason string     `json:"rejected_reason,omitempty"`

	AssessmentDate   time.Time  `json:"assessment_date"`
	LastReviewDate   *time.Time `json:"last_review_date,omitempty"`
	ReviewPeriodDays int        `json:"review_period_days"`
	NextReviewDate   *time.Time `json:"next_review_date,omitempty"`
	Overdue          bool       `json:"overdue"`

	InitialScore   *scoreResponse `json:"initial_score,omitempty"`
	ResidualScore  *scoreResponse `json:"residual_score,omitempty"`
	RiskAcceptable bool           `json:"risk_acceptable"`

	MatrixVersion int   `json:"matrix_version"`
	Revision      int64 `json:"revision"`

	Hazards  []model.Hazard  `json:"hazards,omitempty"`
	Barriers []model.Barrier `json:"barriers,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAssessmentResponse(v *usecase.AssessmentView) *assessmentResponse {
	a := v.Assessment
	resp := &assessmentResponse{
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
		ReviewPeriodDays:    a.ReviewPeriodDays,
		Overdue:             v.Overdue,
		RiskAcceptable:      v.Score.RiskAcceptable,
		MatrixVersion:       a.MatrixVersion,
		Revision:            a.Revision,
		Hazards:             a.Hazards,
		Barriers:            a.Barriers,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}

	if !a.LastReviewDate.IsZero() {
		lastReview := a.LastReviewDate
		resp.LastReviewDate = &lastReview
	}
	if !v.NextReview.IsZero() {
		next := v.NextReview
		resp.NextReviewDate = &next
	}
	if a.HasRatings() {
		resp.InitialScore = &scoreResponse{
			Level: v.Score.Initial.Level,
			Band:  v.Score.Initial.Band.String(),
			Color: v.Score.Initial.Color,
		}
		resp.ResidualScore = &scoreResponse{
			Level: v.Score.Residual.Level,
			Band:  v.Score.Residual.Band.String(),
			Color: v.Score.Residual.Color,
		}
	}

	return resp
}

// assessmentRequest carries the writable assessment fields for create and
// update calls. Revision is required on update only.
type assessmentRequest struct {
	EventNumber  string `json:"event_number,omitempty"`
	Title        string `json:"title"`
	Location     string `json:"location"`
	ProcessArea  string `json:"process_area"`
	Category     string `json:"category"`
	ActivityType string `json:"activity_type"`

	ProbabilityInitial  int `json:"probability_initial"`
	SeverityInitial     int `json:"severity_initial"`
	ProbabilityResidual int `json:"probability_residual"`
	SeverityResidual    int `json:"severity_residual"`

	AssessedBy string `json:"assessed_by"`
	RiskOwner  string `json:"risk_owner"`

	AssessmentDate   *time.Time `json:"assessment_date,omitempty"`
	LastReviewDate   *time.Time `json:"last_review_date,omitempty"`
	ReviewPeriodDays int        `json:"review_period_days"`

	Hazards  []model.Hazard  `json:"hazards,omitempty"`
	Barriers []model.Barrier `json:"barriers,omitempty"`

	Revision int64 `json:"revision"`
}

func (req *assessmentRequest) toInput() usecase.CreateInput {
	in := usecase.CreateInput{
		EventNumber:         req.EventNumber,
		Title:               req.Title,
		Location:            req.Location,
		ProcessArea:         req.ProcessArea,
		Category:            types.Category(req.Category),
		ActivityType:        req.ActivityType,
		ProbabilityInitial:  req.ProbabilityInitial,
		SeverityInitial:     req.SeverityInitial,
		ProbabilityResidual: req.ProbabilityResidual,
		SeverityResidual:    req.SeverityResidual,
		AssessedBy:          types.ActorID(req.AssessedBy),
		RiskOwner:           types.ActorID(req.RiskOwner),
		ReviewPeriodDays:    req.ReviewPeriodDays,
		Hazards:             req.Hazards,
		Barriers:            req.Barriers,
	}
	if req.AssessmentDate != nil {
		in.AssessmentDate = *req.AssessmentDate
	}
	if req.LastReviewDate != nil {
		in.LastReviewDate = *req.LastReviewDate
	}
	return in
}

// transitionRequest is the body of all lifecycle transition endpoints. The
// caller echoes back the revision it last read.
type transitionRequest struct {
	Revision   int64      `json:"revision"`
	Reason     string     `json:"reason,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}

func assessmentID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "assessmentID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.New("invalid assessment ID", goerr.T(model.TagValidation), goerr.V("id", raw))
	}
	return id, nil
}

func readJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return goerr.Wrap(err, "invalid JSON body", goerr.T(model.TagValidation))
	}
	return nil
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}
