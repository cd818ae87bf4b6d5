package http

import (
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/interfaces"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/utils/errutil"
)

func (s *Server) getMatrix(w http.ResponseWriter, r *http.Request) {
	cfg := s.uc.Query.MatrixConfig()

	type levelResponse struct {
		Level       int    `json:"level"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}
	type matrixResponse struct {
		Version         int             `json:"version"`
		Size            int             `json:"size"`
		Probability     []levelResponse `json:"probability"`
		Severity        []levelResponse `json:"severity"`
		LowThreshold    int             `json:"low_threshold"`
		MediumThreshold int             `json:"medium_threshold"`
		LowColor        string          `json:"low_color"`
		MediumColor     string          `json:"medium_color"`
		HighColor       string          `json:"high_color"`
	}

	resp := matrixResponse{
		Version:         cfg.Version,
		Size:            cfg.Size,
		LowThreshold:    cfg.LowThreshold,
		MediumThreshold: cfg.MediumThreshold,
		LowColor:        cfg.LowColor,
		MediumColor:     cfg.MediumColor,
		HighColor:       cfg.HighColor,
	}
	for _, d := range cfg.Probability {
		resp.Probability = append(resp.Probability, levelResponse{Level: d.Level, Name: d.Name, Description: d.Description})
	}
	for _, d := range cfg.Severity {
		resp.Severity = append(resp.Severity, levelResponse{Level: d.Level, Name: d.Name, Description: d.Description})
	}

	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) getMatrixCells(w http.ResponseWriter, r *http.Request) {
	cells, err := s.uc.Query.AggregateByCell(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	type cellResponse struct {
		Probability int                       `json:"probability"`
		Severity    int                       `json:"severity"`
		Assessments []model.AssessmentSummary `json:"assessments"`
	}

	resp := make([]cellResponse, 0, len(cells))
	for cell, summaries := range cells {
		resp = append(resp, cellResponse{
			Probability: cell.Probability,
			Severity:    cell.Severity,
			Assessments: summaries,
		})
	}

	respondJSON(w, r, http.StatusOK, map[string]any{"cells": resp})
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.uc.Query.Dashboard(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"total":          d.Total,
		"active":         d.Active,
		"overdue_review": d.OverdueReview,
		"by_band":        d.ByBand,
		"by_category":    d.ByCategory,
	})
}

func (s *Server) listAssessments(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	views, total, err := s.uc.Query.ListAssessments(r.Context(), opts)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	items := make([]*assessmentResponse, len(views))
	for i, v := range views {
		items[i] = toAssessmentResponse(v)
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"assessments": items,
		"total":       total,
	})
}

// listOptions translates list query parameters. Unknown values fail fast
// rather than silently matching nothing.
func listOptions(r *http.Request) (interfaces.ListOptions, error) {
	q := r.URL.Query()
	opts := interfaces.ListOptions{
		Location: q.Get("location"),
		Search:   q.Get("q"),
	}

	if raw := q.Get("status"); raw != "" {
		st, err := types.ParseAssessmentStatus(raw)
		if err != nil {
			return opts, goerr.Wrap(err, "unknown status", goerr.T(model.TagValidation))
		}
		opts.Status = st
	}
	if raw := q.Get("category"); raw != "" {
		c := types.Category(raw)
		if !c.IsValid() {
			return opts, goerr.New("unknown category", goerr.T(model.TagValidation), goerr.V("category", raw))
		}
		opts.Category = c
	}
	if raw := q.Get("sort"); raw != "" {
		opts.SortBy = interfaces.SortField(raw)
		if !opts.SortBy.IsValid() {
			return opts, goerr.New("unknown sort field", goerr.T(model.TagValidation), goerr.V("sort", raw))
		}
	}
	opts.Descending = q.Get("order") == "desc"

	var err error
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		return opts, err
	}
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		return opts, err
	}

	return opts, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, goerr.New("invalid numeric parameter", goerr.T(model.TagValidation), goerr.V("value", raw))
	}
	return v, nil
}
