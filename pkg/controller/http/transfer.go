package http

import (
	"net/http"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/utils/errutil"
)

func (s *Server) importAssessments(w http.ResponseWriter, r *http.Request) {
	report, err := s.uc.Import.Import(r.Context(), r.Body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	type rowErrorResponse struct {
		Row   int    `json:"row"`
		Error string `json:"error"`
	}
	resp := struct {
		BatchID   string             `json:"batch_id"`
		Succeeded int                `json:"succeeded"`
		Failed    []rowErrorResponse `json:"failed"`
	}{
		BatchID:   report.BatchID,
		Succeeded: report.Succeeded,
		Failed:    make([]rowErrorResponse, len(report.Failed)),
	}
	for i, f := range report.Failed {
		resp.Failed[i] = rowErrorResponse{Row: f.Row, Error: f.Error}
	}

	// Row failures are part of the report, not an HTTP error. The batch as a
	// whole succeeded even when every row was rejected.
	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) exportAssessments(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="assessments.csv"`)

	if err := s.uc.Import.Export(r.Context(), w, opts); err != nil {
		// Headers may already be committed; log instead of rewriting status.
		errutil.Handle(r.Context(), err, "failed to export assessments")
	}
}
