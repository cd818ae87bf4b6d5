package http

import (
	"net/http"
	"time"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/usecase"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/utils/errutil"
)

// actorHeader identifies the acting user on transition endpoints. Identity
// management is out of scope; the value is taken as-is from the gateway.
const actorHeader = "X-Actor"

func (s *Server) createAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if err := readJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	view, err := s.uc.Assessment.CreateAssessment(r.Context(), req.toInput())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, toAssessmentResponse(view))
}

func (s *Server) getAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := assessmentID(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	view, err := s.uc.Assessment.GetAssessment(r.Context(), id)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toAssessmentResponse(view))
}

func (s *Server) updateAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := assessmentID(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	var req assessmentRequest
	if err := readJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	view, err := s.uc.Assessment.UpdateAssessment(r.Context(), id, req.toInput(), req.Revision)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toAssessmentResponse(view))
}

func (s *Server) deleteAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := assessmentID(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	if err := s.uc.Assessment.DeleteAssessment(r.Context(), id); err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// transition wraps the shared request plumbing of the lifecycle endpoints.
func (s *Server) transition(w http.ResponseWriter, r *http.Request,
	apply func(id int64, req *transitionRequest) (*usecase.AssessmentView, error),
) {
	id, err := assessmentID(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	var req transitionRequest
	if err := readJSON(r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	view, err := apply(id, &req)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toAssessmentResponse(view))
}

func (s *Server) submitAssessment(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, func(id int64, req *transitionRequest) (*usecase.AssessmentView, error) {
		return s.uc.Assessment.SubmitForReview(r.Context(), id, req.Revision)
	})
}

func (s *Server) approveAssessment(w http.ResponseWriter, r *http.Request) {
	actor := types.ActorID(r.Header.Get(actorHeader))
	s.transition(w, r, func(id int64, req *transitionRequest) (*usecase.AssessmentView, error) {
		return s.uc.Assessment.Approve(r.Context(), id, actor, req.Revision)
	})
}

func (s *Server) rejectAssessment(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, func(id int64, req *transitionRequest) (*usecase.AssessmentView, error) {
		return s.uc.Assessment.Reject(r.Context(), id, req.Reason, req.Revision)
	})
}

func (s *Server) activateAssessment(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, func(id int64, req *transitionRequest) (*usecase.AssessmentView, error) {
		return s.uc.Assessment.Activate(r.Context(), id, req.Revision)
	})
}

func (s *Server) closeAssessment(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, func(id int64, req *transitionRequest) (*usecase.AssessmentView, error) {
		return s.uc.Assessment.Close(r.Context(), id, req.Revision)
	})
}

func (s *Server) reviewAssessment(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, func(id int64, req *transitionRequest) (*usecase.AssessmentView, error) {
		when := time.Now().UTC()
		if req.ReviewedAt != nil {
			when = *req.ReviewedAt
		}
		return s.uc.Assessment.MarkReviewed(r.Context(), id, when, req.Revision)
	})
}
