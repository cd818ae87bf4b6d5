package types

import "fmt"

// AssessmentStatus represents the lifecycle status of a risk assessment
type AssessmentStatus string

const (
	StatusDraft       AssessmentStatus = "DRAFT"
	StatusUnderReview AssessmentStatus = "UNDER_REVIEW"
	StatusApproved    AssessmentStatus = "APPROVED"
	StatusActive      AssessmentStatus = "ACTIVE"
	StatusRejected    AssessmentStatus = "REJECTED"
	StatusClosed      AssessmentStatus = "CLOSED"
)

// AllAssessmentStatuses returns all valid assessment statuses
func AllAssessmentStatuses() []AssessmentStatus {
	return []AssessmentStatus{
		StatusDraft,
		StatusUnderReview,
		StatusApproved,
		StatusActive,
		StatusRejected,
		StatusClosed,
	}
}

// IsValid checks if the assessment status is valid
func (s AssessmentStatus) IsValid() bool {
	switch s {
	case StatusDraft,
		StatusUnderReview,
		StatusApproved,
		StatusActive,
		StatusRejected,
		StatusClosed:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as StatusDraft.
func (s AssessmentStatus) Normalize() AssessmentStatus {
	if s == "" {
		return StatusDraft
	}
	return s
}

// legal lifecycle edges; everything else is rejected
var statusTransitions = map[AssessmentStatus][]AssessmentStatus{
	StatusDraft:       {StatusUnderReview},
	StatusUnderReview: {StatusApproved, StatusRejected},
	StatusApproved:    {StatusActive},
	StatusActive:      {StatusClosed},
	StatusRejected:    {},
	StatusClosed:      {},
}

// CanTransitionTo reports whether the edge from s to next is a legal
// lifecycle transition.
func (s AssessmentStatus) CanTransitionTo(next AssessmentStatus) bool {
	for _, allowed := range statusTransitions[s.Normalize()] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s AssessmentStatus) IsTerminal() bool {
	return len(statusTransitions[s.Normalize()]) == 0
}

// Deletable reports whether an assessment in this status may be deleted.
// ACTIVE and UNDER_REVIEW assessments are operationally in use and must be
// closed or rejected first.
func (s AssessmentStatus) Deletable() bool {
	switch s.Normalize() {
	case StatusDraft, StatusRejected, StatusClosed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the assessment status
func (s AssessmentStatus) String() string {
	return string(s)
}

// ParseAssessmentStatus parses a string into an AssessmentStatus
func ParseAssessmentStatus(s string) (AssessmentStatus, error) {
	status := AssessmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid assessment status: %s", s)
	}
	return status, nil
}
