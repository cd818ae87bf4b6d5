package model

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures so callers (and the HTTP layer) can map them
// without string matching.
var (
	TagValidation = goerr.NewTag("validation")
	TagTransition = goerr.NewTag("state_transition")
	TagConflict   = goerr.NewTag("conflict")
	TagNotFound   = goerr.NewTag("not_found")
	TagForbidden  = goerr.NewTag("forbidden")
)

// Sentinel errors for the risk assessment domain
var (
	// Validation errors: caller corrects input and retries
	ErrRatingOutOfRange  = goerr.New("probability/severity rating out of range", goerr.T(TagValidation))
	ErrInvalidPeriod     = goerr.New("review period must be a positive number of days", goerr.T(TagValidation))
	ErrMissingRatings    = goerr.New("initial and residual ratings must be populated", goerr.T(TagValidation))
	ErrEmptyRejectReason = goerr.New("rejection reason is required", goerr.T(TagValidation))
	ErrDuplicateEventNo  = goerr.New("event number already in use", goerr.T(TagValidation))
	ErrMissingField      = goerr.New("required field is missing", goerr.T(TagValidation))

	// State transition errors: surfaced to caller verbatim
	ErrIllegalTransition = goerr.New("illegal lifecycle transition", goerr.T(TagTransition))
	ErrDeleteNotAllowed  = goerr.New("assessment cannot be deleted in its current status", goerr.T(TagTransition))

	// Concurrency: caller must refetch and retry
	ErrRevisionConflict = goerr.New("assessment was modified by another writer", goerr.T(TagConflict))

	ErrNotFound = goerr.New("not found", goerr.T(TagNotFound))

	// Authorization capability was not supplied or was denied externally
	ErrNotPermitted = goerr.New("actor does not hold the required capability", goerr.T(TagForbidden))
)

// Context keys for goerr values
const (
	AssessmentIDKey = "assessment_id"
	EventNumberKey  = "event_number"
	RevisionKey     = "revision"
	StatusKey       = "status"
	ActorKey        = "actor"
	RowKey          = "row"
)
