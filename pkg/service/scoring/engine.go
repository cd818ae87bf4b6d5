// Package scoring converts probability/severity ratings into risk levels and
// bands using a matrix configuration. All functions are pure: derived values
// are recomputed on every call and never cached on the record, so a config
// change can never leave stale bands behind.
package scoring

import (
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model/config"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Result is the derived score for a single probability/severity pair.
type Result struct {
	Level int
	Band  types.Band
	Color string
}

// Score computes the risk level and band for one rating pair.
// Both ratings must lie in [1, cfg.Size].
func Score(probability, severity int, cfg *config.MatrixConfig) (Result, error) {
	if !cfg.InRange(probability) {
		return Result{}, goerr.Wrap(model.ErrRatingOutOfRange, "invalid probability",
			goerr.V("probability", probability), goerr.V("size", cfg.Size))
	}
	if !cfg.InRange(severity) {
		return Result{}, goerr.Wrap(model.ErrRatingOutOfRange, "invalid severity",
			goerr.V("severity", severity), goerr.V("size", cfg.Size))
	}

	level := probability * severity
	band := cfg.BandOf(level)

	return Result{
		Level: level,
		Band:  band,
		Color: cfg.ColorOf(band),
	}, nil
}

// View is the full derived projection of an assessment's ratings.
type View struct {
	Initial  Result
	Residual Result

	// RiskAcceptable is true iff the residual band is LOW.
	RiskAcceptable bool
}

// Assess computes the derived projection for both rating pairs of an
// assessment against the given config.
func Assess(a *model.RiskAssessment, cfg *config.MatrixConfig) (View, error) {
	initial, err := Score(a.ProbabilityInitial, a.SeverityInitial, cfg)
	if err != nil {
		return View{}, goerr.Wrap(err, "invalid initial ratings", goerr.V(model.AssessmentIDKey, a.ID))
	}

	residual, err := Score(a.ProbabilityResidual, a.SeverityResidual, cfg)
	if err != nil {
		return View{}, goerr.Wrap(err, "invalid residual ratings", goerr.V(model.AssessmentIDKey, a.ID))
	}

	return View{
		Initial:        initial,
		Residual:       residual,
		RiskAcceptable: residual.Band == types.BandLow,
	}, nil
}
