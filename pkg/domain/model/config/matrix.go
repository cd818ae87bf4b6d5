package config

import (
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// LevelDefinition describes one probability or severity level of the matrix.
// Name and Description are display only and have no behavioral effect.
type LevelDefinition struct {
	Level       int
	Name        string
	Description string
}

// MatrixConfig is the versioned configuration governing risk scoring: the
// N x N matrix dimension, per-level definitions and the two band thresholds.
// Instances are treated as immutable once loaded; a change is a new Version.
type MatrixConfig struct {
	Version int
	Size    int

	Probability []LevelDefinition
	Severity    []LevelDefinition

	LowThreshold    int
	MediumThreshold int

	LowColor    string
	MediumColor string
	HighColor   string
}

// Validate checks the structural invariants of the matrix configuration.
func (c *MatrixConfig) Validate() error {
	if c.Size < 2 {
		return goerr.New("matrix size must be at least 2", goerr.V("size", c.Size))
	}
	if c.LowThreshold <= 0 {
		return goerr.New("low threshold must be positive", goerr.V("low", c.LowThreshold))
	}
	if c.MediumThreshold <= c.LowThreshold {
		return goerr.New("medium threshold must exceed low threshold",
			goerr.V("low", c.LowThreshold), goerr.V("medium", c.MediumThreshold))
	}
	if c.MediumThreshold >= c.Size*c.Size {
		return goerr.New("medium threshold must be below the maximum risk level",
			goerr.V("medium", c.MediumThreshold), goerr.V("max", c.Size*c.Size))
	}

	if err := validateLevels("probability", c.Probability, c.Size); err != nil {
		return err
	}
	if err := validateLevels("severity", c.Severity, c.Size); err != nil {
		return err
	}

	return nil
}

func validateLevels(kind string, defs []LevelDefinition, size int) error {
	if len(defs) == 0 {
		// Definitions are display-only; an empty set is permitted.
		return nil
	}
	seen := make(map[int]bool, len(defs))
	for _, d := range defs {
		if d.Level < 1 || d.Level > size {
			return goerr.New("level definition out of matrix range",
				goerr.V("kind", kind), goerr.V("level", d.Level), goerr.V("size", size))
		}
		if seen[d.Level] {
			return goerr.New("duplicate level definition",
				goerr.V("kind", kind), goerr.V("level", d.Level))
		}
		seen[d.Level] = true
	}
	return nil
}

// InRange reports whether a rating lies within [1, Size].
func (c *MatrixConfig) InRange(rating int) bool {
	return rating >= 1 && rating <= c.Size
}

// BandOf classifies a risk level into a band. Boundary values belong to the
// lower band: level == LowThreshold is LOW, level == MediumThreshold is MEDIUM.
func (c *MatrixConfig) BandOf(level int) types.Band {
	switch {
	case level <= c.LowThreshold:
		return types.BandLow
	case level <= c.MediumThreshold:
		return types.BandMedium
	default:
		return types.BandHigh
	}
}

// ColorOf returns the display color configured for a band.
func (c *MatrixConfig) ColorOf(band types.Band) string {
	switch band {
	case types.BandLow:
		return c.LowColor
	case types.BandMedium:
		return c.MediumColor
	default:
		return c.HighColor
	}
}

// DefaultMatrixConfig returns the standard 5x5 matrix used when no
// configuration file is supplied.
func DefaultMatrixConfig() *MatrixConfig {
	return &MatrixConfig{
		Version:         1,
		Size:            5,
		LowThreshold:    5,
		MediumThreshold: 12,
		LowColor:        "#22c55e",
		MediumColor:     "#eab308",
		HighColor:       "#ef4444",
		Probability: []LevelDefinition{
			{Level: 1, Name: "Rare"},
			{Level: 2, Name: "Unlikely"},
			{Level: 3, Name: "Possible"},
			{Level: 4, Name: "Likely"},
			{Level: 5, Name: "Almost Certain"},
		},
		Severity: []LevelDefinition{
			{Level: 1, Name: "Negligible"},
			{Level: 2, Name: "Minor"},
			{Level: 3, Name: "Moderate"},
			{Level: 4, Name: "Major"},
			{Level: 5, Name: "Catastrophic"},
		},
	}
}
