package types

import "fmt"

// Band represents the LOW/MEDIUM/HIGH classification of a risk level
type Band string

const (
	BandLow    Band = "LOW"
	BandMedium Band = "MEDIUM"
	BandHigh   Band = "HIGH"
)

// AllBands returns all valid bands
func AllBands() []Band {
	return []Band{
		BandLow,
		BandMedium,
		BandHigh,
	}
}

// IsValid checks if the band is valid
func (b Band) IsValid() bool {
	switch b {
	case BandLow, BandMedium, BandHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the band
func (b Band) String() string {
	return string(b)
}

// ParseBand parses a string into a Band
func ParseBand(s string) (Band, error) {
	band := Band(s)
	if !band.IsValid() {
		return "", fmt.Errorf("invalid band: %s", s)
	}
	return band, nil
}
