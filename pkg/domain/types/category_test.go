package types_test

import (
	"testing"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.Category
		wantErr bool
	}{
		{
			name:    "valid safety",
			input:   "SAFETY",
			want:    types.CategorySafety,
			wantErr: false,
		},
		{
			name:    "valid environmental",
			input:   "ENVIRONMENTAL",
			want:    types.CategoryEnvironmental,
			wantErr: false,
		},
		{
			name:    "invalid category",
			input:   "FINANCIAL",
			want:    "",
			wantErr: true,
		},
		{
			name:    "empty category",
			input:   "",
			want:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseCategory(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
				gt.V(t, got).Equal(tt.want)
			}
		})
	}
}

func TestAllCategories(t *testing.T) {
	categories := types.AllCategories()
	gt.A(t, categories).Length(4)

	for _, c := range categories {
		gt.B(t, c.IsValid()).True()
	}
}

func TestParseBand(t *testing.T) {
	got, err := types.ParseBand("MEDIUM")
	gt.NoError(t, err)
	gt.V(t, got).Equal(types.BandMedium)

	_, err = types.ParseBand("EXTREME")
	gt.Error(t, err)
}
