package types_test

import (
	"testing"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestAssessmentStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status types.AssessmentStatus
		want   bool
	}{
		{
			name:   "valid draft",
			status: types.StatusDraft,
			want:   true,
		},
		{
			name:   "valid under review",
			status: types.StatusUnderReview,
			want:   true,
		},
		{
			name:   "valid closed",
			status: types.StatusClosed,
			want:   true,
		},
		{
			name:   "invalid status",
			status: types.AssessmentStatus("invalid"),
			want:   false,
		},
		{
			name:   "empty status",
			status: types.AssessmentStatus(""),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.status.IsValid()).True()
			} else {
				gt.B(t, tt.status.IsValid()).False()
			}
		})
	}
}

func TestAssessmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from types.AssessmentStatus
		to   types.AssessmentStatus
		want bool
	}{
		{"draft to under review", types.StatusDraft, types.StatusUnderReview, true},
		{"under review to approved", types.StatusUnderReview, types.StatusApproved, true},
		{"under review to rejected", types.StatusUnderReview, types.StatusRejected, true},
		{"approved to active", types.StatusApproved, types.StatusActive, true},
		{"active to closed", types.StatusActive, types.StatusClosed, true},
		{"draft to approved skips review", types.StatusDraft, types.StatusApproved, false},
		{"approved to approved", types.StatusApproved, types.StatusApproved, false},
		{"rejected is terminal", types.StatusRejected, types.StatusDraft, false},
		{"closed is terminal", types.StatusClosed, types.StatusActive, false},
		{"active cannot go back to draft", types.StatusActive, types.StatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.V(t, tt.from.CanTransitionTo(tt.to)).Equal(tt.want)
		})
	}
}

func TestAssessmentStatus_Deletable(t *testing.T) {
	gt.B(t, types.StatusDraft.Deletable()).True()
	gt.B(t, types.StatusRejected.Deletable()).True()
	gt.B(t, types.StatusClosed.Deletable()).True()
	gt.B(t, types.StatusActive.Deletable()).False()
	gt.B(t, types.StatusUnderReview.Deletable()).False()
	gt.B(t, types.StatusApproved.Deletable()).False()
}

func TestAssessmentStatus_IsTerminal(t *testing.T) {
	gt.B(t, types.StatusRejected.IsTerminal()).True()
	gt.B(t, types.StatusClosed.IsTerminal()).True()
	gt.B(t, types.StatusDraft.IsTerminal()).False()
	gt.B(t, types.StatusApproved.IsTerminal()).False()
}

func TestParseAssessmentStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.AssessmentStatus
		wantErr bool
	}{
		{
			name:    "valid draft",
			input:   "DRAFT",
			want:    types.StatusDraft,
			wantErr: false,
		},
		{
			name:    "valid under review",
			input:   "UNDER_REVIEW",
			want:    types.StatusUnderReview,
			wantErr: false,
		},
		{
			name:    "lowercase is invalid",
			input:   "draft",
			want:    "",
			wantErr: true,
		},
		{
			name:    "empty status",
			input:   "",
			want:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseAssessmentStatus(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
				gt.V(t, got).Equal(tt.want)
			}
		})
	}
}

func TestAllAssessmentStatuses(t *testing.T) {
	statuses := types.AllAssessmentStatuses()
	gt.A(t, statuses).Length(6)

	for _, status := range statuses {
		gt.B(t, status.IsValid()).
			Describef("Status %s should be valid", status).
			True()
	}
}
