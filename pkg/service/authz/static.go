// Package authz provides capability-check implementations for the lifecycle
// controller. Real identity and role policy live in an external directory;
// these implementations only answer whether a capability is held.
package authz

import (
	"context"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/interfaces"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
)

// Static authorizes approval for a fixed roster of actor IDs, typically
// loaded from the configuration file.
type Static struct {
	approvers map[types.ActorID]bool
}

var _ interfaces.Authorizer = &Static{}

func NewStatic(approvers []types.ActorID) *Static {
	m := make(map[types.ActorID]bool, len(approvers))
	for _, id := range approvers {
		m[id] = true
	}
	return &Static{approvers: m}
}

func (s *Static) CanApprove(ctx context.Context, actor types.ActorID, a *model.RiskAssessment) bool {
	return s.approvers[actor]
}

// AllowAll grants the approval capability to any non-empty actor. For
// development and tests only.
type AllowAll struct{}

var _ interfaces.Authorizer = AllowAll{}

func (AllowAll) CanApprove(ctx context.Context, actor types.ActorID, a *model.RiskAssessment) bool {
	return actor != ""
}
