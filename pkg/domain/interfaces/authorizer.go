package interfaces

import (
	"context"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"
)

// Authorizer is the injected capability check for approval decisions.
// Policy (who may approve) is an external collaborator's concern; the
// lifecycle controller only asks whether the capability is held.
type Authorizer interface {
	CanApprove(ctx context.Context, actor types.ActorID, a *model.RiskAssessment) bool
}
