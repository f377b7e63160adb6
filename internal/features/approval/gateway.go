package approval

import (
	"context"

	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"
)

// EntityInfo is what the orchestrator needs to know about a record before
// opening or closing an approval round.
type EntityInfo struct {
	Number    string
	Status    lifecycle.Status
	CreatedBy string
}

// Gateway is implemented by each entity feature so the orchestrator can
// inspect and advance records without importing every feature package.
type Gateway interface {
	EntityType() lifecycle.EntityType

	Describe(ctx context.Context, entityID string) (EntityInfo, error)

	// ApplyOutcome closes the approval round on the entity: approved moves
	// pending_approval to approved, rejected moves it to needs_revision.
	ApplyOutcome(ctx context.Context, entityID string, approved bool, actor permissions.Actor, comment string) error
}
