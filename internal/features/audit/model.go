package audit

import (
	"time"

	"sourcevia/internal/common/models"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Action string

const (
	ActionCreate          Action = "create"
	ActionUpdate          Action = "update"
	ActionTransition      Action = "transition"
	ActionAssignApprovers Action = "assign_approvers"
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionOverride        Action = "override"
	ActionRoleChange      Action = "role_change"
	ActionDueDiligence    Action = "due_diligence"
	ActionDenied          Action = "denied"
)

// Log is one immutable audit entry. Entries are only ever appended.
type Log struct {
	ID           primitive.ObjectID       `bson:"_id,omitempty" json:"id"`
	Action       Action                   `bson:"action" json:"action"`
	Module       permissions.Module       `bson:"module" json:"module"`
	EntityID     string                   `bson:"entity_id,omitempty" json:"entity_id,omitempty"`
	EntityNumber string                   `bson:"entity_number,omitempty" json:"entity_number,omitempty"`
	ActorID      string                   `bson:"actor_id" json:"actor_id"`
	ActorRole    permissions.Role         `bson:"actor_role" json:"actor_role"`
	FromStatus   lifecycle.Status         `bson:"from_status,omitempty" json:"from_status,omitempty"`
	ToStatus     lifecycle.Status         `bson:"to_status,omitempty" json:"to_status,omitempty"`
	Comment      string                   `bson:"comment,omitempty" json:"comment,omitempty"`
	Changes      map[string]models.Change `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp    time.Time                `bson:"timestamp" json:"timestamp"`
}
