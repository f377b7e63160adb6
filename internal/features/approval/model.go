package approval

import (
	"time"

	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ApproverDecision tracks one assigned approver's standing answer.
type ApproverDecision struct {
	ApproverID string     `bson:"approver_id" json:"approver_id"`
	Decision   Decision   `bson:"decision" json:"decision"`
	Comment    string     `bson:"comment,omitempty" json:"comment,omitempty"`
	DecidedAt  *time.Time `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
}

// Assignment is the awaiting-approval aggregate for one entity. The entity
// advances only when every decision is approve; a single reject halts the
// round and sends the entity back for revision.
type Assignment struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	EntityType   lifecycle.EntityType `bson:"entity_type" json:"entity_type"`
	Module       permissions.Module   `bson:"module" json:"module"`
	EntityID     string               `bson:"entity_id" json:"entity_id"`
	EntityNumber string               `bson:"entity_number" json:"entity_number"`
	RequesterID  string               `bson:"requester_id" json:"requester_id"` // entity creator, notified on outcome
	AssignedBy   string               `bson:"assigned_by" json:"assigned_by"`
	Comment      string               `bson:"comment,omitempty" json:"comment,omitempty"`
	Decisions    []ApproverDecision   `bson:"decisions" json:"decisions"`
	Status       Decision             `bson:"status" json:"status"`
	Overridden   bool                 `bson:"overridden,omitempty" json:"overridden,omitempty"`
	OverriddenBy string               `bson:"overridden_by,omitempty" json:"overridden_by,omitempty"`
	CreatedAt    time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updated_at"`
}

// decided reports whether every approver has approved.
func (a *Assignment) allApproved() bool {
	for _, d := range a.Decisions {
		if d.Decision != DecisionApproved {
			return false
		}
	}
	return len(a.Decisions) > 0
}

func (a *Assignment) decisionFor(approverID string) *ApproverDecision {
	for i := range a.Decisions {
		if a.Decisions[i].ApproverID == approverID {
			return &a.Decisions[i]
		}
	}
	return nil
}
