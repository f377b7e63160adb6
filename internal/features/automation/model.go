package automation

import (
	"time"

	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hook is a tengo script that runs when an entity in Module reaches
// OnStatus. Scripts see the transition as the variables module, entity_id,
// entity_number, from, to and actor_id, and may call notify(user_id, title,
// message) to raise an in-app notification.
type Hook struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Module    permissions.Module `bson:"module" json:"module"`
	OnStatus  lifecycle.Status   `bson:"on_status" json:"on_status"`
	Script    string             `bson:"script" json:"script"`
	Enabled   bool               `bson:"enabled" json:"enabled"`
	CreatedBy string             `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// TransitionEvent is delivered to the engine after a status change commits.
type TransitionEvent struct {
	Module       permissions.Module
	EntityID     string
	EntityNumber string
	From         lifecycle.Status
	To           lifecycle.Status
	ActorID      string
}
