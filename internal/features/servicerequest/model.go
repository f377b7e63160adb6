package servicerequest

import (
	"sourcevia/internal/common/entity"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type ServiceRequest struct {
	entity.Meta `bson:",inline"`

	Title        string   `bson:"title" json:"title"`
	Description  string   `bson:"description,omitempty" json:"description,omitempty"`
	Category     string   `bson:"category,omitempty" json:"category,omitempty"`
	Priority     Priority `bson:"priority" json:"priority"`
	RequestedFor string   `bson:"requested_for,omitempty" json:"requested_for,omitempty"`
}
