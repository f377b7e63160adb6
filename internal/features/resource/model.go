package resource

import (
	"sourcevia/internal/common/entity"
)

type Resource struct {
	entity.Meta `bson:",inline"`

	Name        string `bson:"name" json:"name"`
	Category    string `bson:"category,omitempty" json:"category,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Location    string `bson:"location,omitempty" json:"location,omitempty"`
	Capacity    int    `bson:"capacity,omitempty" json:"capacity,omitempty"`
}
