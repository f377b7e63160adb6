package asset

import (
	"time"

	"sourcevia/internal/common/entity"
)

type Asset struct {
	entity.Meta `bson:",inline"`

	Name            string     `bson:"name" json:"name"`
	Tag             string     `bson:"tag,omitempty" json:"tag,omitempty"`
	Category        string     `bson:"category,omitempty" json:"category,omitempty"`
	SerialNumber    string     `bson:"serial_number,omitempty" json:"serial_number,omitempty"`
	PurchaseOrderID string     `bson:"purchase_order_id,omitempty" json:"purchase_order_id,omitempty"`
	Location        string     `bson:"location,omitempty" json:"location,omitempty"`
	AcquiredAt      *time.Time `bson:"acquired_at,omitempty" json:"acquired_at,omitempty"`
	Value           float64    `bson:"value,omitempty" json:"value,omitempty"`
}
