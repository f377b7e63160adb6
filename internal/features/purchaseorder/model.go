package purchaseorder

import (
	"sourcevia/internal/common/entity"
)

type LineItem struct {
	Description string  `bson:"description" json:"description"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	UnitPrice   float64 `bson:"unit_price" json:"unit_price"`
}

type PurchaseOrder struct {
	entity.Meta `bson:",inline"`

	Title      string     `bson:"title" json:"title"`
	VendorID   string     `bson:"vendor_id" json:"vendor_id"`
	ContractID string     `bson:"contract_id,omitempty" json:"contract_id,omitempty"`
	Items      []LineItem `bson:"items,omitempty" json:"items,omitempty"`
	Total      float64    `bson:"total" json:"total"`
	Currency   string     `bson:"currency,omitempty" json:"currency,omitempty"`
	Notes      string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ComputeTotal derives the order total from its line items.
func (p *PurchaseOrder) ComputeTotal() {
	total := 0.0
	for _, item := range p.Items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	p.Total = total
}
