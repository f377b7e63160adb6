package invoice

import (
	"time"

	"sourcevia/internal/common/entity"
)

type Invoice struct {
	entity.Meta `bson:",inline"`

	VendorID        string     `bson:"vendor_id" json:"vendor_id"`
	PurchaseOrderID string     `bson:"purchase_order_id,omitempty" json:"purchase_order_id,omitempty"`
	InvoiceRef      string     `bson:"invoice_ref,omitempty" json:"invoice_ref,omitempty"`
	Amount          float64    `bson:"amount" json:"amount"`
	Currency        string     `bson:"currency,omitempty" json:"currency,omitempty"`
	DueDate         *time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`
	PaidAt          *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	Notes           string     `bson:"notes,omitempty" json:"notes,omitempty"`
}
