package contract

import (
	"time"

	"sourcevia/internal/common/entity"
)

// Classification drives the due-diligence gate: outsourcing contracts
// require vendor diligence regardless of the vendor's own risk category.
type Classification string

const (
	ClassificationStandard            Classification = "standard"
	ClassificationOutsourcing         Classification = "outsourcing"
	ClassificationMaterialOutsourcing Classification = "material_outsourcing"
)

func (c Classification) Valid() bool {
	switch c {
	case ClassificationStandard, ClassificationOutsourcing, ClassificationMaterialOutsourcing:
		return true
	}
	return false
}

// Outsourcing reports whether the classification pulls in the diligence
// gate.
func (c Classification) Outsourcing() bool {
	return c == ClassificationOutsourcing || c == ClassificationMaterialOutsourcing
}

type Contract struct {
	entity.Meta `bson:",inline"`

	Title          string         `bson:"title" json:"title"`
	VendorID       string         `bson:"vendor_id" json:"vendor_id"`
	TenderID       string         `bson:"tender_id,omitempty" json:"tender_id,omitempty"`
	Classification Classification `bson:"classification" json:"classification"`
	Value          float64        `bson:"value,omitempty" json:"value,omitempty"`
	Currency       string         `bson:"currency,omitempty" json:"currency,omitempty"`
	StartDate      *time.Time     `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate        *time.Time     `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Terms          string         `bson:"terms,omitempty" json:"terms,omitempty"`
}
