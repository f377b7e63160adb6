package tender

import (
	"time"

	"sourcevia/internal/common/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Tender struct {
	entity.Meta `bson:",inline"`

	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Category    string     `bson:"category,omitempty" json:"category,omitempty"`
	Budget      float64    `bson:"budget,omitempty" json:"budget,omitempty"`
	Currency    string     `bson:"currency,omitempty" json:"currency,omitempty"`
	Deadline    *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`
}

// Evaluation is the verifier's review of one proposal.
type Evaluation struct {
	TechnicalScore  int       `bson:"technical_score" json:"technical_score"`
	CommercialScore int       `bson:"commercial_score" json:"commercial_score"`
	Comments        string    `bson:"comments,omitempty" json:"comments,omitempty"`
	Recommended     bool      `bson:"recommended" json:"recommended"`
	EvaluatedBy     string    `bson:"evaluated_by" json:"evaluated_by"`
	EvaluatedAt     time.Time `bson:"evaluated_at" json:"evaluated_at"`
}

// Proposal is a vendor's bid against a tender. Proposals live in their own
// collection and are gated by the tender_proposals module.
type Proposal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenderID    string             `bson:"tender_id" json:"tender_id"`
	VendorID    string             `bson:"vendor_id" json:"vendor_id"`
	Amount      float64            `bson:"amount" json:"amount"`
	Currency    string             `bson:"currency,omitempty" json:"currency,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Documents   []string           `bson:"documents,omitempty" json:"documents,omitempty"`
	Evaluation  *Evaluation        `bson:"evaluation,omitempty" json:"evaluation,omitempty"`
	SubmittedBy string             `bson:"submitted_by" json:"submitted_by"`
	SubmittedAt time.Time          `bson:"submitted_at" json:"submitted_at"`
}
