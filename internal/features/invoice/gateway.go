package invoice

import (
	"context"

	"sourcevia/internal/features/approval"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"
)

type InvoiceGateway struct {
	Service InvoiceService
}

func NewInvoiceGateway(service InvoiceService) *InvoiceGateway {
	return &InvoiceGateway{Service: service}
}

func (g *InvoiceGateway) EntityType() lifecycle.EntityType { return lifecycle.EntityInvoice }

func (g *InvoiceGateway) Describe(ctx context.Context, entityID string) (approval.EntityInfo, error) {
	invoice, err := g.Service.Get(ctx, entityID)
	if err != nil {
		return approval.EntityInfo{}, err
	}
	return approval.EntityInfo{
		Number:    invoice.Number,
		Status:    invoice.Status,
		CreatedBy: invoice.CreatedBy,
	}, nil
}

func (g *InvoiceGateway) ApplyOutcome(ctx context.Context, entityID string, approved bool, actor permissions.Actor, comment string) error {
	to := lifecycle.StatusApproved
	if !approved {
		to = lifecycle.StatusNeedsRevision
	}
	_, err := g.Service.Transition(ctx, actor, entityID, to, comment)
	return err
}
