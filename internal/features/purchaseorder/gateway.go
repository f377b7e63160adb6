package purchaseorder

import (
	"context"

	"sourcevia/internal/features/approval"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"
)

type PurchaseOrderGateway struct {
	Service PurchaseOrderService
}

func NewPurchaseOrderGateway(service PurchaseOrderService) *PurchaseOrderGateway {
	return &PurchaseOrderGateway{Service: service}
}

func (g *PurchaseOrderGateway) EntityType() lifecycle.EntityType { return lifecycle.EntityPurchaseOrder }

func (g *PurchaseOrderGateway) Describe(ctx context.Context, entityID string) (approval.EntityInfo, error) {
	order, err := g.Service.Get(ctx, entityID)
	if err != nil {
		return approval.EntityInfo{}, err
	}
	return approval.EntityInfo{
		Number:    order.Number,
		Status:    order.Status,
		CreatedBy: order.CreatedBy,
	}, nil
}

func (g *PurchaseOrderGateway) ApplyOutcome(ctx context.Context, entityID string, approved bool, actor permissions.Actor, comment string) error {
	to := lifecycle.StatusApproved
	if !approved {
		to = lifecycle.StatusNeedsRevision
	}
	_, err := g.Service.Transition(ctx, actor, entityID, to, comment)
	return err
}
