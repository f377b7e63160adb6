package tender

import (
	"context"

	"sourcevia/internal/features/approval"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"
)

type TenderGateway struct {
	Service TenderService
}

func NewTenderGateway(service TenderService) *TenderGateway {
	return &TenderGateway{Service: service}
}

func (g *TenderGateway) EntityType() lifecycle.EntityType { return lifecycle.EntityTender }

func (g *TenderGateway) Describe(ctx context.Context, entityID string) (approval.EntityInfo, error) {
	tender, err := g.Service.Get(ctx, entityID)
	if err != nil {
		return approval.EntityInfo{}, err
	}
	return approval.EntityInfo{
		Number:    tender.Number,
		Status:    tender.Status,
		CreatedBy: tender.CreatedBy,
	}, nil
}

func (g *TenderGateway) ApplyOutcome(ctx context.Context, entityID string, approved bool, actor permissions.Actor, comment string) error {
	to := lifecycle.StatusApproved
	if !approved {
		to = lifecycle.StatusNeedsRevision
	}
	_, err := g.Service.Transition(ctx, actor, entityID, to, comment)
	return err
}
