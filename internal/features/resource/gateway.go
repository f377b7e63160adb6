package resource

import (
	"context"

	"sourcevia/internal/features/approval"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"
)

type ResourceGateway struct {
	Service ResourceService
}

func NewResourceGateway(service ResourceService) *ResourceGateway {
	return &ResourceGateway{Service: service}
}

func (g *ResourceGateway) EntityType() lifecycle.EntityType { return lifecycle.EntityResource }

func (g *ResourceGateway) Describe(ctx context.Context, entityID string) (approval.EntityInfo, error) {
	resource, err := g.Service.Get(ctx, entityID)
	if err != nil {
		return approval.EntityInfo{}, err
	}
	return approval.EntityInfo{
		Number:    resource.Number,
		Status:    resource.Status,
		CreatedBy: resource.CreatedBy,
	}, nil
}

func (g *ResourceGateway) ApplyOutcome(ctx context.Context, entityID string, approved bool, actor permissions.Actor, comment string) error {
	to := lifecycle.StatusApproved
	if !approved {
		to = lifecycle.StatusNeedsRevision
	}
	_, err := g.Service.Transition(ctx, actor, entityID, to, comment)
	return err
}
