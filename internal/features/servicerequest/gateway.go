package servicerequest

import (
	"context"

	"sourcevia/internal/features/approval"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"
)

type ServiceRequestGateway struct {
	Service ServiceRequestService
}

func NewServiceRequestGateway(service ServiceRequestService) *ServiceRequestGateway {
	return &ServiceRequestGateway{Service: service}
}

func (g *ServiceRequestGateway) EntityType() lifecycle.EntityType {
	return lifecycle.EntityServiceRequest
}

func (g *ServiceRequestGateway) Describe(ctx context.Context, entityID string) (approval.EntityInfo, error) {
	request, err := g.Service.Get(ctx, entityID)
	if err != nil {
		return approval.EntityInfo{}, err
	}
	return approval.EntityInfo{
		Number:    request.Number,
		Status:    request.Status,
		CreatedBy: request.CreatedBy,
	}, nil
}

func (g *ServiceRequestGateway) ApplyOutcome(ctx context.Context, entityID string, approved bool, actor permissions.Actor, comment string) error {
	to := lifecycle.StatusApproved
	if !approved {
		to = lifecycle.StatusNeedsRevision
	}
	_, err := g.Service.Transition(ctx, actor, entityID, to, comment)
	return err
}
