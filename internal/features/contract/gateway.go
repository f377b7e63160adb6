package contract

import (
	"context"

	"sourcevia/internal/features/approval"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"
)

type ContractGateway struct {
	Service ContractService
}

func NewContractGateway(service ContractService) *ContractGateway {
	return &ContractGateway{Service: service}
}

func (g *ContractGateway) EntityType() lifecycle.EntityType { return lifecycle.EntityContract }

func (g *ContractGateway) Describe(ctx context.Context, entityID string) (approval.EntityInfo, error) {
	contract, err := g.Service.Get(ctx, entityID)
	if err != nil {
		return approval.EntityInfo{}, err
	}
	return approval.EntityInfo{
		Number:    contract.Number,
		Status:    contract.Status,
		CreatedBy: contract.CreatedBy,
	}, nil
}

func (g *ContractGateway) ApplyOutcome(ctx context.Context, entityID string, approved bool, actor permissions.Actor, comment string) error {
	to := lifecycle.StatusApproved
	if !approved {
		to = lifecycle.StatusNeedsRevision
	}
	_, err := g.Service.Transition(ctx, actor, entityID, to, comment)
	return err
}
