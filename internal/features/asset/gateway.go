package asset

import (
	"context"

	"sourcevia/internal/features/approval"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"
)

type AssetGateway struct {
	Service AssetService
}

func NewAssetGateway(service AssetService) *AssetGateway {
	return &AssetGateway{Service: service}
}

func (g *AssetGateway) EntityType() lifecycle.EntityType { return lifecycle.EntityAsset }

func (g *AssetGateway) Describe(ctx context.Context, entityID string) (approval.EntityInfo, error) {
	asset, err := g.Service.Get(ctx, entityID)
	if err != nil {
		return approval.EntityInfo{}, err
	}
	return approval.EntityInfo{
		Number:    asset.Number,
		Status:    asset.Status,
		CreatedBy: asset.CreatedBy,
	}, nil
}

func (g *AssetGateway) ApplyOutcome(ctx context.Context, entityID string, approved bool, actor permissions.Actor, comment string) error {
	to := lifecycle.StatusApproved
	if !approved {
		to = lifecycle.StatusNeedsRevision
	}
	_, err := g.Service.Transition(ctx, actor, entityID, to, comment)
	return err
}
