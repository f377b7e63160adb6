package asset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sourcevia/internal/common/errs"
	"sourcevia/internal/common/models"
	"sourcevia/internal/database"
	"sourcevia/internal/features/audit"
	"sourcevia/pkg/filter"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AssetInput struct {
	Name            string     `json:"name"`
	Tag             string     `json:"tag"`
	Category        string     `json:"category"`
	SerialNumber    string     `json:"serial_number"`
	PurchaseOrderID string     `json:"purchase_order_id"`
	Location        string     `json:"location"`
	AcquiredAt      *time.Time `json:"acquired_at"`
	Value           float64    `json:"value"`
}

type AssetService interface {
	Create(ctx context.Context, actor permissions.Actor, input AssetInput) (*Asset, error)
	Get(ctx context.Context, id string) (*Asset, error)
	Search(ctx context.Context, req models.SearchRequest) ([]Asset, int64, error)
	Update(ctx context.Context, actor permissions.Actor, id string, input AssetInput) (*Asset, error)
	Transition(ctx context.Context, actor permissions.Actor, id string, to lifecycle.Status, comment string) (*Asset, error)
}

type AssetServiceImpl struct {
	Repo         AssetRepository
	Counters     database.NumberSource
	Eval         *permissions.Evaluator
	AuditService audit.AuditService
}

func NewAssetService(
	repo AssetRepository,
	counters database.NumberSource,
	eval *permissions.Evaluator,
	auditService audit.AuditService,
) AssetService {
	return &AssetServiceImpl{
		Repo:         repo,
		Counters:     counters,
		Eval:         eval,
		AuditService: auditService,
	}
}

func (s *AssetServiceImpl) find(ctx context.Context, id string) (*Asset, error) {
	asset, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
			return nil, errs.NotFound("asset %s not found", id)
		}
		return nil, err
	}
	return asset, nil
}

func (s *AssetServiceImpl) Create(ctx context.Context, actor permissions.Actor, input AssetInput) (*Asset, error) {
	if !s.Eval.CanCreate(actor.Role, permissions.ModuleAssets) {
		return nil, errs.Authorization("role %q may not create assets", actor.Role)
	}
	if input.Name == "" {
		return nil, errs.Validation("asset name is required")
	}
	if input.Value < 0 {
		return nil, errs.Validation("asset value may not be negative")
	}

	number, err := s.Counters.NextNumber(ctx, lifecycle.EntityAsset.Prefix(), time.Now())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	asset := &Asset{
		Name:            input.Name,
		Tag:             input.Tag,
		Category:        input.Category,
		SerialNumber:    input.SerialNumber,
		PurchaseOrderID: input.PurchaseOrderID,
		Location:        input.Location,
		AcquiredAt:      input.AcquiredAt,
		Value:           input.Value,
	}
	asset.ID = primitive.NewObjectID()
	asset.Number = number
	asset.Status = lifecycle.StatusDraft
	asset.CreatedBy = actor.ID
	asset.CreatedAt = now
	asset.UpdatedAt = now

	if err := s.Repo.Create(ctx, asset); err != nil {
		return nil, err
	}

	_ = s.AuditService.Record(ctx, audit.Log{
		Action:       audit.ActionCreate,
		Module:       permissions.ModuleAssets,
		EntityID:     asset.ID.Hex(),
		EntityNumber: asset.Number,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
	})
	return asset, nil
}

func (s *AssetServiceImpl) Get(ctx context.Context, id string) (*Asset, error) {
	return s.find(ctx, id)
}

func (s *AssetServiceImpl) Search(ctx context.Context, req models.SearchRequest) ([]Asset, int64, error) {
	req.Normalize()
	query, err := filter.Compile(req.Filters)
	if err != nil {
		return nil, 0, err
	}
	return s.Repo.Search(ctx, query, req.Page, req.Limit)
}

func (s *AssetServiceImpl) Update(ctx context.Context, actor permissions.Actor, id string, input AssetInput) (*Asset, error) {
	if !s.Eval.CanEdit(actor.Role, permissions.ModuleAssets) {
		return nil, errs.Authorization("role %q may not edit assets", actor.Role)
	}
	asset, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if lifecycle.Terminal(asset.Status) {
		return nil, errs.InvalidTransition("asset %s is %s and read-only", asset.Number, asset.Status)
	}
	if input.Value < 0 {
		return nil, errs.Validation("asset value may not be negative")
	}

	changes := map[string]models.Change{}
	apply := func(field string, old, new interface{}, set func()) {
		if fmt.Sprint(old) != fmt.Sprint(new) {
			changes[field] = models.Change{Old: old, New: new}
			set()
		}
	}
	if input.Name != "" {
		apply("name", asset.Name, input.Name, func() { asset.Name = input.Name })
	}
	apply("tag", asset.Tag, input.Tag, func() { asset.Tag = input.Tag })
	apply("category", asset.Category, input.Category, func() { asset.Category = input.Category })
	apply("serial_number", asset.SerialNumber, input.SerialNumber, func() { asset.SerialNumber = input.SerialNumber })
	apply("purchase_order_id", asset.PurchaseOrderID, input.PurchaseOrderID, func() { asset.PurchaseOrderID = input.PurchaseOrderID })
	apply("location", asset.Location, input.Location, func() { asset.Location = input.Location })
	apply("acquired_at", asset.AcquiredAt, input.AcquiredAt, func() { asset.AcquiredAt = input.AcquiredAt })
	apply("value", asset.Value, input.Value, func() { asset.Value = input.Value })

	if len(changes) == 0 {
		return asset, nil
	}

	asset.UpdatedAt = time.Now()
	if err := s.Repo.UpdateFields(ctx, asset.ID, bson.M{
		"name":              asset.Name,
		"tag":               asset.Tag,
		"category":          asset.Category,
		"serial_number":     asset.SerialNumber,
		"purchase_order_id": asset.PurchaseOrderID,
		"location":          asset.Location,
		"acquired_at":       asset.AcquiredAt,
		"value":             asset.Value,
		"updated_at":        asset.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	_ = s.AuditService.RecordChange(ctx, actor, audit.ActionUpdate, permissions.ModuleAssets, asset.ID.Hex(), asset.Number, changes)
	return asset, nil
}

func (s *AssetServiceImpl) Transition(ctx context.Context, actor permissions.Actor, id string, to lifecycle.Status, comment string) (*Asset, error) {
	if !lifecycle.ValidStatus(lifecycle.EntityAsset, to) {
		return nil, errs.Validation("unknown asset status %q", to)
	}
	asset, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	from := asset.Status

	if err := lifecycle.Check(s.Eval, actor, lifecycle.EntityAsset, from, to); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateStatus(ctx, asset.ID, from, to, nil); err != nil {
		return nil, err
	}
	asset.Status = to
	asset.UpdatedAt = time.Now()

	_ = s.AuditService.RecordTransition(ctx, actor, permissions.ModuleAssets, asset.ID.Hex(), asset.Number, from, to, comment)
	return asset, nil
}
