package resource

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

type ResourceInput struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
}

type ResourceService interface {
	Create(ctx context.Context, actor permissions.Actor, input ResourceInput) (*Resource, error)
	Get(ctx context.Context, id string) (*Resource, error)
	Search(ctx context.Context, req models.SearchRequest) ([]Resource, int64, error)
	Update(ctx context.Context, actor permissions.Actor, id string, input ResourceInput) (*Resource, error)
	Transition(ctx context.Context, actor permissions.Actor, id string, to lifecycle.Status, comment string) (*Resource, error)
}

type ResourceServiceImpl struct {
	Repo         ResourceRepository
	Counters     database.NumberSource
	Eval         *permissions.Evaluator
	AuditService audit.AuditService
}

func NewResourceService(
	repo ResourceRepository,
	counters database.NumberSource,
	eval *permissions.Evaluator,
	auditService audit.AuditService,
) ResourceService {
	return &ResourceServiceImpl{
		Repo:         repo,
		Counters:     counters,
		Eval:         eval,
		AuditService: auditService,
	}
}

func (s *ResourceServiceImpl) find(ctx context.Context, id string) (*Resource, error) {
	resource, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
			return nil, errs.NotFound("resource %s not found", id)
		}
		return nil, err
	}
	return resource, nil
}

func (s *ResourceServiceImpl) Create(ctx context.Context, actor permissions.Actor, input ResourceInput) (*Resource, error) {
	if !s.Eval.CanCreate(actor.Role, permissions.ModuleResources) {
		return nil, errs.Authorization("role %q may not create resources", actor.Role)
	}
	if input.Name == "" {
		return nil, errs.Validation("resource name is required")
	}

	number, err := s.Counters.NextNumber(ctx, lifecycle.EntityResource.Prefix(), time.Now())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resource := &Resource{
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		Location:    input.Location,
		Capacity:    input.Capacity,
	}
	resource.ID = primitive.NewObjectID()
	resource.Number = number
	resource.Status = lifecycle.StatusDraft
	resource.CreatedBy = actor.ID
	resource.CreatedAt = now
	resource.UpdatedAt = now

	if err := s.Repo.Create(ctx, resource); err != nil {
		return nil, err
	}

	_ = s.AuditService.Record(ctx, audit.Log{
		Action:       audit.ActionCreate,
		Module:       permissions.ModuleResources,
		EntityID:     resource.ID.Hex(),
		EntityNumber: resource.Number,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
	})
	return resource, nil
}

func (s *ResourceServiceImpl) Get(ctx context.Context, id string) (*Resource, error) {
	return s.find(ctx, id)
}

func (s *ResourceServiceImpl) Search(ctx context.Context, req models.SearchRequest) ([]Resource, int64, error) {
	req.Normalize()
	query, err := filter.Compile(req.Filters)
	if err != nil {
		return nil, 0, err
	}
	return s.Repo.Search(ctx, query, req.Page, req.Limit)
}

func (s *ResourceServiceImpl) Update(ctx context.Context, actor permissions.Actor, id string, input ResourceInput) (*Resource, error) {
	if !s.Eval.CanEdit(actor.Role, permissions.ModuleResources) {
		return nil, errs.Authorization("role %q may not edit resources", actor.Role)
	}
	resource, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if lifecycle.Terminal(resource.Status) {
		return nil, errs.InvalidTransition("resource %s is %s and read-only", resource.Number, resource.Status)
	}

	changes := map[string]models.Change{}
	apply := func(field string, old, new interface{}, set func()) {
		if fmt.Sprint(old) != fmt.Sprint(new) {
			changes[field] = models.Change{Old: old, New: new}
			set()
		}
	}
	if input.Name != "" {
		apply("name", resource.Name, input.Name, func() { resource.Name = input.Name })
	}
	apply("category", resource.Category, input.Category, func() { resource.Category = input.Category })
	apply("description", resource.Description, input.Description, func() { resource.Description = input.Description })
	apply("location", resource.Location, input.Location, func() { resource.Location = input.Location })
	apply("capacity", resource.Capacity, input.Capacity, func() { resource.Capacity = input.Capacity })

	if len(changes) == 0 {
		return resource, nil
	}

	resource.UpdatedAt = time.Now()
	if err := s.Repo.UpdateFields(ctx, resource.ID, bson.M{
		"name":        resource.Name,
		"category":    resource.Category,
		"description": resource.Description,
		"location":    resource.Location,
		"capacity":    resource.Capacity,
		"updated_at":  resource.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	_ = s.AuditService.RecordChange(ctx, actor, audit.ActionUpdate, permissions.ModuleResources, resource.ID.Hex(), resource.Number, changes)
	return resource, nil
}

func (s *ResourceServiceImpl) Transition(ctx context.Context, actor permissions.Actor, id string, to lifecycle.Status, comment string) (*Resource, error) {
	if !lifecycle.ValidStatus(lifecycle.EntityResource, to) {
		return nil, errs.Validation("unknown resource status %q", to)
	}
	resource, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	from := resource.Status

	if err := lifecycle.Check(s.Eval, actor, lifecycle.EntityResource, from, to); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateStatus(ctx, resource.ID, from, to, nil); err != nil {
		return nil, err
	}
	resource.Status = to
	resource.UpdatedAt = time.Now()

	_ = s.AuditService.RecordTransition(ctx, actor, permissions.ModuleResources, resource.ID.Hex(), resource.Number, from, to, comment)
	return resource, nil
}
