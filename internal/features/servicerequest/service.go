package servicerequest

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

type ServiceRequestInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Priority     Priority `json:"priority"`
	RequestedFor string   `json:"requested_for"`
}

type ServiceRequestService interface {
	Create(ctx context.Context, actor permissions.Actor, input ServiceRequestInput) (*ServiceRequest, error)
	Get(ctx context.Context, id string) (*ServiceRequest, error)
	Search(ctx context.Context, req models.SearchRequest) ([]ServiceRequest, int64, error)
	Update(ctx context.Context, actor permissions.Actor, id string, input ServiceRequestInput) (*ServiceRequest, error)
	Transition(ctx context.Context, actor permissions.Actor, id string, to lifecycle.Status, comment string) (*ServiceRequest, error)
}

type ServiceRequestServiceImpl struct {
	Repo         ServiceRequestRepository
	Counters     database.NumberSource
	Eval         *permissions.Evaluator
	AuditService audit.AuditService
}

func NewServiceRequestService(
	repo ServiceRequestRepository,
	counters database.NumberSource,
	eval *permissions.Evaluator,
	auditService audit.AuditService,
) ServiceRequestService {
	return &ServiceRequestServiceImpl{
		Repo:         repo,
		Counters:     counters,
		Eval:         eval,
		AuditService: auditService,
	}
}

func (s *ServiceRequestServiceImpl) find(ctx context.Context, id string) (*ServiceRequest, error) {
	request, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
			return nil, errs.NotFound("service request %s not found", id)
		}
		return nil, err
	}
	return request, nil
}

func (s *ServiceRequestServiceImpl) Create(ctx context.Context, actor permissions.Actor, input ServiceRequestInput) (*ServiceRequest, error) {
	if !s.Eval.CanCreate(actor.Role, permissions.ModuleServiceRequests) {
		return nil, errs.Authorization("role %q may not create service requests", actor.Role)
	}
	if input.Title == "" {
		return nil, errs.Validation("service request title is required")
	}
	if input.Priority == "" {
		input.Priority = PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, errs.Validation("unknown priority %q", input.Priority)
	}

	number, err := s.Counters.NextNumber(ctx, lifecycle.EntityServiceRequest.Prefix(), time.Now())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request := &ServiceRequest{
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Priority:     input.Priority,
		RequestedFor: input.RequestedFor,
	}
	request.ID = primitive.NewObjectID()
	request.Number = number
	request.Status = lifecycle.StatusDraft
	request.CreatedBy = actor.ID
	request.CreatedAt = now
	request.UpdatedAt = now

	if err := s.Repo.Create(ctx, request); err != nil {
		return nil, err
	}

	_ = s.AuditService.Record(ctx, audit.Log{
		Action:       audit.ActionCreate,
		Module:       permissions.ModuleServiceRequests,
		EntityID:     request.ID.Hex(),
		EntityNumber: request.Number,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
	})
	return request, nil
}

func (s *ServiceRequestServiceImpl) Get(ctx context.Context, id string) (*ServiceRequest, error) {
	return s.find(ctx, id)
}

func (s *ServiceRequestServiceImpl) Search(ctx context.Context, req models.SearchRequest) ([]ServiceRequest, int64, error) {
	req.Normalize()
	query, err := filter.Compile(req.Filters)
	if err != nil {
		return nil, 0, err
	}
	return s.Repo.Search(ctx, query, req.Page, req.Limit)
}

func (s *ServiceRequestServiceImpl) Update(ctx context.Context, actor permissions.Actor, id string, input ServiceRequestInput) (*ServiceRequest, error) {
	if !s.Eval.CanEdit(actor.Role, permissions.ModuleServiceRequests) {
		return nil, errs.Authorization("role %q may not edit service requests", actor.Role)
	}
	request, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if lifecycle.Terminal(request.Status) {
		return nil, errs.InvalidTransition("service request %s is %s and read-only", request.Number, request.Status)
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, errs.Validation("unknown priority %q", input.Priority)
	}

	changes := map[string]models.Change{}
	apply := func(field string, old, new interface{}, set func()) {
		if fmt.Sprint(old) != fmt.Sprint(new) {
			changes[field] = models.Change{Old: old, New: new}
			set()
		}
	}
	if input.Title != "" {
		apply("title", request.Title, input.Title, func() { request.Title = input.Title })
	}
	apply("description", request.Description, input.Description, func() { request.Description = input.Description })
	apply("category", request.Category, input.Category, func() { request.Category = input.Category })
	if input.Priority != "" {
		apply("priority", request.Priority, input.Priority, func() { request.Priority = input.Priority })
	}
	apply("requested_for", request.RequestedFor, input.RequestedFor, func() { request.RequestedFor = input.RequestedFor })

	if len(changes) == 0 {
		return request, nil
	}

	request.UpdatedAt = time.Now()
	if err := s.Repo.UpdateFields(ctx, request.ID, bson.M{
		"title":         request.Title,
		"description":   request.Description,
		"category":      request.Category,
		"priority":      request.Priority,
		"requested_for": request.RequestedFor,
		"updated_at":    request.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	_ = s.AuditService.RecordChange(ctx, actor, audit.ActionUpdate, permissions.ModuleServiceRequests, request.ID.Hex(), request.Number, changes)
	return request, nil
}

func (s *ServiceRequestServiceImpl) Transition(ctx context.Context, actor permissions.Actor, id string, to lifecycle.Status, comment string) (*ServiceRequest, error) {
	if !lifecycle.ValidStatus(lifecycle.EntityServiceRequest, to) {
		return nil, errs.Validation("unknown service request status %q", to)
	}
	request, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	from := request.Status

	if err := lifecycle.Check(s.Eval, actor, lifecycle.EntityServiceRequest, from, to); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateStatus(ctx, request.ID, from, to, nil); err != nil {
		return nil, err
	}
	request.Status = to
	request.UpdatedAt = time.Now()

	_ = s.AuditService.RecordTransition(ctx, actor, permissions.ModuleServiceRequests, request.ID.Hex(), request.Number, from, to, comment)
	return request, nil
}
