package purchaseorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sourcevia/internal/common/errs"
	"sourcevia/internal/common/models"
	"sourcevia/internal/database"
	"sourcevia/internal/features/audit"
	"sourcevia/internal/features/notification"
	"sourcevia/internal/features/vendor"
	"sourcevia/pkg/filter"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type VendorDirectory interface {
	Get(ctx context.Context, id string) (*vendor.Vendor, error)
}

type PurchaseOrderInput struct {
	Title      string     `json:"title"`
	VendorID   string     `json:"vendor_id"`
	ContractID string     `json:"contract_id"`
	Items      []LineItem `json:"items"`
	Currency   string     `json:"currency"`
	Notes      string     `json:"notes"`
}

type PurchaseOrderService interface {
	Create(ctx context.Context, actor permissions.Actor, input PurchaseOrderInput) (*PurchaseOrder, error)
	Get(ctx context.Context, id string) (*PurchaseOrder, error)
	Search(ctx context.Context, req models.SearchRequest) ([]PurchaseOrder, int64, error)
	Update(ctx context.Context, actor permissions.Actor, id string, input PurchaseOrderInput) (*PurchaseOrder, error)
	Transition(ctx context.Context, actor permissions.Actor, id string, to lifecycle.Status, comment string) (*PurchaseOrder, error)
}

type PurchaseOrderServiceImpl struct {
	Repo          PurchaseOrderRepository
	Vendors       VendorDirectory
	Counters      database.NumberSource
	Eval          *permissions.Evaluator
	AuditService  audit.AuditService
	Notifications notification.NotificationService
}

func NewPurchaseOrderService(
	repo PurchaseOrderRepository,
	vendors VendorDirectory,
	counters database.NumberSource,
	eval *permissions.Evaluator,
	auditService audit.AuditService,
	notifications notification.NotificationService,
) PurchaseOrderService {
	return &PurchaseOrderServiceImpl{
		Repo:          repo,
		Vendors:       vendors,
		Counters:      counters,
		Eval:          eval,
		AuditService:  auditService,
		Notifications: notifications,
	}
}

func (s *PurchaseOrderServiceImpl) find(ctx context.Context, id string) (*PurchaseOrder, error) {
	order, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
			return nil, errs.NotFound("purchase order %s not found", id)
		}
		return nil, err
	}
	return order, nil
}

func (s *PurchaseOrderServiceImpl) Create(ctx context.Context, actor permissions.Actor, input PurchaseOrderInput) (*PurchaseOrder, error) {
	if !s.Eval.CanCreate(actor.Role, permissions.ModulePurchaseOrders) {
		return nil, errs.Authorization("role %q may not create purchase orders", actor.Role)
	}
	if input.Title == "" {
		return nil, errs.Validation("purchase order title is required")
	}
	if input.VendorID == "" {
		return nil, errs.Validation("purchase order vendor is required")
	}
	for i, item := range input.Items {
		if item.Quantity <= 0 || item.UnitPrice < 0 {
			return nil, errs.Validation("line item %d has invalid quantity or price", i+1)
		}
	}

	v, err := s.Vendors.Get(ctx, input.VendorID)
	if err != nil {
		return nil, err
	}
	if v.Status == lifecycle.StatusBlacklisted {
		return nil, errs.Validation("vendor %s is blacklisted", v.Number)
	}

	number, err := s.Counters.NextNumber(ctx, lifecycle.EntityPurchaseOrder.Prefix(), time.Now())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &PurchaseOrder{
		Title:      input.Title,
		VendorID:   input.VendorID,
		ContractID: input.ContractID,
		Items:      input.Items,
		Currency:   input.Currency,
		Notes:      input.Notes,
	}
	order.ComputeTotal()
	order.ID = primitive.NewObjectID()
	order.Number = number
	order.Status = lifecycle.StatusDraft
	order.CreatedBy = actor.ID
	order.CreatedAt = now
	order.UpdatedAt = now

	if err := s.Repo.Create(ctx, order); err != nil {
		return nil, err
	}

	_ = s.AuditService.Record(ctx, audit.Log{
		Action:       audit.ActionCreate,
		Module:       permissions.ModulePurchaseOrders,
		EntityID:     order.ID.Hex(),
		EntityNumber: order.Number,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
	})
	return order, nil
}

func (s *PurchaseOrderServiceImpl) Get(ctx context.Context, id string) (*PurchaseOrder, error) {
	return s.find(ctx, id)
}

func (s *PurchaseOrderServiceImpl) Search(ctx context.Context, req models.SearchRequest) ([]PurchaseOrder, int64, error) {
	req.Normalize()
	query, err := filter.Compile(req.Filters)
	if err != nil {
		return nil, 0, err
	}
	return s.Repo.Search(ctx, query, req.Page, req.Limit)
}

func (s *PurchaseOrderServiceImpl) Update(ctx context.Context, actor permissions.Actor, id string, input PurchaseOrderInput) (*PurchaseOrder, error) {
	if !s.Eval.CanEdit(actor.Role, permissions.ModulePurchaseOrders) {
		return nil, errs.Authorization("role %q may not edit purchase orders", actor.Role)
	}
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if lifecycle.Terminal(order.Status) {
		return nil, errs.InvalidTransition("purchase order %s is %s and read-only", order.Number, order.Status)
	}

	changes := map[string]models.Change{}
	apply := func(field string, old, new interface{}, set func()) {
		if fmt.Sprint(old) != fmt.Sprint(new) {
			changes[field] = models.Change{Old: old, New: new}
			set()
		}
	}
	if input.Title != "" {
		apply("title", order.Title, input.Title, func() { order.Title = input.Title })
	}
	if input.Items != nil {
		for i, item := range input.Items {
			if item.Quantity <= 0 || item.UnitPrice < 0 {
				return nil, errs.Validation("line item %d has invalid quantity or price", i+1)
			}
		}
		apply("items", order.Items, input.Items, func() { order.Items = input.Items })
	}
	apply("currency", order.Currency, input.Currency, func() { order.Currency = input.Currency })
	apply("notes", order.Notes, input.Notes, func() { order.Notes = input.Notes })

	if len(changes) == 0 {
		return order, nil
	}

	order.ComputeTotal()
	order.UpdatedAt = time.Now()
	if err := s.Repo.UpdateFields(ctx, order.ID, bson.M{
		"title":      order.Title,
		"items":      order.Items,
		"total":      order.Total,
		"currency":   order.Currency,
		"notes":      order.Notes,
		"updated_at": order.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	_ = s.AuditService.RecordChange(ctx, actor, audit.ActionUpdate, permissions.ModulePurchaseOrders, order.ID.Hex(), order.Number, changes)
	return order, nil
}

func (s *PurchaseOrderServiceImpl) Transition(ctx context.Context, actor permissions.Actor, id string, to lifecycle.Status, comment string) (*PurchaseOrder, error) {
	if !lifecycle.ValidStatus(lifecycle.EntityPurchaseOrder, to) {
		return nil, errs.Validation("unknown purchase order status %q", to)
	}
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status

	if to == lifecycle.StatusActive {
		v, err := s.Vendors.Get(ctx, order.VendorID)
		if err != nil {
			return nil, err
		}
		if v.Status == lifecycle.StatusBlacklisted {
			return nil, errs.InvalidTransition("purchase order %s cannot activate: vendor %s is blacklisted", order.Number, v.Number)
		}
	}

	if err := lifecycle.Check(s.Eval, actor, lifecycle.EntityPurchaseOrder, from, to); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateStatus(ctx, order.ID, from, to, nil); err != nil {
		return nil, err
	}
	order.Status = to
	order.UpdatedAt = time.Now()

	_ = s.AuditService.RecordTransition(ctx, actor, permissions.ModulePurchaseOrders, order.ID.Hex(), order.Number, from, to, comment)

	if to == lifecycle.StatusNeedsRevision && order.CreatedBy != actor.ID {
		s.Notifications.Notify(ctx, order.CreatedBy, notification.NotificationTypeDecision,
			fmt.Sprintf("%s sent back for revision", order.Number),
			fmt.Sprintf("purchase order %s needs revision", order.Title),
			fmt.Sprintf("/purchase_orders/%s", order.ID.Hex()))
	}
	return order, nil
}
