package invoice

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

type InvoiceInput struct {
	VendorID        string     `json:"vendor_id"`
	PurchaseOrderID string     `json:"purchase_order_id"`
	InvoiceRef      string     `json:"invoice_ref"`
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	DueDate         *time.Time `json:"due_date"`
	Notes           string     `json:"notes"`
}

type InvoiceService interface {
	Create(ctx context.Context, actor permissions.Actor, input InvoiceInput) (*Invoice, error)
	Get(ctx context.Context, id string) (*Invoice, error)
	Search(ctx context.Context, req models.SearchRequest) ([]Invoice, int64, error)
	Update(ctx context.Context, actor permissions.Actor, id string, input InvoiceInput) (*Invoice, error)
	Transition(ctx context.Context, actor permissions.Actor, id string, to lifecycle.Status, comment string) (*Invoice, error)
}

type InvoiceServiceImpl struct {
	Repo          InvoiceRepository
	Vendors       VendorDirectory
	Counters      database.NumberSource
	Eval          *permissions.Evaluator
	AuditService  audit.AuditService
	Notifications notification.NotificationService
}

func NewInvoiceService(
	repo InvoiceRepository,
	vendors VendorDirectory,
	counters database.NumberSource,
	eval *permissions.Evaluator,
	auditService audit.AuditService,
	notifications notification.NotificationService,
) InvoiceService {
	return &InvoiceServiceImpl{
		Repo:          repo,
		Vendors:       vendors,
		Counters:      counters,
		Eval:          eval,
		AuditService:  auditService,
		Notifications: notifications,
	}
}

func (s *InvoiceServiceImpl) find(ctx context.Context, id string) (*Invoice, error) {
	invoice, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
			return nil, errs.NotFound("invoice %s not found", id)
		}
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceServiceImpl) Create(ctx context.Context, actor permissions.Actor, input InvoiceInput) (*Invoice, error) {
	if !s.Eval.CanCreate(actor.Role, permissions.ModuleInvoices) {
		return nil, errs.Authorization("role %q may not create invoices", actor.Role)
	}
	if input.VendorID == "" {
		return nil, errs.Validation("invoice vendor is required")
	}
	if input.Amount <= 0 {
		return nil, errs.Validation("invoice amount must be positive")
	}

	v, err := s.Vendors.Get(ctx, input.VendorID)
	if err != nil {
		return nil, err
	}
	if v.Status == lifecycle.StatusBlacklisted {
		return nil, errs.Validation("vendor %s is blacklisted", v.Number)
	}

	number, err := s.Counters.NextNumber(ctx, lifecycle.EntityInvoice.Prefix(), time.Now())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	invoice := &Invoice{
		VendorID:        input.VendorID,
		PurchaseOrderID: input.PurchaseOrderID,
		InvoiceRef:      input.InvoiceRef,
		Amount:          input.Amount,
		Currency:        input.Currency,
		DueDate:         input.DueDate,
		Notes:           input.Notes,
	}
	invoice.ID = primitive.NewObjectID()
	invoice.Number = number
	invoice.Status = lifecycle.StatusDraft
	invoice.CreatedBy = actor.ID
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	if err := s.Repo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	_ = s.AuditService.Record(ctx, audit.Log{
		Action:       audit.ActionCreate,
		Module:       permissions.ModuleInvoices,
		EntityID:     invoice.ID.Hex(),
		EntityNumber: invoice.Number,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
	})
	return invoice, nil
}

func (s *InvoiceServiceImpl) Get(ctx context.Context, id string) (*Invoice, error) {
	return s.find(ctx, id)
}

func (s *InvoiceServiceImpl) Search(ctx context.Context, req models.SearchRequest) ([]Invoice, int64, error) {
	req.Normalize()
	query, err := filter.Compile(req.Filters)
	if err != nil {
		return nil, 0, err
	}
	return s.Repo.Search(ctx, query, req.Page, req.Limit)
}

func (s *InvoiceServiceImpl) Update(ctx context.Context, actor permissions.Actor, id string, input InvoiceInput) (*Invoice, error) {
	if !s.Eval.CanEdit(actor.Role, permissions.ModuleInvoices) {
		return nil, errs.Authorization("role %q may not edit invoices", actor.Role)
	}
	invoice, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if lifecycle.Terminal(invoice.Status) {
		return nil, errs.InvalidTransition("invoice %s is %s and read-only", invoice.Number, invoice.Status)
	}

	changes := map[string]models.Change{}
	apply := func(field string, old, new interface{}, set func()) {
		if fmt.Sprint(old) != fmt.Sprint(new) {
			changes[field] = models.Change{Old: old, New: new}
			set()
		}
	}
	if input.InvoiceRef != "" {
		apply("invoice_ref", invoice.InvoiceRef, input.InvoiceRef, func() { invoice.InvoiceRef = input.InvoiceRef })
	}
	if input.Amount > 0 {
		apply("amount", invoice.Amount, input.Amount, func() { invoice.Amount = input.Amount })
	}
	apply("currency", invoice.Currency, input.Currency, func() { invoice.Currency = input.Currency })
	apply("due_date", invoice.DueDate, input.DueDate, func() { invoice.DueDate = input.DueDate })
	apply("notes", invoice.Notes, input.Notes, func() { invoice.Notes = input.Notes })

	if len(changes) == 0 {
		return invoice, nil
	}

	invoice.UpdatedAt = time.Now()
	if err := s.Repo.UpdateFields(ctx, invoice.ID, bson.M{
		"invoice_ref": invoice.InvoiceRef,
		"amount":      invoice.Amount,
		"currency":    invoice.Currency,
		"due_date":    invoice.DueDate,
		"notes":       invoice.Notes,
		"updated_at":  invoice.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	_ = s.AuditService.RecordChange(ctx, actor, audit.ActionUpdate, permissions.ModuleInvoices, invoice.ID.Hex(), invoice.Number, changes)
	return invoice, nil
}

func (s *InvoiceServiceImpl) Transition(ctx context.Context, actor permissions.Actor, id string, to lifecycle.Status, comment string) (*Invoice, error) {
	if !lifecycle.ValidStatus(lifecycle.EntityInvoice, to) {
		return nil, errs.Validation("unknown invoice status %q", to)
	}
	invoice, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	from := invoice.Status

	if err := lifecycle.Check(s.Eval, actor, lifecycle.EntityInvoice, from, to); err != nil {
		return nil, err
	}

	var extra bson.M
	if to == lifecycle.StatusPaid {
		now := time.Now()
		invoice.PaidAt = &now
		extra = bson.M{"paid_at": now}
	}
	if err := s.Repo.UpdateStatus(ctx, invoice.ID, from, to, extra); err != nil {
		return nil, err
	}
	invoice.Status = to
	invoice.UpdatedAt = time.Now()

	_ = s.AuditService.RecordTransition(ctx, actor, permissions.ModuleInvoices, invoice.ID.Hex(), invoice.Number, from, to, comment)

	if to == lifecycle.StatusPaid && invoice.CreatedBy != actor.ID {
		s.Notifications.Notify(ctx, invoice.CreatedBy, notification.NotificationTypeInfo,
			fmt.Sprintf("%s paid", invoice.Number),
			fmt.Sprintf("invoice %s has been paid", invoice.Number),
			fmt.Sprintf("/invoices/%s", invoice.ID.Hex()))
	}
	return invoice, nil
}
