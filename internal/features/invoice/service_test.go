package invoice

import (
	"context"
	"testing"
	"time"

	"sourcevia/internal/common/errs"
	"sourcevia/internal/common/models"
	"sourcevia/internal/database"
	"sourcevia/internal/features/audit"
	"sourcevia/internal/features/notification"
	"sourcevia/internal/features/vendor"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	invoices map[string]*Invoice
}

func newFakeRepo() *fakeRepo { return &fakeRepo{invoices: map[string]*Invoice{}} }

func (r *fakeRepo) Create(ctx context.Context, inv *Invoice) error {
	copied := *inv
	r.invoices[inv.ID.Hex()] = &copied
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id string) (*Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *inv
	return &copied, nil
}

func (r *fakeRepo) Search(ctx context.Context, filter bson.M, page, limit int64) ([]Invoice, int64, error) {
	var out []Invoice
	for _, inv := range r.invoices {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	if _, ok := r.invoices[id.Hex()]; !ok {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error {
	inv, ok := r.invoices[id.Hex()]
	if !ok {
		return errs.NotFound("invoice %s not found", id.Hex())
	}
	if inv.Status != from {
		return errs.Conflict("invoice %s is no longer %q", id.Hex(), from)
	}
	inv.Status = to
	if extra != nil {
		if paidAt, ok := extra["paid_at"].(time.Time); ok {
			inv.PaidAt = &paidAt
		}
	}
	return nil
}

type fakeVendors map[string]*vendor.Vendor

func (f fakeVendors) Get(ctx context.Context, id string) (*vendor.Vendor, error) {
	v, ok := f[id]
	if !ok {
		return nil, errs.NotFound("vendor %s not found", id)
	}
	copied := *v
	return &copied, nil
}

type fakeNumbers struct{ seq int }

func (f *fakeNumbers) NextNumber(ctx context.Context, prefix string, now time.Time) (string, error) {
	f.seq++
	return database.FormatNumber(prefix, now, f.seq), nil
}

type noopAudit struct{}

func (noopAudit) Record(ctx context.Context, entry audit.Log) error { return nil }
func (noopAudit) RecordTransition(ctx context.Context, actor permissions.Actor, module permissions.Module, entityID, entityNumber string, from, to lifecycle.Status, comment string) error {
	return nil
}
func (noopAudit) RecordChange(ctx context.Context, actor permissions.Actor, action audit.Action, module permissions.Module, entityID, entityNumber string, changes map[string]models.Change) error {
	return nil
}
func (noopAudit) ListLogs(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]audit.Log, error) {
	return nil, nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, userID string, typ notification.NotificationType, title, message, link string) {
}
func (noopNotifier) ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]notification.Notification, error) {
	return nil, nil
}
func (noopNotifier) MarkRead(ctx context.Context, id, userID string) error { return nil }

var officer = permissions.Actor{ID: "officer-1", Role: permissions.RoleProcurementOfficer}

func makeVendor(status lifecycle.Status) *vendor.Vendor {
	v := &vendor.Vendor{Name: "Gulf Office Supplies"}
	v.ID = primitive.NewObjectID()
	v.Number = "Vendor-26-0001"
	v.Status = status
	return v
}

func newService(t *testing.T, vendors fakeVendors) (InvoiceService, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	svc := NewInvoiceService(repo, vendors, &fakeNumbers{},
		permissions.NewEvaluator(permissions.Default), noopAudit{}, noopNotifier{})
	return svc, repo
}

func TestCreateValidation(t *testing.T) {
	v := makeVendor(lifecycle.StatusApproved)
	blacklisted := makeVendor(lifecycle.StatusBlacklisted)
	svc, _ := newService(t, fakeVendors{v.ID.Hex(): v, blacklisted.ID.Hex(): blacklisted})

	cases := []struct {
		name  string
		input InvoiceInput
	}{
		{"missing vendor", InvoiceInput{Amount: 100}},
		{"zero amount", InvoiceInput{VendorID: v.ID.Hex()}},
		{"negative amount", InvoiceInput{VendorID: v.ID.Hex(), Amount: -5}},
		{"blacklisted vendor", InvoiceInput{VendorID: blacklisted.ID.Hex(), Amount: 100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), officer, tc.input)
			if !errs.Is(err, errs.KindValidation) {
				t.Errorf("Create() = %v, want validation", err)
			}
		})
	}
}

func TestRequesterHasNoInvoiceAccess(t *testing.T) {
	v := makeVendor(lifecycle.StatusApproved)
	svc, _ := newService(t, fakeVendors{v.ID.Hex(): v})

	requester := permissions.Actor{ID: "req-1", Role: permissions.RoleRequester}
	_, err := svc.Create(context.Background(), requester, InvoiceInput{
		VendorID: v.ID.Hex(),
		Amount:   100,
	})
	if !errs.Is(err, errs.KindAuthorization) {
		t.Errorf("Create() = %v, want authorization", err)
	}
}

func TestPaymentStampsPaidAt(t *testing.T) {
	v := makeVendor(lifecycle.StatusApproved)
	svc, repo := newService(t, fakeVendors{v.ID.Hex(): v})

	inv, err := svc.Create(context.Background(), officer, InvoiceInput{
		VendorID:   v.ID.Hex(),
		InvoiceRef: "INV-7781",
		Amount:     4200,
		Currency:   "AED",
	})
	if err != nil {
		t.Fatal(err)
	}
	repo.invoices[inv.ID.Hex()].Status = lifecycle.StatusApproved

	got, err := svc.Transition(context.Background(), officer, inv.ID.Hex(), lifecycle.StatusPaid, "settled")
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if got.Status != lifecycle.StatusPaid {
		t.Errorf("status = %s, want paid", got.Status)
	}
	if got.PaidAt == nil {
		t.Error("PaidAt not stamped")
	}
	if stored := repo.invoices[inv.ID.Hex()]; stored.PaidAt == nil {
		t.Error("paid_at not persisted")
	}
}

func TestPaidInvoiceIsReadOnly(t *testing.T) {
	v := makeVendor(lifecycle.StatusApproved)
	svc, repo := newService(t, fakeVendors{v.ID.Hex(): v})

	inv, err := svc.Create(context.Background(), officer, InvoiceInput{
		VendorID: v.ID.Hex(),
		Amount:   4200,
	})
	if err != nil {
		t.Fatal(err)
	}
	repo.invoices[inv.ID.Hex()].Status = lifecycle.StatusPaid

	_, err = svc.Update(context.Background(), officer, inv.ID.Hex(), InvoiceInput{Amount: 5000})
	if !errs.Is(err, errs.KindInvalidTransition) {
		t.Errorf("Update() = %v, want invalid_transition", err)
	}
	_, err = svc.Transition(context.Background(), officer, inv.ID.Hex(), lifecycle.StatusApproved, "")
	if !errs.Is(err, errs.KindInvalidTransition) {
		t.Errorf("Transition() = %v, want invalid_transition", err)
	}
}
