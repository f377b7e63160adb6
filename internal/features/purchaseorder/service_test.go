package purchaseorder

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
	orders map[string]*PurchaseOrder
}

func newFakeRepo() *fakeRepo { return &fakeRepo{orders: map[string]*PurchaseOrder{}} }

func (r *fakeRepo) Create(ctx context.Context, o *PurchaseOrder) error {
	copied := *o
	r.orders[o.ID.Hex()] = &copied
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id string) (*PurchaseOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *o
	return &copied, nil
}

func (r *fakeRepo) Search(ctx context.Context, filter bson.M, page, limit int64) ([]PurchaseOrder, int64, error) {
	var out []PurchaseOrder
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	o, ok := r.orders[id.Hex()]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if items, ok := set["items"].([]LineItem); ok {
		o.Items = items
	}
	if total, ok := set["total"].(float64); ok {
		o.Total = total
	}
	return nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error {
	o, ok := r.orders[id.Hex()]
	if !ok {
		return errs.NotFound("purchase order %s not found", id.Hex())
	}
	if o.Status != from {
		return errs.Conflict("purchase order %s is no longer %q", id.Hex(), from)
	}
	o.Status = to
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

func newService(t *testing.T, vendors fakeVendors) (PurchaseOrderService, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	svc := NewPurchaseOrderService(repo, vendors, &fakeNumbers{},
		permissions.NewEvaluator(permissions.Default), noopAudit{}, noopNotifier{})
	return svc, repo
}

func TestCreateComputesTotal(t *testing.T) {
	v := makeVendor(lifecycle.StatusApproved)
	svc, _ := newService(t, fakeVendors{v.ID.Hex(): v})

	order, err := svc.Create(context.Background(), officer, PurchaseOrderInput{
		Title:    "Desk chairs",
		VendorID: v.ID.Hex(),
		Items: []LineItem{
			{Description: "Chair", Quantity: 10, UnitPrice: 120},
			{Description: "Delivery", Quantity: 1, UnitPrice: 50},
		},
		Currency: "AED",
	})
	if err != nil {
		t.Fatal(err)
	}
	if order.Total != 1250 {
		t.Errorf("total = %v, want 1250", order.Total)
	}
	if order.Status != lifecycle.StatusDraft {
		t.Errorf("status = %s, want draft", order.Status)
	}
}

func TestCreateRejectsBadLineItems(t *testing.T) {
	v := makeVendor(lifecycle.StatusApproved)
	svc, _ := newService(t, fakeVendors{v.ID.Hex(): v})

	cases := []struct {
		name  string
		items []LineItem
	}{
		{"zero quantity", []LineItem{{Description: "Chair", Quantity: 0, UnitPrice: 120}}},
		{"negative price", []LineItem{{Description: "Chair", Quantity: 1, UnitPrice: -5}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), officer, PurchaseOrderInput{
				Title:    "Desk chairs",
				VendorID: v.ID.Hex(),
				Items:    tc.items,
			})
			if !errs.Is(err, errs.KindValidation) {
				t.Errorf("Create() = %v, want validation", err)
			}
		})
	}
}

func TestCreateRejectsBlacklistedVendor(t *testing.T) {
	v := makeVendor(lifecycle.StatusBlacklisted)
	svc, _ := newService(t, fakeVendors{v.ID.Hex(): v})

	_, err := svc.Create(context.Background(), officer, PurchaseOrderInput{
		Title:    "Desk chairs",
		VendorID: v.ID.Hex(),
	})
	if !errs.Is(err, errs.KindValidation) {
		t.Errorf("Create() = %v, want validation", err)
	}
}

func TestUpdateRecomputesTotal(t *testing.T) {
	v := makeVendor(lifecycle.StatusApproved)
	svc, _ := newService(t, fakeVendors{v.ID.Hex(): v})

	order, err := svc.Create(context.Background(), officer, PurchaseOrderInput{
		Title:    "Desk chairs",
		VendorID: v.ID.Hex(),
		Items:    []LineItem{{Description: "Chair", Quantity: 10, UnitPrice: 120}},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Update(context.Background(), officer, order.ID.Hex(), PurchaseOrderInput{
		Items: []LineItem{{Description: "Chair", Quantity: 5, UnitPrice: 120}},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Total != 600 {
		t.Errorf("total = %v, want 600", got.Total)
	}
}

func TestActivationBlockedByBlacklistedVendor(t *testing.T) {
	v := makeVendor(lifecycle.StatusApproved)
	vendors := fakeVendors{v.ID.Hex(): v}
	svc, repo := newService(t, vendors)

	order, err := svc.Create(context.Background(), officer, PurchaseOrderInput{
		Title:    "Desk chairs",
		VendorID: v.ID.Hex(),
		Items:    []LineItem{{Description: "Chair", Quantity: 1, UnitPrice: 100}},
	})
	if err != nil {
		t.Fatal(err)
	}
	repo.orders[order.ID.Hex()].Status = lifecycle.StatusApproved

	// Vendor gets blacklisted after approval but before activation.
	vendors[v.ID.Hex()].Status = lifecycle.StatusBlacklisted

	_, err = svc.Transition(context.Background(), officer, order.ID.Hex(), lifecycle.StatusActive, "")
	if !errs.Is(err, errs.KindInvalidTransition) {
		t.Errorf("Transition() = %v, want invalid_transition", err)
	}
}

func TestTerminatedOrderIsReadOnly(t *testing.T) {
	v := makeVendor(lifecycle.StatusApproved)
	svc, repo := newService(t, fakeVendors{v.ID.Hex(): v})

	order, err := svc.Create(context.Background(), officer, PurchaseOrderInput{
		Title:    "Desk chairs",
		VendorID: v.ID.Hex(),
	})
	if err != nil {
		t.Fatal(err)
	}
	repo.orders[order.ID.Hex()].Status = lifecycle.StatusTerminated

	_, err = svc.Update(context.Background(), officer, order.ID.Hex(), PurchaseOrderInput{Title: "New title"})
	if !errs.Is(err, errs.KindInvalidTransition) {
		t.Errorf("Update() = %v, want invalid_transition", err)
	}
}
