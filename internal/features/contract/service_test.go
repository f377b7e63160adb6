package contract

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
	"sourcevia/pkg/risk"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	contracts map[string]*Contract
}

func newFakeRepo() *fakeRepo { return &fakeRepo{contracts: map[string]*Contract{}} }

func (r *fakeRepo) Create(ctx context.Context, c *Contract) error {
	copied := *c
	r.contracts[c.ID.Hex()] = &copied
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id string) (*Contract, error) {
	c, ok := r.contracts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *c
	return &copied, nil
}

func (r *fakeRepo) FindByVendorAndStatus(ctx context.Context, vendorID string, status lifecycle.Status) ([]Contract, error) {
	var out []Contract
	for _, c := range r.contracts {
		if c.VendorID == vendorID && c.Status == status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeRepo) Search(ctx context.Context, filter bson.M, page, limit int64) ([]Contract, int64, error) {
	var out []Contract
	for _, c := range r.contracts {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	if _, ok := r.contracts[id.Hex()]; !ok {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error {
	c, ok := r.contracts[id.Hex()]
	if !ok {
		return errs.NotFound("contract %s not found", id.Hex())
	}
	if c.Status != from {
		return errs.Conflict("contract %s is no longer %q", id.Hex(), from)
	}
	c.Status = to
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

func makeVendor(status lifecycle.Status, ddRequired, ddCompleted bool) *vendor.Vendor {
	v := &vendor.Vendor{
		Name:         "Gulf Office Supplies",
		RiskCategory: risk.CategoryLow,
		DDRequired:   ddRequired,
		DDCompleted:  ddCompleted,
	}
	v.ID = primitive.NewObjectID()
	v.Number = "Vendor-26-0001"
	v.Status = status
	return v
}

func newService(t *testing.T, vendors fakeVendors) (ContractService, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	svc := NewContractService(repo, vendors, &fakeNumbers{},
		permissions.NewEvaluator(permissions.Default), noopAudit{}, noopNotifier{})
	return svc, repo
}

func TestCreateRejectsBlacklistedVendor(t *testing.T) {
	v := makeVendor(lifecycle.StatusBlacklisted, false, false)
	svc, _ := newService(t, fakeVendors{v.ID.Hex(): v})

	_, err := svc.Create(context.Background(), officer, ContractInput{
		Title:    "Office fit-out",
		VendorID: v.ID.Hex(),
	})
	if !errs.Is(err, errs.KindValidation) {
		t.Errorf("Create() = %v, want validation", err)
	}
}

func TestSubmitStandardContract(t *testing.T) {
	v := makeVendor(lifecycle.StatusApproved, false, false)
	svc, _ := newService(t, fakeVendors{v.ID.Hex(): v})

	c, err := svc.Create(context.Background(), officer, ContractInput{
		Title:    "Stationery supply",
		VendorID: v.ID.Hex(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Classification != ClassificationStandard {
		t.Errorf("classification = %s, want standard default", c.Classification)
	}

	got, err := svc.Transition(context.Background(), officer, c.ID.Hex(), lifecycle.StatusPendingApproval, "")
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if got.Status != lifecycle.StatusPendingApproval {
		t.Errorf("status = %s, want pending_approval", got.Status)
	}
}

func TestOutsourcingContractInheritsDiligenceGate(t *testing.T) {
	// Low-risk vendor, but the outsourcing classification demands
	// diligence the vendor has not done.
	v := makeVendor(lifecycle.StatusApproved, false, false)
	svc, _ := newService(t, fakeVendors{v.ID.Hex(): v})

	c, err := svc.Create(context.Background(), officer, ContractInput{
		Title:          "Payroll outsourcing",
		VendorID:       v.ID.Hex(),
		Classification: ClassificationOutsourcing,
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Status != lifecycle.StatusPendingDueDiligence {
		t.Errorf("status = %s, want pending_due_diligence (gate inherited at creation)", c.Status)
	}
}

func TestCreateInheritsVendorDiligenceGate(t *testing.T) {
	v := makeVendor(lifecycle.StatusApproved, true, false)
	svc, repo := newService(t, fakeVendors{v.ID.Hex(): v})

	c, err := svc.Create(context.Background(), officer, ContractInput{
		Title:    "Cleaning services",
		VendorID: v.ID.Hex(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Status != lifecycle.StatusPendingDueDiligence {
		t.Errorf("status = %s, want pending_due_diligence", c.Status)
	}
	if stored := repo.contracts[c.ID.Hex()]; stored.Status != lifecycle.StatusPendingDueDiligence {
		t.Errorf("stored status = %s, want pending_due_diligence", stored.Status)
	}
}

func TestVendorClearancePropagates(t *testing.T) {
	v := makeVendor(lifecycle.StatusApproved, true, false)
	svc, repo := newService(t, fakeVendors{v.ID.Hex(): v})

	var ids []string
	for _, title := range []string{"Payroll outsourcing", "IT helpdesk"} {
		c, err := svc.Create(context.Background(), officer, ContractInput{
			Title:          title,
			VendorID:       v.ID.Hex(),
			Classification: ClassificationOutsourcing,
		})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, c.ID.Hex())
	}
	for _, id := range ids {
		if repo.contracts[id].Status != lifecycle.StatusPendingDueDiligence {
			t.Fatalf("precondition: contract %s not gated at creation", id)
		}
	}

	if err := svc.VendorDueDiligenceCleared(context.Background(), v.ID.Hex(), officer); err != nil {
		t.Fatalf("VendorDueDiligenceCleared: %v", err)
	}
	for _, id := range ids {
		if got := repo.contracts[id].Status; got != lifecycle.StatusApproved {
			t.Errorf("contract %s status = %s, want approved", id, got)
		}
	}
}

func TestActivationGatedOnVendor(t *testing.T) {
	tests := []struct {
		name     string
		vendor   *vendor.Vendor
		wantErr  bool
		wantKind errs.Kind
	}{
		{
			name:   "approved vendor with diligence done",
			vendor: makeVendor(lifecycle.StatusApproved, true, true),
		},
		{
			name:     "blacklisted vendor",
			vendor:   makeVendor(lifecycle.StatusBlacklisted, false, true),
			wantErr:  true,
			wantKind: errs.KindInvalidTransition,
		},
		{
			name:     "vendor still draft",
			vendor:   makeVendor(lifecycle.StatusDraft, false, false),
			wantErr:  true,
			wantKind: errs.KindInvalidTransition,
		},
		{
			name:     "diligence outstanding",
			vendor:   makeVendor(lifecycle.StatusApproved, true, false),
			wantErr:  true,
			wantKind: errs.KindInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t, fakeVendors{tt.vendor.ID.Hex(): tt.vendor})
			c, err := svc.Create(context.Background(), officer, ContractInput{
				Title:    "Cleaning services",
				VendorID: tt.vendor.ID.Hex(),
			})
			if tt.vendor.Status == lifecycle.StatusBlacklisted {
				// Creation already refuses; seed the record directly.
				c = &Contract{Title: "Cleaning services", VendorID: tt.vendor.ID.Hex(), Classification: ClassificationStandard}
				c.ID = primitive.NewObjectID()
				c.Number = "Contract-26-0009"
				c.Status = lifecycle.StatusApproved
				if err := repo.Create(context.Background(), c); err != nil {
					t.Fatal(err)
				}
			} else {
				if err != nil {
					t.Fatal(err)
				}
				repo.contracts[c.ID.Hex()].Status = lifecycle.StatusApproved
			}

			_, err = svc.Transition(context.Background(), officer, c.ID.Hex(), lifecycle.StatusActive, "")
			if tt.wantErr {
				if !errs.Is(err, tt.wantKind) {
					t.Errorf("Transition() = %v, want kind %s", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Transition: %v", err)
			}
			if repo.contracts[c.ID.Hex()].Status != lifecycle.StatusActive {
				t.Errorf("status = %s, want active", repo.contracts[c.ID.Hex()].Status)
			}
		})
	}
}

func TestTerminatedContractIsReadOnly(t *testing.T) {
	v := makeVendor(lifecycle.StatusApproved, false, true)
	svc, repo := newService(t, fakeVendors{v.ID.Hex(): v})

	c, err := svc.Create(context.Background(), officer, ContractInput{
		Title:    "Cleaning services",
		VendorID: v.ID.Hex(),
	})
	if err != nil {
		t.Fatal(err)
	}
	repo.contracts[c.ID.Hex()].Status = lifecycle.StatusTerminated

	if _, err := svc.Update(context.Background(), officer, c.ID.Hex(), ContractInput{Title: "Renamed"}); !errs.Is(err, errs.KindInvalidTransition) {
		t.Errorf("update on terminated contract = %v, want invalid_transition", err)
	}
	if _, err := svc.Transition(context.Background(), officer, c.ID.Hex(), lifecycle.StatusActive, ""); !errs.Is(err, errs.KindInvalidTransition) {
		t.Errorf("transition out of terminated = %v, want invalid_transition", err)
	}
}
