package tender

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
	tenders   map[string]*Tender
	proposals map[string]*Proposal
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{tenders: map[string]*Tender{}, proposals: map[string]*Proposal{}}
}

func (r *fakeRepo) Create(ctx context.Context, t *Tender) error {
	copied := *t
	r.tenders[t.ID.Hex()] = &copied
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id string) (*Tender, error) {
	t, ok := r.tenders[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *t
	return &copied, nil
}

func (r *fakeRepo) Search(ctx context.Context, filter bson.M, page, limit int64) ([]Tender, int64, error) {
	var out []Tender
	for _, t := range r.tenders {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	if _, ok := r.tenders[id.Hex()]; !ok {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, extra bson.M) error {
	t, ok := r.tenders[id.Hex()]
	if !ok {
		return errs.NotFound("tender %s not found", id.Hex())
	}
	if t.Status != from {
		return errs.Conflict("tender %s is no longer %q", id.Hex(), from)
	}
	t.Status = to
	return nil
}

func (r *fakeRepo) CreateProposal(ctx context.Context, p *Proposal) error {
	copied := *p
	r.proposals[p.ID.Hex()] = &copied
	return nil
}

func (r *fakeRepo) FindProposal(ctx context.Context, tenderID, proposalID string) (*Proposal, error) {
	p, ok := r.proposals[proposalID]
	if !ok || p.TenderID != tenderID {
		return nil, mongo.ErrNoDocuments
	}
	copied := *p
	return &copied, nil
}

func (r *fakeRepo) ListProposals(ctx context.Context, tenderID string) ([]Proposal, error) {
	var out []Proposal
	for _, p := range r.proposals {
		if p.TenderID == tenderID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeRepo) SaveEvaluation(ctx context.Context, proposalID primitive.ObjectID, eval *Evaluation) error {
	p, ok := r.proposals[proposalID.Hex()]
	if !ok {
		return mongo.ErrNoDocuments
	}
	p.Evaluation = eval
	return nil
}

type fakeVendors map[string]*vendor.Vendor

func (f fakeVendors) Get(ctx context.Context, id string) (*vendor.Vendor, error) {
	v, ok := f[id]
	if !ok {
		return nil, errs.NotFound("vendor %s not found", id)
	}
	return v, nil
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

func setup(t *testing.T, tenderStatus lifecycle.Status) (TenderService, *fakeRepo, *vendor.Vendor, string) {
	t.Helper()
	v := &vendor.Vendor{Name: "Gulf Office Supplies"}
	v.ID = primitive.NewObjectID()
	v.Number = "Vendor-26-0001"
	v.Status = lifecycle.StatusApproved

	repo := newFakeRepo()
	svc := NewTenderService(repo, fakeVendors{v.ID.Hex(): v}, &fakeNumbers{},
		permissions.NewEvaluator(permissions.Default), noopAudit{}, noopNotifier{})

	tender, err := svc.Create(context.Background(), officer, TenderInput{Title: "Office furniture"})
	if err != nil {
		t.Fatal(err)
	}
	repo.tenders[tender.ID.Hex()].Status = tenderStatus
	return svc, repo, v, tender.ID.Hex()
}

func TestProposalOnlyWhileActive(t *testing.T) {
	svc, _, v, tenderID := setup(t, lifecycle.StatusDraft)

	_, err := svc.AddProposal(context.Background(), officer, tenderID, ProposalInput{
		VendorID: v.ID.Hex(),
		Amount:   12000,
	})
	if !errs.Is(err, errs.KindInvalidTransition) {
		t.Errorf("proposal on draft tender = %v, want invalid_transition", err)
	}
}

func TestProposalRecorded(t *testing.T) {
	svc, repo, v, tenderID := setup(t, lifecycle.StatusActive)

	p, err := svc.AddProposal(context.Background(), officer, tenderID, ProposalInput{
		VendorID: v.ID.Hex(),
		Amount:   12000,
		Currency: "AED",
	})
	if err != nil {
		t.Fatalf("AddProposal: %v", err)
	}
	if p.SubmittedBy != officer.ID {
		t.Errorf("submitted_by = %q, want %q", p.SubmittedBy, officer.ID)
	}
	if _, ok := repo.proposals[p.ID.Hex()]; !ok {
		t.Error("proposal not persisted")
	}
}

func TestProposalFromBlacklistedVendorRejected(t *testing.T) {
	svc, _, v, tenderID := setup(t, lifecycle.StatusActive)
	v.Status = lifecycle.StatusBlacklisted

	_, err := svc.AddProposal(context.Background(), officer, tenderID, ProposalInput{
		VendorID: v.ID.Hex(),
		Amount:   9000,
	})
	if !errs.Is(err, errs.KindValidation) {
		t.Errorf("proposal from blacklisted vendor = %v, want validation", err)
	}
}

func TestEvaluateProposal(t *testing.T) {
	svc, repo, v, tenderID := setup(t, lifecycle.StatusActive)
	p, err := svc.AddProposal(context.Background(), officer, tenderID, ProposalInput{
		VendorID: v.ID.Hex(),
		Amount:   12000,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Scores out of range are rejected.
	_, err = svc.EvaluateProposal(context.Background(), officer, tenderID, p.ID.Hex(), EvaluationInput{TechnicalScore: 120})
	if !errs.Is(err, errs.KindValidation) {
		t.Errorf("out-of-range score = %v, want validation", err)
	}

	got, err := svc.EvaluateProposal(context.Background(), officer, tenderID, p.ID.Hex(), EvaluationInput{
		TechnicalScore:  85,
		CommercialScore: 70,
		Recommended:     true,
	})
	if err != nil {
		t.Fatalf("EvaluateProposal: %v", err)
	}
	if got.Evaluation == nil || got.Evaluation.TechnicalScore != 85 || !got.Evaluation.Recommended {
		t.Errorf("evaluation = %+v", got.Evaluation)
	}
	if stored := repo.proposals[p.ID.Hex()]; stored.Evaluation == nil {
		t.Error("evaluation not persisted")
	}

	// Evaluation stays available after the tender closes.
	repo.tenders[tenderID].Status = lifecycle.StatusExpired
	if _, err := svc.EvaluateProposal(context.Background(), officer, tenderID, p.ID.Hex(), EvaluationInput{TechnicalScore: 60}); err != nil {
		t.Errorf("evaluation on expired tender: %v", err)
	}
}

func TestEvaluationRequiresVerifier(t *testing.T) {
	svc, _, v, tenderID := setup(t, lifecycle.StatusActive)
	p, err := svc.AddProposal(context.Background(), officer, tenderID, ProposalInput{
		VendorID: v.ID.Hex(),
		Amount:   12000,
	})
	if err != nil {
		t.Fatal(err)
	}

	requester := permissions.Actor{ID: "req-1", Role: permissions.RoleRequester}
	_, err = svc.EvaluateProposal(context.Background(), requester, tenderID, p.ID.Hex(), EvaluationInput{TechnicalScore: 50})
	if !errs.Is(err, errs.KindAuthorization) {
		t.Errorf("evaluation by requester = %v, want authorization", err)
	}
}
