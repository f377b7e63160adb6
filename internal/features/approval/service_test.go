package approval

import (
	"context"
	"strings"
	"testing"

	"sourcevia/internal/common/errs"
	"sourcevia/internal/common/models"
	"sourcevia/internal/features/audit"
	"sourcevia/internal/features/notification"
	"sourcevia/internal/features/user"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRepo struct {
	open map[string]*Assignment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{open: map[string]*Assignment{}}
}

func key(entityType, entityID string) string { return entityType + "/" + entityID }

func (r *fakeRepo) Create(ctx context.Context, a Assignment) error {
	if a.Status == DecisionPending {
		copied := a
		r.open[key(string(a.EntityType), a.EntityID)] = &copied
	}
	return nil
}

func (r *fakeRepo) FindOpenByEntity(ctx context.Context, entityType, entityID string) (*Assignment, error) {
	a, ok := r.open[key(entityType, entityID)]
	if !ok {
		return nil, nil
	}
	copied := *a
	copied.Decisions = append([]ApproverDecision(nil), a.Decisions...)
	return &copied, nil
}

func (r *fakeRepo) ReplaceOpen(ctx context.Context, a Assignment) error {
	k := key(string(a.EntityType), a.EntityID)
	if _, ok := r.open[k]; !ok {
		return errs.Conflict("round already closed")
	}
	if a.Status != DecisionPending {
		delete(r.open, k)
		return nil
	}
	copied := a
	r.open[k] = &copied
	return nil
}

func (r *fakeRepo) ListPendingForApprover(ctx context.Context, approverID string) ([]Assignment, error) {
	var out []Assignment
	for _, a := range r.open {
		if d := a.decisionFor(approverID); d != nil && d.Decision == DecisionPending {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeUsers map[string]permissions.Role

func (f fakeUsers) FindByID(ctx context.Context, id string) (*user.User, error) {
	role, ok := f[id]
	if !ok {
		return nil, errs.NotFound("user %s not found", id)
	}
	return &user.User{ID: primitive.NewObjectID(), Username: id, Role: role}, nil
}

type outcome struct {
	entityID string
	approved bool
}

type fakeGateway struct {
	typ      lifecycle.EntityType
	statuses map[string]lifecycle.Status
	creator  string
	applied  []outcome
}

func (g *fakeGateway) EntityType() lifecycle.EntityType { return g.typ }

func (g *fakeGateway) Describe(ctx context.Context, entityID string) (EntityInfo, error) {
	status, ok := g.statuses[entityID]
	if !ok {
		return EntityInfo{}, errs.NotFound("entity %s not found", entityID)
	}
	return EntityInfo{Number: "Contract-26-0001", Status: status, CreatedBy: g.creator}, nil
}

func (g *fakeGateway) ApplyOutcome(ctx context.Context, entityID string, approved bool, actor permissions.Actor, comment string) error {
	g.applied = append(g.applied, outcome{entityID: entityID, approved: approved})
	if approved {
		g.statuses[entityID] = lifecycle.StatusApproved
	} else {
		g.statuses[entityID] = lifecycle.StatusNeedsRevision
	}
	return nil
}

type fakeAudit struct {
	logs []audit.Log
}

func (f *fakeAudit) Record(ctx context.Context, entry audit.Log) error {
	f.logs = append(f.logs, entry)
	return nil
}

func (f *fakeAudit) RecordTransition(ctx context.Context, actor permissions.Actor, module permissions.Module, entityID, entityNumber string, from, to lifecycle.Status, comment string) error {
	return f.Record(ctx, audit.Log{Action: audit.ActionTransition, EntityID: entityID})
}

func (f *fakeAudit) RecordChange(ctx context.Context, actor permissions.Actor, action audit.Action, module permissions.Module, entityID, entityNumber string, changes map[string]models.Change) error {
	return f.Record(ctx, audit.Log{Action: action, EntityID: entityID})
}

func (f *fakeAudit) ListLogs(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]audit.Log, error) {
	return f.logs, nil
}

type fakeNotifier struct {
	sent []notification.Notification
}

func (f *fakeNotifier) Notify(ctx context.Context, userID string, typ notification.NotificationType, title, message, link string) {
	f.sent = append(f.sent, notification.Notification{UserID: userID, Type: typ, Title: title, Message: message})
}

func (f *fakeNotifier) ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]notification.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkRead(ctx context.Context, id, userID string) error { return nil }

type fixture struct {
	svc      ApprovalService
	repo     *fakeRepo
	gateway  *fakeGateway
	audit    *fakeAudit
	notifier *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeRepo()
	gateway := &fakeGateway{
		typ:      lifecycle.EntityContract,
		statuses: map[string]lifecycle.Status{"c1": lifecycle.StatusPendingApproval},
		creator:  "req-1",
	}
	auditSvc := &fakeAudit{}
	notifier := &fakeNotifier{}
	users := fakeUsers{
		"officer-1": permissions.RoleProcurementOfficer,
		"sm-1":      permissions.RoleSeniorManager,
		"sm-2":      permissions.RoleSeniorManager,
		"sm-3":      permissions.RoleSeniorManager,
		"req-1":     permissions.RoleRequester,
		"admin-1":   permissions.RoleAdmin,
	}
	svc := NewApprovalService(repo, users, permissions.NewEvaluator(permissions.Default), auditSvc, notifier, []Gateway{gateway})
	return &fixture{svc: svc, repo: repo, gateway: gateway, audit: auditSvc, notifier: notifier}
}

var (
	officer = permissions.Actor{ID: "officer-1", Role: permissions.RoleProcurementOfficer}
	smA     = permissions.Actor{ID: "sm-1", Role: permissions.RoleSeniorManager}
	smB     = permissions.Actor{ID: "sm-2", Role: permissions.RoleSeniorManager}
	smC     = permissions.Actor{ID: "sm-3", Role: permissions.RoleSeniorManager}
	admin   = permissions.Actor{ID: "admin-1", Role: permissions.RoleAdmin}
)

func assign(t *testing.T, f *fixture, approvers ...string) {
	t.Helper()
	if _, err := f.svc.AssignApprovers(context.Background(), officer, lifecycle.EntityContract, "c1", approvers, "please review"); err != nil {
		t.Fatalf("AssignApprovers: %v", err)
	}
}

func TestAllApproversRequired(t *testing.T) {
	f := newFixture(t)
	assign(t, f, "sm-1", "sm-2", "sm-3")

	for _, actor := range []permissions.Actor{smA, smB} {
		a, err := f.svc.RecordDecision(context.Background(), actor, lifecycle.EntityContract, "c1", DecisionApproved, "")
		if err != nil {
			t.Fatalf("RecordDecision(%s): %v", actor.ID, err)
		}
		if a.Status != DecisionPending {
			t.Fatalf("round closed after %s, want still pending", actor.ID)
		}
	}
	if len(f.gateway.applied) != 0 {
		t.Fatalf("entity advanced with a pending approver: %+v", f.gateway.applied)
	}

	a, err := f.svc.RecordDecision(context.Background(), smC, lifecycle.EntityContract, "c1", DecisionApproved, "")
	if err != nil {
		t.Fatalf("RecordDecision(final): %v", err)
	}
	if a.Status != DecisionApproved {
		t.Errorf("round status = %s, want approved", a.Status)
	}
	if len(f.gateway.applied) != 1 || !f.gateway.applied[0].approved {
		t.Errorf("outcome = %+v, want single approve", f.gateway.applied)
	}
	// Requester hears about the outcome.
	found := false
	for _, n := range f.notifier.sent {
		if n.UserID == "req-1" && n.Type == notification.NotificationTypeDecision {
			found = true
		}
	}
	if !found {
		t.Error("requester was not notified of approval")
	}
}

func TestSingleRejectHalts(t *testing.T) {
	f := newFixture(t)
	assign(t, f, "sm-1", "sm-2", "sm-3")

	if _, err := f.svc.RecordDecision(context.Background(), smA, lifecycle.EntityContract, "c1", DecisionApproved, ""); err != nil {
		t.Fatal(err)
	}
	a, err := f.svc.RecordDecision(context.Background(), smB, lifecycle.EntityContract, "c1", DecisionRejected, "missing insurance certificate")
	if err != nil {
		t.Fatalf("RecordDecision(reject): %v", err)
	}
	if a.Status != DecisionRejected {
		t.Errorf("round status = %s, want rejected", a.Status)
	}
	if len(f.gateway.applied) != 1 || f.gateway.applied[0].approved {
		t.Fatalf("outcome = %+v, want single reject", f.gateway.applied)
	}
	if f.gateway.statuses["c1"] != lifecycle.StatusNeedsRevision {
		t.Errorf("entity status = %s, want needs_revision", f.gateway.statuses["c1"])
	}

	// The rejecting comment reaches the requester.
	found := false
	for _, n := range f.notifier.sent {
		if n.UserID == "req-1" && n.Type == notification.NotificationTypeDecision {
			found = true
			if want := "missing insurance certificate"; !strings.Contains(n.Message, want) {
				t.Errorf("requester notification %q does not carry the comment", n.Message)
			}
		}
	}
	if !found {
		t.Error("requester was not notified of rejection")
	}

	// The third approver can no longer decide on a closed round.
	if _, err := f.svc.RecordDecision(context.Background(), smC, lifecycle.EntityContract, "c1", DecisionApproved, ""); !errs.Is(err, errs.KindNotFound) {
		t.Errorf("decision on closed round = %v, want not_found", err)
	}
}

func TestAssignValidation(t *testing.T) {
	tests := []struct {
		name      string
		actor     permissions.Actor
		entityID  string
		approvers []string
		prepare   func(f *fixture)
		wantKind  errs.Kind
	}{
		{
			name:      "requester cannot assign",
			actor:     permissions.Actor{ID: "req-1", Role: permissions.RoleRequester},
			entityID:  "c1",
			approvers: []string{"sm-1"},
			wantKind:  errs.KindAuthorization,
		},
		{
			name:      "empty approver set",
			actor:     officer,
			entityID:  "c1",
			approvers: nil,
			wantKind:  errs.KindValidation,
		},
		{
			name:      "assignee lacks approver permission",
			actor:     officer,
			entityID:  "c1",
			approvers: []string{"req-1"},
			wantKind:  errs.KindValidation,
		},
		{
			name:      "unknown assignee",
			actor:     officer,
			entityID:  "c1",
			approvers: []string{"ghost"},
			wantKind:  errs.KindValidation,
		},
		{
			name:      "entity not pending approval",
			actor:     officer,
			entityID:  "c1",
			approvers: []string{"sm-1"},
			prepare: func(f *fixture) {
				f.gateway.statuses["c1"] = lifecycle.StatusDraft
			},
			wantKind: errs.KindInvalidTransition,
		},
		{
			name:      "second open round",
			actor:     officer,
			entityID:  "c1",
			approvers: []string{"sm-2"},
			prepare: func(f *fixture) {
				assign(t, f, "sm-1")
			},
			wantKind: errs.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.prepare != nil {
				tt.prepare(f)
			}
			_, err := f.svc.AssignApprovers(context.Background(), tt.actor, lifecycle.EntityContract, tt.entityID, tt.approvers, "")
			if !errs.Is(err, tt.wantKind) {
				t.Errorf("AssignApprovers() = %v, want kind %s", err, tt.wantKind)
			}
		})
	}
}

func TestControllerOverrideBypassesGate(t *testing.T) {
	f := newFixture(t)
	assign(t, f, "sm-1", "sm-2", "sm-3")

	a, err := f.svc.RecordDecision(context.Background(), admin, lifecycle.EntityContract, "c1", DecisionApproved, "escalated")
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	if !a.Overridden || a.OverriddenBy != "admin-1" {
		t.Errorf("assignment not marked overridden: %+v", a)
	}
	if len(f.gateway.applied) != 1 || !f.gateway.applied[0].approved {
		t.Errorf("outcome = %+v, want approve", f.gateway.applied)
	}
}

func TestControllerOverrideWithoutOpenRound(t *testing.T) {
	f := newFixture(t)

	a, err := f.svc.RecordDecision(context.Background(), admin, lifecycle.EntityContract, "c1", DecisionRejected, "supplier in dispute")
	if err != nil {
		t.Fatalf("override without round: %v", err)
	}
	if !a.Overridden || a.Status != DecisionRejected {
		t.Errorf("assignment = %+v, want overridden reject", a)
	}
	if f.gateway.statuses["c1"] != lifecycle.StatusNeedsRevision {
		t.Errorf("entity status = %s, want needs_revision", f.gateway.statuses["c1"])
	}
}

func TestUnassignedApproverDenied(t *testing.T) {
	f := newFixture(t)
	assign(t, f, "sm-1")

	_, err := f.svc.RecordDecision(context.Background(), smB, lifecycle.EntityContract, "c1", DecisionApproved, "")
	if !errs.Is(err, errs.KindAuthorization) {
		t.Errorf("unassigned approver decision = %v, want authorization", err)
	}
}

func TestDoubleDecisionConflicts(t *testing.T) {
	f := newFixture(t)
	assign(t, f, "sm-1", "sm-2")

	if _, err := f.svc.RecordDecision(context.Background(), smA, lifecycle.EntityContract, "c1", DecisionApproved, ""); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.RecordDecision(context.Background(), smA, lifecycle.EntityContract, "c1", DecisionApproved, "")
	if !errs.Is(err, errs.KindConflict) {
		t.Errorf("second decision = %v, want conflict", err)
	}
}
