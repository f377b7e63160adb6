package approval

import (
	"context"
	"fmt"
	"time"

	"sourcevia/internal/common/errs"
	"sourcevia/internal/features/audit"
	"sourcevia/internal/features/notification"
	"sourcevia/internal/features/user"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserDirectory is the slice of the user feature the orchestrator needs:
// resolving an id to its role so assignees can be vetted against the
// matrix. user.UserRepository satisfies it.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

type ApprovalService interface {
	AssignApprovers(ctx context.Context, actor permissions.Actor, entityType lifecycle.EntityType, entityID string, approverIDs []string, comment string) (*Assignment, error)
	RecordDecision(ctx context.Context, actor permissions.Actor, entityType lifecycle.EntityType, entityID string, decision Decision, comment string) (*Assignment, error)
	ListPending(ctx context.Context, actor permissions.Actor) ([]Assignment, error)
}

type ApprovalServiceImpl struct {
	Repo          ApprovalRepository
	Users         UserDirectory
	Eval          *permissions.Evaluator
	AuditService  audit.AuditService
	Notifications notification.NotificationService
	gateways      map[lifecycle.EntityType]Gateway
}

func NewApprovalService(
	repo ApprovalRepository,
	users UserDirectory,
	eval *permissions.Evaluator,
	auditService audit.AuditService,
	notifications notification.NotificationService,
	gateways []Gateway,
) ApprovalService {
	byType := make(map[lifecycle.EntityType]Gateway, len(gateways))
	for _, gw := range gateways {
		byType[gw.EntityType()] = gw
	}
	return &ApprovalServiceImpl{
		Repo:          repo,
		Users:         users,
		Eval:          eval,
		AuditService:  auditService,
		Notifications: notifications,
		gateways:      byType,
	}
}

func (s *ApprovalServiceImpl) gateway(entityType lifecycle.EntityType) (Gateway, error) {
	gw, ok := s.gateways[entityType]
	if !ok {
		return nil, errs.Configuration("no approval gateway registered for %q", entityType)
	}
	return gw, nil
}

func (s *ApprovalServiceImpl) AssignApprovers(ctx context.Context, actor permissions.Actor, entityType lifecycle.EntityType, entityID string, approverIDs []string, comment string) (*Assignment, error) {
	gw, err := s.gateway(entityType)
	if err != nil {
		return nil, err
	}
	module := entityType.Module()

	if !s.Eval.CanVerify(actor.Role, module) {
		return nil, errs.Authorization("role %q may not assign approvers on %s", actor.Role, module)
	}

	seen := map[string]bool{}
	unique := make([]string, 0, len(approverIDs))
	for _, id := range approverIDs {
		if id != "" && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return nil, errs.Validation("at least one approver is required")
	}

	info, err := gw.Describe(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if info.Status != lifecycle.StatusPendingApproval {
		return nil, errs.InvalidTransition("%s %s is %q; approvers can only be assigned while pending_approval",
			entityType, info.Number, info.Status)
	}

	existing, err := s.Repo.FindOpenByEntity(ctx, string(entityType), entityID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Conflict("%s %s already has an open approval round", entityType, info.Number)
	}

	// Assigning an actor without approval rights is an error, never a
	// silent accept.
	decisions := make([]ApproverDecision, 0, len(unique))
	for _, id := range unique {
		usr, err := s.Users.FindByID(ctx, id)
		if err != nil {
			return nil, errs.Validation("approver %s not found", id)
		}
		if !s.Eval.CanApprove(usr.Role, module) {
			return nil, errs.Validation("user %s (role %s) lacks approval permission on %s", usr.Username, usr.Role, module)
		}
		decisions = append(decisions, ApproverDecision{ApproverID: id, Decision: DecisionPending})
	}

	now := time.Now()
	assignment := Assignment{
		ID:           primitive.NewObjectID(),
		EntityType:   entityType,
		Module:       module,
		EntityID:     entityID,
		EntityNumber: info.Number,
		RequesterID:  info.CreatedBy,
		AssignedBy:   actor.ID,
		Comment:      comment,
		Decisions:    decisions,
		Status:       DecisionPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, assignment); err != nil {
		return nil, err
	}

	_ = s.AuditService.Record(ctx, audit.Log{
		Action:       audit.ActionAssignApprovers,
		Module:       module,
		EntityID:     entityID,
		EntityNumber: info.Number,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Comment:      comment,
	})
	for _, id := range unique {
		s.Notifications.Notify(ctx, id, notification.NotificationTypeApproval,
			"Approval requested",
			fmt.Sprintf("%s %s is awaiting your approval", entityType, info.Number),
			fmt.Sprintf("/%s/%s", module, entityID))
	}

	return &assignment, nil
}

func (s *ApprovalServiceImpl) RecordDecision(ctx context.Context, actor permissions.Actor, entityType lifecycle.EntityType, entityID string, decision Decision, comment string) (*Assignment, error) {
	if decision != DecisionApproved && decision != DecisionRejected {
		return nil, errs.Validation("decision must be approved or rejected")
	}
	gw, err := s.gateway(entityType)
	if err != nil {
		return nil, err
	}
	module := entityType.Module()

	assignment, err := s.Repo.FindOpenByEntity(ctx, string(entityType), entityID)
	if err != nil {
		return nil, err
	}

	// The controller path bypasses the multi-approver gate entirely,
	// whether or not a round is open.
	if s.Eval.IsController(actor.Role, module) && (assignment == nil || assignment.decisionFor(actor.ID) == nil) {
		return s.override(ctx, actor, gw, module, entityType, entityID, assignment, decision, comment)
	}

	if assignment == nil {
		return nil, errs.NotFound("%s %s has no open approval round", entityType, entityID)
	}

	d := assignment.decisionFor(actor.ID)
	if d == nil {
		return nil, errs.Authorization("user %s is not an assigned approver for %s %s", actor.ID, entityType, assignment.EntityNumber)
	}
	if d.Decision != DecisionPending {
		return nil, errs.Conflict("approver %s already decided %s", actor.ID, d.Decision)
	}

	now := time.Now()
	d.Decision = decision
	d.Comment = comment
	d.DecidedAt = &now
	assignment.UpdatedAt = now

	action := audit.ActionApprove
	switch {
	case decision == DecisionRejected:
		// One reject halts the round regardless of the other approvers.
		action = audit.ActionReject
		assignment.Status = DecisionRejected
		if err := s.Repo.ReplaceOpen(ctx, *assignment); err != nil {
			return nil, err
		}
		if err := gw.ApplyOutcome(ctx, entityID, false, actor, comment); err != nil {
			return nil, err
		}
		s.notifyRequester(ctx, assignment, false, comment)

	case assignment.allApproved():
		assignment.Status = DecisionApproved
		if err := s.Repo.ReplaceOpen(ctx, *assignment); err != nil {
			return nil, err
		}
		if err := gw.ApplyOutcome(ctx, entityID, true, actor, comment); err != nil {
			return nil, err
		}
		s.notifyRequester(ctx, assignment, true, comment)

	default:
		// Still awaiting the remaining approvers.
		if err := s.Repo.ReplaceOpen(ctx, *assignment); err != nil {
			return nil, err
		}
	}

	_ = s.AuditService.Record(ctx, audit.Log{
		Action:       action,
		Module:       module,
		EntityID:     entityID,
		EntityNumber: assignment.EntityNumber,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Comment:      comment,
	})

	return assignment, nil
}

func (s *ApprovalServiceImpl) override(ctx context.Context, actor permissions.Actor, gw Gateway, module permissions.Module, entityType lifecycle.EntityType, entityID string, open *Assignment, decision Decision, comment string) (*Assignment, error) {
	info, err := gw.Describe(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if info.Status != lifecycle.StatusPendingApproval {
		return nil, errs.InvalidTransition("%s %s is %q, not pending_approval", entityType, info.Number, info.Status)
	}

	now := time.Now()
	if open != nil {
		open.Status = decision
		open.Overridden = true
		open.OverriddenBy = actor.ID
		open.UpdatedAt = now
		if err := s.Repo.ReplaceOpen(ctx, *open); err != nil {
			return nil, err
		}
	} else {
		open = &Assignment{
			ID:           primitive.NewObjectID(),
			EntityType:   entityType,
			Module:       module,
			EntityID:     entityID,
			EntityNumber: info.Number,
			RequesterID:  info.CreatedBy,
			AssignedBy:   actor.ID,
			Decisions: []ApproverDecision{{
				ApproverID: actor.ID,
				Decision:   decision,
				Comment:    comment,
				DecidedAt:  &now,
			}},
			Status:       decision,
			Overridden:   true,
			OverriddenBy: actor.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.Repo.Create(ctx, *open); err != nil {
			return nil, err
		}
	}

	if err := gw.ApplyOutcome(ctx, entityID, decision == DecisionApproved, actor, comment); err != nil {
		return nil, err
	}

	_ = s.AuditService.Record(ctx, audit.Log{
		Action:       audit.ActionOverride,
		Module:       module,
		EntityID:     entityID,
		EntityNumber: info.Number,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Comment:      comment,
	})
	s.notifyRequester(ctx, open, decision == DecisionApproved, comment)

	return open, nil
}

func (s *ApprovalServiceImpl) notifyRequester(ctx context.Context, assignment *Assignment, approved bool, comment string) {
	title := fmt.Sprintf("%s approved", assignment.EntityNumber)
	message := fmt.Sprintf("%s %s has been approved", assignment.EntityType, assignment.EntityNumber)
	if !approved {
		title = fmt.Sprintf("%s sent back for revision", assignment.EntityNumber)
		message = fmt.Sprintf("%s %s was rejected", assignment.EntityType, assignment.EntityNumber)
		if comment != "" {
			message += ": " + comment
		}
	}
	s.Notifications.Notify(ctx, assignment.RequesterID, notification.NotificationTypeDecision,
		title, message, fmt.Sprintf("/%s/%s", assignment.Module, assignment.EntityID))
}

func (s *ApprovalServiceImpl) ListPending(ctx context.Context, actor permissions.Actor) ([]Assignment, error) {
	return s.Repo.ListPendingForApprover(ctx, actor.ID)
}
