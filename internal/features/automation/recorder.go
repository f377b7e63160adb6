package automation

import (
	"context"

	"sourcevia/internal/features/audit"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"
)

// TransitionListener reacts to a committed status change. Listener
// failures never propagate back to the entity services.
type TransitionListener interface {
	OnTransition(ctx context.Context, event TransitionEvent)
}

// TransitionRecorder wraps the audit service so every recorded status
// change also reaches the registered listeners. Entity services stay
// unaware of automation and export concerns.
type TransitionRecorder struct {
	audit.AuditService
	Listeners []TransitionListener
}

func NewTransitionRecorder(inner audit.AuditService, listeners []TransitionListener) audit.AuditService {
	return &TransitionRecorder{AuditService: inner, Listeners: listeners}
}

func (r *TransitionRecorder) RecordTransition(ctx context.Context, actor permissions.Actor, module permissions.Module, entityID, entityNumber string, from, to lifecycle.Status, comment string) error {
	err := r.AuditService.RecordTransition(ctx, actor, module, entityID, entityNumber, from, to, comment)

	event := TransitionEvent{
		Module:       module,
		EntityID:     entityID,
		EntityNumber: entityNumber,
		From:         from,
		To:           to,
		ActorID:      actor.ID,
	}
	for _, l := range r.Listeners {
		l.OnTransition(ctx, event)
	}
	return err
}

var _ audit.AuditService = (*TransitionRecorder)(nil)
