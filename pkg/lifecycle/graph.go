package lifecycle

import (
	"sourcevia/internal/common/errs"
	"sourcevia/pkg/permissions"
)

// Edge is one allowed transition together with the weakest permission level
// that may request it.
type Edge struct {
	To       Status
	MinLevel permissions.Level
}

// Graph is the explicit adjacency table for one entity type. Transitions
// absent from the table are invalid for everyone, controller included.
type Graph map[Status][]Edge

// baseGraph is the shape shared by tenders, purchase orders, resources,
// assets and service requests: draft through approval to active, with
// needs_revision as the remediation state after a rejected approval round.
var baseGraph = Graph{
	StatusDraft: {
		{To: StatusPendingApproval, MinLevel: permissions.Requester},
	},
	StatusPendingApproval: {
		{To: StatusApproved, MinLevel: permissions.Approver},
		{To: StatusNeedsRevision, MinLevel: permissions.Approver},
		{To: StatusRejected, MinLevel: permissions.Approver},
	},
	StatusNeedsRevision: {
		{To: StatusPendingApproval, MinLevel: permissions.Requester},
		{To: StatusRejected, MinLevel: permissions.Verifier},
	},
	StatusApproved: {
		{To: StatusActive, MinLevel: permissions.Verifier},
	},
	StatusActive: {
		{To: StatusExpired, MinLevel: permissions.Verifier},
		{To: StatusTerminated, MinLevel: permissions.Approver},
	},
}

var graphs = map[EntityType]Graph{
	EntityVendor: {
		StatusDraft: {
			{To: StatusPendingDueDiligence, MinLevel: permissions.Requester},
			{To: StatusPendingApproval, MinLevel: permissions.Requester},
			// Low-risk vendors with a complete registration skip review.
			{To: StatusApproved, MinLevel: permissions.Requester},
		},
		StatusPendingDueDiligence: {
			{To: StatusPendingApproval, MinLevel: permissions.Verifier},
			{To: StatusApproved, MinLevel: permissions.Verifier},
			{To: StatusRejected, MinLevel: permissions.Verifier},
		},
		StatusPendingApproval: {
			{To: StatusApproved, MinLevel: permissions.Approver},
			{To: StatusNeedsRevision, MinLevel: permissions.Approver},
			{To: StatusRejected, MinLevel: permissions.Approver},
		},
		StatusNeedsRevision: {
			{To: StatusPendingApproval, MinLevel: permissions.Requester},
			{To: StatusRejected, MinLevel: permissions.Verifier},
		},
		StatusApproved: {
			{To: StatusActive, MinLevel: permissions.Verifier},
			{To: StatusBlacklisted, MinLevel: permissions.Approver},
		},
		StatusActive: {
			{To: StatusExpired, MinLevel: permissions.Verifier},
			{To: StatusTerminated, MinLevel: permissions.Approver},
			{To: StatusBlacklisted, MinLevel: permissions.Approver},
		},
	},
	EntityContract: {
		StatusDraft: {
			{To: StatusPendingDueDiligence, MinLevel: permissions.Requester},
			{To: StatusPendingApproval, MinLevel: permissions.Requester},
		},
		StatusPendingDueDiligence: {
			{To: StatusPendingApproval, MinLevel: permissions.Verifier},
			{To: StatusApproved, MinLevel: permissions.Verifier},
			{To: StatusRejected, MinLevel: permissions.Verifier},
		},
		StatusPendingApproval: {
			{To: StatusApproved, MinLevel: permissions.Approver},
			{To: StatusNeedsRevision, MinLevel: permissions.Approver},
			{To: StatusRejected, MinLevel: permissions.Approver},
		},
		StatusNeedsRevision: {
			{To: StatusPendingApproval, MinLevel: permissions.Requester},
			{To: StatusRejected, MinLevel: permissions.Verifier},
		},
		StatusApproved: {
			{To: StatusActive, MinLevel: permissions.Verifier},
		},
		StatusActive: {
			{To: StatusExpired, MinLevel: permissions.Verifier},
			{To: StatusTerminated, MinLevel: permissions.Approver},
		},
	},
	EntityInvoice: {
		StatusDraft: {
			{To: StatusPendingApproval, MinLevel: permissions.Requester},
		},
		StatusPendingApproval: {
			{To: StatusApproved, MinLevel: permissions.Approver},
			{To: StatusNeedsRevision, MinLevel: permissions.Approver},
			{To: StatusRejected, MinLevel: permissions.Approver},
		},
		StatusNeedsRevision: {
			{To: StatusPendingApproval, MinLevel: permissions.Requester},
			{To: StatusRejected, MinLevel: permissions.Verifier},
		},
		StatusApproved: {
			{To: StatusPaid, MinLevel: permissions.Verifier},
			{To: StatusTerminated, MinLevel: permissions.Approver},
		},
	},
	EntityTender:         baseGraph,
	EntityPurchaseOrder:  baseGraph,
	EntityResource:       baseGraph,
	EntityAsset:          baseGraph,
	EntityServiceRequest: baseGraph,
}

// GraphFor returns the transition table for an entity type.
func GraphFor(t EntityType) (Graph, bool) {
	g, ok := graphs[t]
	return g, ok
}

// ValidStatus reports whether s appears anywhere in the type's graph.
func ValidStatus(t EntityType, s Status) bool {
	g, ok := graphs[t]
	if !ok {
		return false
	}
	if _, ok := g[s]; ok {
		return true
	}
	for _, edges := range g {
		for _, e := range edges {
			if e.To == s {
				return true
			}
		}
	}
	return false
}

// Check validates a requested transition for an actor. The graph is
// consulted first so an impossible transition is reported as such even when
// the actor also lacks permission; authorization failures remain a distinct
// kind so callers can tell "not allowed at all" from "not allowed now".
func Check(eval *permissions.Evaluator, actor permissions.Actor, t EntityType, from, to Status) error {
	g, ok := graphs[t]
	if !ok {
		return errs.Configuration("no lifecycle graph registered for entity type %q", t)
	}
	var edge *Edge
	for i, e := range g[from] {
		if e.To == to {
			edge = &g[from][i]
			break
		}
	}
	if edge == nil {
		return errs.InvalidTransition("%s cannot move from %q to %q", t, from, to)
	}
	if !eval.HasAtLeast(actor.Role, t.Module(), edge.MinLevel) {
		return errs.Authorization("role %q needs %s on %s to move a %s from %q to %q",
			actor.Role, edge.MinLevel, t.Module(), t, from, to)
	}
	return nil
}
