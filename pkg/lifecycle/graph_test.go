package lifecycle

import (
	"testing"

	"sourcevia/internal/common/errs"
	"sourcevia/pkg/permissions"
)

func TestGraphClosure(t *testing.T) {
	// Transitions outside the adjacency table fail for everyone, including
	// a controller-level actor.
	eval := permissions.NewEvaluator(permissions.Default)
	admin := permissions.Actor{ID: "a1", Role: permissions.RoleAdmin}

	tests := []struct {
		name string
		typ  EntityType
		from Status
		to   Status
	}{
		{"vendor draft skips approval", EntityVendor, StatusDraft, StatusActive},
		{"tender draft straight to approved", EntityTender, StatusDraft, StatusApproved},
		{"contract reactivates from terminated", EntityContract, StatusTerminated, StatusActive},
		{"invoice paid is terminal", EntityInvoice, StatusPaid, StatusDraft},
		{"vendor resurrects from blacklist", EntityVendor, StatusBlacklisted, StatusActive},
		{"po rejected is terminal", EntityPurchaseOrder, StatusRejected, StatusPendingApproval},
		{"invoice has no active state", EntityInvoice, StatusApproved, StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(eval, admin, tt.typ, tt.from, tt.to)
			if !errs.Is(err, errs.KindInvalidTransition) {
				t.Errorf("Check(%s, %s -> %s) = %v, want invalid_transition", tt.typ, tt.from, tt.to, err)
			}
		})
	}
}

func TestCheckDistinguishesAuthorizationFromGraph(t *testing.T) {
	eval := permissions.NewEvaluator(permissions.Default)
	requester := permissions.Actor{ID: "u1", Role: permissions.RoleRequester}

	// Valid edge, insufficient level: requester cannot approve a tender.
	err := Check(eval, requester, EntityTender, StatusPendingApproval, StatusApproved)
	if !errs.Is(err, errs.KindAuthorization) {
		t.Errorf("underprivileged valid transition = %v, want authorization", err)
	}

	// Invalid edge reported as such even when the actor also lacks rights.
	err = Check(eval, requester, EntityTender, StatusDraft, StatusActive)
	if !errs.Is(err, errs.KindInvalidTransition) {
		t.Errorf("invalid transition = %v, want invalid_transition", err)
	}

	// Valid edge, sufficient level.
	if err := Check(eval, requester, EntityTender, StatusDraft, StatusPendingApproval); err != nil {
		t.Errorf("requester submitting own tender = %v, want nil", err)
	}
}

func TestTerminalStatusesHaveNoOutgoingEdges(t *testing.T) {
	for _, typ := range EntityTypes {
		g, ok := GraphFor(typ)
		if !ok {
			t.Fatalf("no graph for %s", typ)
		}
		for from, edges := range g {
			if Terminal(from) && len(edges) > 0 {
				t.Errorf("%s: terminal status %q has outgoing edges", typ, from)
			}
			for _, e := range edges {
				if e.MinLevel < permissions.Requester {
					t.Errorf("%s: edge %q -> %q gated below requester", typ, from, e.To)
				}
			}
		}
	}
}

func TestValidStatus(t *testing.T) {
	tests := []struct {
		typ    EntityType
		status Status
		want   bool
	}{
		{EntityVendor, StatusBlacklisted, true},
		{EntityTender, StatusBlacklisted, false},
		{EntityInvoice, StatusPaid, true},
		{EntityContract, StatusPaid, false},
		{EntityContract, StatusPendingDueDiligence, true},
		{EntityAsset, StatusPendingDueDiligence, false},
		{EntityVendor, Status("archived"), false},
	}

	for _, tt := range tests {
		if got := ValidStatus(tt.typ, tt.status); got != tt.want {
			t.Errorf("ValidStatus(%s, %s) = %v, want %v", tt.typ, tt.status, got, tt.want)
		}
	}
}

func TestEveryEntityTypeMapsToAModule(t *testing.T) {
	for _, typ := range EntityTypes {
		if typ.Module() == "" {
			t.Errorf("%s has no permission module", typ)
		}
		if typ.Prefix() == "" || typ.Prefix() == "REC" {
			t.Errorf("%s has no number prefix", typ)
		}
	}
}
