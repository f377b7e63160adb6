package dashboard

import (
	"context"

	"sourcevia/pkg/permissions"
)

type DashboardService interface {
	Summary(ctx context.Context, actor permissions.Actor) (*Summary, error)
}

type DashboardServiceImpl struct {
	Repo DashboardRepository
	Eval *permissions.Evaluator
}

func NewDashboardService(repo DashboardRepository, eval *permissions.Evaluator) DashboardService {
	return &DashboardServiceImpl{Repo: repo, Eval: eval}
}

// Summary returns status breakdowns for every module the actor can view.
// Modules the actor has no access to are left out rather than zeroed.
func (s *DashboardServiceImpl) Summary(ctx context.Context, actor permissions.Actor) (*Summary, error) {
	summary := &Summary{}

	for _, module := range permissions.Modules {
		if _, ok := moduleCollections[module]; !ok {
			continue
		}
		if !s.Eval.CanView(actor.Role, module) {
			continue
		}
		counts, err := s.Repo.CountByStatus(ctx, module)
		if err != nil {
			return nil, err
		}
		ms := ModuleSummary{Module: module, Counts: counts}
		for _, c := range counts {
			ms.Total += c.Count
		}
		summary.Modules = append(summary.Modules, ms)
	}

	if s.Eval.CanApprove(actor.Role, permissions.ModuleVendors) || s.Eval.IsController(actor.Role, permissions.ModuleVendors) {
		pending, err := s.Repo.CountPendingApprovals(ctx)
		if err != nil {
			return nil, err
		}
		summary.PendingApprovals = pending
	}
	return summary, nil
}
