package tender

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sourcevia/internal/common/errs"
	"sourcevia/internal/common/models"
	"sourcevia/internal/database"
	"sourcevia/internal/features/audit"
	"sourcevia/internal/features/notification"
	"sourcevia/internal/features/vendor"
	"sourcevia/pkg/filter"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type VendorDirectory interface {
	Get(ctx context.Context, id string) (*vendor.Vendor, error)
}

type TenderInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Budget      float64    `json:"budget"`
	Currency    string     `json:"currency"`
	Deadline    *time.Time `json:"deadline"`
}

type ProposalInput struct {
	VendorID  string   `json:"vendor_id"`
	Amount    float64  `json:"amount"`
	Currency  string   `json:"currency"`
	Notes     string   `json:"notes"`
	Documents []string `json:"documents"`
}

type EvaluationInput struct {
	TechnicalScore  int    `json:"technical_score"`
	CommercialScore int    `json:"commercial_score"`
	Comments        string `json:"comments"`
	Recommended     bool   `json:"recommended"`
}

type TenderService interface {
	Create(ctx context.Context, actor permissions.Actor, input TenderInput) (*Tender, error)
	Get(ctx context.Context, id string) (*Tender, error)
	Search(ctx context.Context, req models.SearchRequest) ([]Tender, int64, error)
	Update(ctx context.Context, actor permissions.Actor, id string, input TenderInput) (*Tender, error)
	Transition(ctx context.Context, actor permissions.Actor, id string, to lifecycle.Status, comment string) (*Tender, error)
	AddProposal(ctx context.Context, actor permissions.Actor, tenderID string, input ProposalInput) (*Proposal, error)
	ListProposals(ctx context.Context, tenderID string) ([]Proposal, error)
	EvaluateProposal(ctx context.Context, actor permissions.Actor, tenderID, proposalID string, input EvaluationInput) (*Proposal, error)
}

type TenderServiceImpl struct {
	Repo          TenderRepository
	Vendors       VendorDirectory
	Counters      database.NumberSource
	Eval          *permissions.Evaluator
	AuditService  audit.AuditService
	Notifications notification.NotificationService
}

func NewTenderService(
	repo TenderRepository,
	vendors VendorDirectory,
	counters database.NumberSource,
	eval *permissions.Evaluator,
	auditService audit.AuditService,
	notifications notification.NotificationService,
) TenderService {
	return &TenderServiceImpl{
		Repo:          repo,
		Vendors:       vendors,
		Counters:      counters,
		Eval:          eval,
		AuditService:  auditService,
		Notifications: notifications,
	}
}

func (s *TenderServiceImpl) find(ctx context.Context, id string) (*Tender, error) {
	tender, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
			return nil, errs.NotFound("tender %s not found", id)
		}
		return nil, err
	}
	return tender, nil
}

func (s *TenderServiceImpl) Create(ctx context.Context, actor permissions.Actor, input TenderInput) (*Tender, error) {
	if !s.Eval.CanCreate(actor.Role, permissions.ModuleTenders) {
		return nil, errs.Authorization("role %q may not create tenders", actor.Role)
	}
	if input.Title == "" {
		return nil, errs.Validation("tender title is required")
	}

	number, err := s.Counters.NextNumber(ctx, lifecycle.EntityTender.Prefix(), time.Now())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tender := &Tender{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Budget:      input.Budget,
		Currency:    input.Currency,
		Deadline:    input.Deadline,
	}
	tender.ID = primitive.NewObjectID()
	tender.Number = number
	tender.Status = lifecycle.StatusDraft
	tender.CreatedBy = actor.ID
	tender.CreatedAt = now
	tender.UpdatedAt = now

	if err := s.Repo.Create(ctx, tender); err != nil {
		return nil, err
	}

	_ = s.AuditService.Record(ctx, audit.Log{
		Action:       audit.ActionCreate,
		Module:       permissions.ModuleTenders,
		EntityID:     tender.ID.Hex(),
		EntityNumber: tender.Number,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
	})
	return tender, nil
}

func (s *TenderServiceImpl) Get(ctx context.Context, id string) (*Tender, error) {
	return s.find(ctx, id)
}

func (s *TenderServiceImpl) Search(ctx context.Context, req models.SearchRequest) ([]Tender, int64, error) {
	req.Normalize()
	query, err := filter.Compile(req.Filters)
	if err != nil {
		return nil, 0, err
	}
	return s.Repo.Search(ctx, query, req.Page, req.Limit)
}

func (s *TenderServiceImpl) Update(ctx context.Context, actor permissions.Actor, id string, input TenderInput) (*Tender, error) {
	if !s.Eval.CanEdit(actor.Role, permissions.ModuleTenders) {
		return nil, errs.Authorization("role %q may not edit tenders", actor.Role)
	}
	tender, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if lifecycle.Terminal(tender.Status) {
		return nil, errs.InvalidTransition("tender %s is %s and read-only", tender.Number, tender.Status)
	}

	changes := map[string]models.Change{}
	apply := func(field string, old, new interface{}, set func()) {
		if fmt.Sprint(old) != fmt.Sprint(new) {
			changes[field] = models.Change{Old: old, New: new}
			set()
		}
	}
	if input.Title != "" {
		apply("title", tender.Title, input.Title, func() { tender.Title = input.Title })
	}
	apply("description", tender.Description, input.Description, func() { tender.Description = input.Description })
	apply("category", tender.Category, input.Category, func() { tender.Category = input.Category })
	apply("budget", tender.Budget, input.Budget, func() { tender.Budget = input.Budget })
	apply("currency", tender.Currency, input.Currency, func() { tender.Currency = input.Currency })
	apply("deadline", tender.Deadline, input.Deadline, func() { tender.Deadline = input.Deadline })

	if len(changes) == 0 {
		return tender, nil
	}

	tender.UpdatedAt = time.Now()
	if err := s.Repo.UpdateFields(ctx, tender.ID, bson.M{
		"title":       tender.Title,
		"description": tender.Description,
		"category":    tender.Category,
		"budget":      tender.Budget,
		"currency":    tender.Currency,
		"deadline":    tender.Deadline,
		"updated_at":  tender.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	_ = s.AuditService.RecordChange(ctx, actor, audit.ActionUpdate, permissions.ModuleTenders, tender.ID.Hex(), tender.Number, changes)
	return tender, nil
}

func (s *TenderServiceImpl) Transition(ctx context.Context, actor permissions.Actor, id string, to lifecycle.Status, comment string) (*Tender, error) {
	if !lifecycle.ValidStatus(lifecycle.EntityTender, to) {
		return nil, errs.Validation("unknown tender status %q", to)
	}
	tender, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	from := tender.Status

	if err := lifecycle.Check(s.Eval, actor, lifecycle.EntityTender, from, to); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateStatus(ctx, tender.ID, from, to, nil); err != nil {
		return nil, err
	}
	tender.Status = to
	tender.UpdatedAt = time.Now()

	_ = s.AuditService.RecordTransition(ctx, actor, permissions.ModuleTenders, tender.ID.Hex(), tender.Number, from, to, comment)
	return tender, nil
}

func (s *TenderServiceImpl) AddProposal(ctx context.Context, actor permissions.Actor, tenderID string, input ProposalInput) (*Proposal, error) {
	if !s.Eval.CanVerify(actor.Role, permissions.ModuleTenderProposals) {
		return nil, errs.Authorization("role %q may not record tender proposals", actor.Role)
	}
	tender, err := s.find(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	if tender.Status != lifecycle.StatusActive {
		return nil, errs.InvalidTransition("tender %s is %q; proposals are accepted only while active", tender.Number, tender.Status)
	}
	if input.VendorID == "" {
		return nil, errs.Validation("proposal vendor is required")
	}
	if input.Amount <= 0 {
		return nil, errs.Validation("proposal amount must be positive")
	}

	v, err := s.Vendors.Get(ctx, input.VendorID)
	if err != nil {
		return nil, err
	}
	if v.Status == lifecycle.StatusBlacklisted {
		return nil, errs.Validation("vendor %s is blacklisted", v.Number)
	}

	proposal := &Proposal{
		ID:          primitive.NewObjectID(),
		TenderID:    tenderID,
		VendorID:    input.VendorID,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Notes:       input.Notes,
		Documents:   input.Documents,
		SubmittedBy: actor.ID,
		SubmittedAt: time.Now(),
	}
	if err := s.Repo.CreateProposal(ctx, proposal); err != nil {
		return nil, err
	}

	_ = s.AuditService.Record(ctx, audit.Log{
		Action:       audit.ActionCreate,
		Module:       permissions.ModuleTenderProposals,
		EntityID:     proposal.ID.Hex(),
		EntityNumber: tender.Number,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Comment:      fmt.Sprintf("proposal from vendor %s", v.Number),
	})
	return proposal, nil
}

func (s *TenderServiceImpl) ListProposals(ctx context.Context, tenderID string) ([]Proposal, error) {
	if _, err := s.find(ctx, tenderID); err != nil {
		return nil, err
	}
	return s.Repo.ListProposals(ctx, tenderID)
}

func (s *TenderServiceImpl) EvaluateProposal(ctx context.Context, actor permissions.Actor, tenderID, proposalID string, input EvaluationInput) (*Proposal, error) {
	if !s.Eval.CanVerify(actor.Role, permissions.ModuleTenderEvaluation) {
		return nil, errs.Authorization("role %q may not evaluate proposals", actor.Role)
	}
	tender, err := s.find(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	// Evaluation happens while the tender runs or after it closes, never
	// before it opens.
	if tender.Status != lifecycle.StatusActive && tender.Status != lifecycle.StatusExpired {
		return nil, errs.InvalidTransition("tender %s is %q; proposals cannot be evaluated yet", tender.Number, tender.Status)
	}
	if input.TechnicalScore < 0 || input.TechnicalScore > 100 || input.CommercialScore < 0 || input.CommercialScore > 100 {
		return nil, errs.Validation("scores must be between 0 and 100")
	}

	proposal, err := s.Repo.FindProposal(ctx, tenderID, proposalID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
			return nil, errs.NotFound("proposal %s not found on tender %s", proposalID, tender.Number)
		}
		return nil, err
	}

	eval := &Evaluation{
		TechnicalScore:  input.TechnicalScore,
		CommercialScore: input.CommercialScore,
		Comments:        input.Comments,
		Recommended:     input.Recommended,
		EvaluatedBy:     actor.ID,
		EvaluatedAt:     time.Now(),
	}
	if err := s.Repo.SaveEvaluation(ctx, proposal.ID, eval); err != nil {
		return nil, err
	}
	proposal.Evaluation = eval

	_ = s.AuditService.Record(ctx, audit.Log{
		Action:       audit.ActionUpdate,
		Module:       permissions.ModuleTenderEvaluation,
		EntityID:     proposal.ID.Hex(),
		EntityNumber: tender.Number,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Comment:      fmt.Sprintf("technical %d, commercial %d", input.TechnicalScore, input.CommercialScore),
	})
	return proposal, nil
}
