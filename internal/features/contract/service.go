package contract

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

// VendorDirectory is the slice of the vendor feature this package needs.
// vendor.VendorService satisfies it.
type VendorDirectory interface {
	Get(ctx context.Context, id string) (*vendor.Vendor, error)
}

type ContractInput struct {
	Title          string         `json:"title"`
	VendorID       string         `json:"vendor_id"`
	TenderID       string         `json:"tender_id"`
	Classification Classification `json:"classification"`
	Value          float64        `json:"value"`
	Currency       string         `json:"currency"`
	StartDate      *time.Time     `json:"start_date"`
	EndDate        *time.Time     `json:"end_date"`
	Terms          string         `json:"terms"`
}

type ContractService interface {
	Create(ctx context.Context, actor permissions.Actor, input ContractInput) (*Contract, error)
	Get(ctx context.Context, id string) (*Contract, error)
	Search(ctx context.Context, req models.SearchRequest) ([]Contract, int64, error)
	Update(ctx context.Context, actor permissions.Actor, id string, input ContractInput) (*Contract, error)
	Transition(ctx context.Context, actor permissions.Actor, id string, to lifecycle.Status, comment string) (*Contract, error)
	VendorDueDiligenceCleared(ctx context.Context, vendorID string, actor permissions.Actor) error
}

type ContractServiceImpl struct {
	Repo          ContractRepository
	Vendors       VendorDirectory
	Counters      database.NumberSource
	Eval          *permissions.Evaluator
	AuditService  audit.AuditService
	Notifications notification.NotificationService
}

func NewContractService(
	repo ContractRepository,
	vendors VendorDirectory,
	counters database.NumberSource,
	eval *permissions.Evaluator,
	auditService audit.AuditService,
	notifications notification.NotificationService,
) ContractService {
	return &ContractServiceImpl{
		Repo:          repo,
		Vendors:       vendors,
		Counters:      counters,
		Eval:          eval,
		AuditService:  auditService,
		Notifications: notifications,
	}
}

func (s *ContractServiceImpl) find(ctx context.Context, id string) (*Contract, error) {
	contract, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
			return nil, errs.NotFound("contract %s not found", id)
		}
		return nil, err
	}
	return contract, nil
}

// ddGate reports whether the vendor's due diligence still blocks this
// contract. Outsourcing classifications require diligence even for
// low-risk vendors.
func ddGate(v *vendor.Vendor, c Classification) bool {
	return (v.DDRequired || c.Outsourcing()) && !v.DDCompleted
}

func (s *ContractServiceImpl) Create(ctx context.Context, actor permissions.Actor, input ContractInput) (*Contract, error) {
	if !s.Eval.CanCreate(actor.Role, permissions.ModuleContracts) {
		return nil, errs.Authorization("role %q may not create contracts", actor.Role)
	}
	if input.Title == "" {
		return nil, errs.Validation("contract title is required")
	}
	if input.VendorID == "" {
		return nil, errs.Validation("contract vendor is required")
	}
	if input.Classification == "" {
		input.Classification = ClassificationStandard
	}
	if !input.Classification.Valid() {
		return nil, errs.Validation("unknown contract classification %q", input.Classification)
	}

	v, err := s.Vendors.Get(ctx, input.VendorID)
	if err != nil {
		return nil, err
	}
	if v.Status == lifecycle.StatusBlacklisted {
		return nil, errs.Validation("vendor %s is blacklisted", v.Number)
	}

	number, err := s.Counters.NextNumber(ctx, lifecycle.EntityContract.Prefix(), time.Now())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	contract := &Contract{
		Title:          input.Title,
		VendorID:       input.VendorID,
		TenderID:       input.TenderID,
		Classification: input.Classification,
		Value:          input.Value,
		Currency:       input.Currency,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Terms:          input.Terms,
	}
	contract.ID = primitive.NewObjectID()
	contract.Number = number
	contract.Status = lifecycle.StatusDraft
	contract.CreatedBy = actor.ID
	contract.CreatedAt = now
	contract.UpdatedAt = now

	// The vendor's unmet diligence gate is inherited at creation: the
	// contract waits in pending_due_diligence and advances when the vendor
	// clears.
	if ddGate(v, contract.Classification) {
		contract.Status = lifecycle.StatusPendingDueDiligence
	}

	if err := s.Repo.Create(ctx, contract); err != nil {
		return nil, err
	}

	_ = s.AuditService.Record(ctx, audit.Log{
		Action:       audit.ActionCreate,
		Module:       permissions.ModuleContracts,
		EntityID:     contract.ID.Hex(),
		EntityNumber: contract.Number,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
	})
	if contract.Status != lifecycle.StatusDraft {
		_ = s.AuditService.RecordTransition(ctx, actor, permissions.ModuleContracts, contract.ID.Hex(), contract.Number,
			lifecycle.StatusDraft, contract.Status, fmt.Sprintf("awaiting due diligence on vendor %s", v.Number))
	}
	return contract, nil
}

func (s *ContractServiceImpl) Get(ctx context.Context, id string) (*Contract, error) {
	return s.find(ctx, id)
}

func (s *ContractServiceImpl) Search(ctx context.Context, req models.SearchRequest) ([]Contract, int64, error) {
	req.Normalize()
	query, err := filter.Compile(req.Filters)
	if err != nil {
		return nil, 0, err
	}
	return s.Repo.Search(ctx, query, req.Page, req.Limit)
}

func (s *ContractServiceImpl) Update(ctx context.Context, actor permissions.Actor, id string, input ContractInput) (*Contract, error) {
	if !s.Eval.CanEdit(actor.Role, permissions.ModuleContracts) {
		return nil, errs.Authorization("role %q may not edit contracts", actor.Role)
	}
	contract, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if lifecycle.Terminal(contract.Status) {
		return nil, errs.InvalidTransition("contract %s is %s and read-only", contract.Number, contract.Status)
	}
	if input.Classification != "" && !input.Classification.Valid() {
		return nil, errs.Validation("unknown contract classification %q", input.Classification)
	}

	changes := map[string]models.Change{}
	apply := func(field string, old, new interface{}, set func()) {
		if fmt.Sprint(old) != fmt.Sprint(new) {
			changes[field] = models.Change{Old: old, New: new}
			set()
		}
	}
	if input.Title != "" {
		apply("title", contract.Title, input.Title, func() { contract.Title = input.Title })
	}
	if input.Classification != "" {
		apply("classification", contract.Classification, input.Classification, func() { contract.Classification = input.Classification })
	}
	apply("value", contract.Value, input.Value, func() { contract.Value = input.Value })
	apply("currency", contract.Currency, input.Currency, func() { contract.Currency = input.Currency })
	apply("start_date", contract.StartDate, input.StartDate, func() { contract.StartDate = input.StartDate })
	apply("end_date", contract.EndDate, input.EndDate, func() { contract.EndDate = input.EndDate })
	apply("terms", contract.Terms, input.Terms, func() { contract.Terms = input.Terms })

	if len(changes) == 0 {
		return contract, nil
	}

	contract.UpdatedAt = time.Now()
	if err := s.Repo.UpdateFields(ctx, contract.ID, bson.M{
		"title":          contract.Title,
		"classification": contract.Classification,
		"value":          contract.Value,
		"currency":       contract.Currency,
		"start_date":     contract.StartDate,
		"end_date":       contract.EndDate,
		"terms":          contract.Terms,
		"updated_at":     contract.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	_ = s.AuditService.RecordChange(ctx, actor, audit.ActionUpdate, permissions.ModuleContracts, contract.ID.Hex(), contract.Number, changes)
	return contract, nil
}

func (s *ContractServiceImpl) Transition(ctx context.Context, actor permissions.Actor, id string, to lifecycle.Status, comment string) (*Contract, error) {
	if !lifecycle.ValidStatus(lifecycle.EntityContract, to) {
		return nil, errs.Validation("unknown contract status %q", to)
	}
	contract, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	from := contract.Status

	v, err := s.Vendors.Get(ctx, contract.VendorID)
	if err != nil {
		return nil, err
	}

	switch {
	case from == lifecycle.StatusDraft && to == lifecycle.StatusPendingApproval:
		// The vendor's diligence gate is inherited: the contract waits in
		// pending_due_diligence and advances when the vendor clears.
		if ddGate(v, contract.Classification) {
			to = lifecycle.StatusPendingDueDiligence
			if comment == "" {
				comment = fmt.Sprintf("awaiting due diligence on vendor %s", v.Number)
			}
		}
	case to == lifecycle.StatusActive:
		if v.Status == lifecycle.StatusBlacklisted {
			return nil, errs.InvalidTransition("contract %s cannot activate: vendor %s is blacklisted", contract.Number, v.Number)
		}
		if v.Status != lifecycle.StatusApproved && v.Status != lifecycle.StatusActive {
			return nil, errs.InvalidTransition("contract %s cannot activate: vendor %s is %q", contract.Number, v.Number, v.Status)
		}
		if ddGate(v, contract.Classification) {
			return nil, errs.InvalidTransition("contract %s cannot activate: vendor %s due diligence is outstanding", contract.Number, v.Number)
		}
	}

	if err := lifecycle.Check(s.Eval, actor, lifecycle.EntityContract, from, to); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateStatus(ctx, contract.ID, from, to, nil); err != nil {
		return nil, err
	}
	contract.Status = to
	contract.UpdatedAt = time.Now()

	_ = s.AuditService.RecordTransition(ctx, actor, permissions.ModuleContracts, contract.ID.Hex(), contract.Number, from, to, comment)

	if to == lifecycle.StatusNeedsRevision && contract.CreatedBy != actor.ID {
		s.Notifications.Notify(ctx, contract.CreatedBy, notification.NotificationTypeDecision,
			fmt.Sprintf("%s sent back for revision", contract.Number),
			fmt.Sprintf("contract %s needs revision", contract.Title),
			fmt.Sprintf("/contracts/%s", contract.ID.Hex()))
	}
	return contract, nil
}

// VendorDueDiligenceCleared advances every contract held in
// pending_due_diligence on the cleared vendor.
func (s *ContractServiceImpl) VendorDueDiligenceCleared(ctx context.Context, vendorID string, actor permissions.Actor) error {
	gated, err := s.Repo.FindByVendorAndStatus(ctx, vendorID, lifecycle.StatusPendingDueDiligence)
	if err != nil {
		return err
	}
	for _, contract := range gated {
		if err := lifecycle.Check(s.Eval, actor, lifecycle.EntityContract, lifecycle.StatusPendingDueDiligence, lifecycle.StatusApproved); err != nil {
			return err
		}
		if err := s.Repo.UpdateStatus(ctx, contract.ID, lifecycle.StatusPendingDueDiligence, lifecycle.StatusApproved, nil); err != nil {
			if errs.Is(err, errs.KindConflict) {
				continue
			}
			return err
		}
		_ = s.AuditService.RecordTransition(ctx, actor, permissions.ModuleContracts,
			contract.ID.Hex(), contract.Number,
			lifecycle.StatusPendingDueDiligence, lifecycle.StatusApproved,
			"vendor due diligence completed")
		if contract.CreatedBy != actor.ID {
			s.Notifications.Notify(ctx, contract.CreatedBy, notification.NotificationTypeInfo,
				fmt.Sprintf("%s approved", contract.Number),
				fmt.Sprintf("contract %s advanced after vendor due diligence", contract.Title),
				fmt.Sprintf("/contracts/%s", contract.ID.Hex()))
		}
	}
	return nil
}
