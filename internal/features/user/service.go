package user

import (
	"context"
	"time"

	"sourcevia/internal/common/errs"
	"sourcevia/internal/common/models"
	"sourcevia/internal/features/audit"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Username string           `json:"username"`
	Password string           `json:"password"`
	Email    string           `json:"email"`
	FullName string           `json:"full_name"`
	Role     permissions.Role `json:"role"`
}

type UserService interface {
	Create(ctx context.Context, actor permissions.Actor, req CreateUserRequest) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
	ChangeRole(ctx context.Context, actor permissions.Actor, id string, role permissions.Role) error
}

type UserServiceImpl struct {
	Repo         UserRepository
	AuditService audit.AuditService
}

func NewUserService(repo UserRepository, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *UserServiceImpl) Create(ctx context.Context, actor permissions.Actor, req CreateUserRequest) (*User, error) {
	if actor.Role != permissions.RoleAdmin {
		return nil, errs.Authorization("only admin may create users")
	}
	if req.Username == "" || req.Password == "" {
		return nil, errs.Validation("username and password are required")
	}
	if !req.Role.Valid() {
		return nil, errs.Validation("unknown role %q", req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	usr := &User{
		ID:        primitive.NewObjectID(),
		Username:  req.Username,
		Password:  string(hash),
		Email:     req.Email,
		FullName:  req.FullName,
		Role:      req.Role,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, usr); err != nil {
		return nil, err
	}

	_ = s.AuditService.RecordChange(ctx, actor, audit.ActionCreate, "", usr.ID.Hex(), usr.Username,
		map[string]models.Change{
			"username": {New: usr.Username},
			"role":     {New: string(usr.Role)},
		})

	return usr, nil
}

func (s *UserServiceImpl) Get(ctx context.Context, id string) (*User, error) {
	usr, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NotFound("user %s not found", id)
	}
	return usr, nil
}

func (s *UserServiceImpl) List(ctx context.Context) ([]User, error) {
	return s.Repo.List(ctx)
}

// ChangeRole is the one administrative path that mutates a user's role.
func (s *UserServiceImpl) ChangeRole(ctx context.Context, actor permissions.Actor, id string, role permissions.Role) error {
	if actor.Role != permissions.RoleAdmin {
		return errs.Authorization("only admin may reassign roles")
	}
	if !role.Valid() {
		return errs.Validation("unknown role %q", role)
	}

	usr, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return errs.NotFound("user %s not found", id)
	}
	if usr.Role == role {
		return nil
	}

	if err := s.Repo.UpdateRole(ctx, id, role); err != nil {
		return err
	}

	return s.AuditService.RecordChange(ctx, actor, audit.ActionRoleChange, "", usr.ID.Hex(), usr.Username,
		map[string]models.Change{
			"role": {Old: string(usr.Role), New: string(role)},
		})
}
