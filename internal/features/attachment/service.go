package attachment

import (
	"context"
	"errors"
	"os"
	"time"

	"sourcevia/internal/common/errs"
	"sourcevia/pkg/permissions"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MaxUploadSize caps a single attachment at 20 MiB.
const MaxUploadSize = 20 << 20

type UploadInput struct {
	Filename string
	Size     int64
	MimeType string
	Module   permissions.Module
	EntityID string
}

type AttachmentService interface {
	Register(ctx context.Context, actor permissions.Actor, input UploadInput) (*Attachment, error)
	Commit(ctx context.Context, a *Attachment) error
	Get(ctx context.Context, actor permissions.Actor, id string) (*Attachment, error)
	ListForEntity(ctx context.Context, actor permissions.Actor, module permissions.Module, entityID string) ([]Attachment, error)
	Delete(ctx context.Context, actor permissions.Actor, id string) error
}

type AttachmentServiceImpl struct {
	Repo AttachmentRepository
	Eval *permissions.Evaluator
}

func NewAttachmentService(repo AttachmentRepository, eval *permissions.Evaluator) AttachmentService {
	return &AttachmentServiceImpl{Repo: repo, Eval: eval}
}

// Register validates an upload and allocates its stored name. The caller
// persists the bytes to disk and then calls Commit with the final path.
func (s *AttachmentServiceImpl) Register(ctx context.Context, actor permissions.Actor, input UploadInput) (*Attachment, error) {
	if !input.Module.Valid() {
		return nil, errs.Validation("unknown module %q", input.Module)
	}
	if !s.Eval.CanEdit(actor.Role, input.Module) {
		return nil, errs.Authorization("role %q may not attach files to %s", actor.Role, input.Module)
	}
	if input.EntityID == "" {
		return nil, errs.Validation("entity id is required")
	}
	if input.Filename == "" {
		return nil, errs.Validation("filename is required")
	}
	if input.Size <= 0 || input.Size > MaxUploadSize {
		return nil, errs.Validation("attachment size must be between 1 byte and %d bytes", MaxUploadSize)
	}

	return &Attachment{
		ID:         primitive.NewObjectID(),
		Filename:   input.Filename,
		StoredName: uuid.NewString(),
		Size:       input.Size,
		MimeType:   input.MimeType,
		Module:     input.Module,
		EntityID:   input.EntityID,
		UploadedBy: actor.ID,
		CreatedAt:  time.Now(),
	}, nil
}

func (s *AttachmentServiceImpl) Commit(ctx context.Context, a *Attachment) error {
	return s.Repo.Create(ctx, a)
}

func (s *AttachmentServiceImpl) Get(ctx context.Context, actor permissions.Actor, id string) (*Attachment, error) {
	a, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
			return nil, errs.NotFound("attachment %s not found", id)
		}
		return nil, err
	}
	if !s.Eval.CanView(actor.Role, a.Module) {
		return nil, errs.Authorization("role %q may not view %s attachments", actor.Role, a.Module)
	}
	return a, nil
}

func (s *AttachmentServiceImpl) ListForEntity(ctx context.Context, actor permissions.Actor, module permissions.Module, entityID string) ([]Attachment, error) {
	if !module.Valid() {
		return nil, errs.Validation("unknown module %q", module)
	}
	if !s.Eval.CanView(actor.Role, module) {
		return nil, errs.Authorization("role %q may not view %s attachments", actor.Role, module)
	}
	return s.Repo.FindByEntity(ctx, module, entityID)
}

func (s *AttachmentServiceImpl) Delete(ctx context.Context, actor permissions.Actor, id string) error {
	a, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if a.UploadedBy != actor.ID && !s.Eval.IsController(actor.Role, a.Module) {
		return errs.Authorization("only the uploader or a controller may delete attachments")
	}
	if a.Path != "" {
		if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return s.Repo.Delete(ctx, a.ID)
}
