package automation

import (
	"context"
	"errors"
	"time"

	"sourcevia/internal/common/errs"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"

	"github.com/d5/tengo/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type HookInput struct {
	Name     string             `json:"name"`
	Module   permissions.Module `json:"module"`
	OnStatus lifecycle.Status   `json:"on_status"`
	Script   string             `json:"script"`
	Enabled  *bool              `json:"enabled"`
}

type HookService interface {
	Create(ctx context.Context, actor permissions.Actor, input HookInput) (*Hook, error)
	List(ctx context.Context) ([]Hook, error)
	Update(ctx context.Context, id string, input HookInput) (*Hook, error)
	Delete(ctx context.Context, id string) error
}

type HookServiceImpl struct {
	Repo HookRepository
}

func NewHookService(repo HookRepository) HookService {
	return &HookServiceImpl{Repo: repo}
}

func validateInput(input HookInput) error {
	if input.Name == "" {
		return errs.Validation("hook name is required")
	}
	if !input.Module.Valid() {
		return errs.Validation("unknown module %q", input.Module)
	}
	if input.Script == "" {
		return errs.Validation("hook script is required")
	}
	// Reject scripts that cannot compile; runtime failures are logged later.
	if _, err := tengo.NewScript([]byte(input.Script)).Compile(); err != nil {
		return errs.Validation("hook script does not compile: %v", err)
	}
	return nil
}

func (s *HookServiceImpl) Create(ctx context.Context, actor permissions.Actor, input HookInput) (*Hook, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	hook := &Hook{
		ID:        primitive.NewObjectID(),
		Name:      input.Name,
		Module:    input.Module,
		OnStatus:  input.OnStatus,
		Script:    input.Script,
		Enabled:   input.Enabled == nil || *input.Enabled,
		CreatedBy: actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, hook); err != nil {
		return nil, err
	}
	return hook, nil
}

func (s *HookServiceImpl) List(ctx context.Context) ([]Hook, error) {
	return s.Repo.List(ctx)
}

func (s *HookServiceImpl) Update(ctx context.Context, id string, input HookInput) (*Hook, error) {
	hook, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
			return nil, errs.NotFound("hook %s not found", id)
		}
		return nil, err
	}

	if input.Name != "" {
		hook.Name = input.Name
	}
	if input.Module != "" {
		hook.Module = input.Module
	}
	if input.OnStatus != "" {
		hook.OnStatus = input.OnStatus
	}
	if input.Script != "" {
		hook.Script = input.Script
	}
	if input.Enabled != nil {
		hook.Enabled = *input.Enabled
	}
	if err := validateInput(HookInput{Name: hook.Name, Module: hook.Module, OnStatus: hook.OnStatus, Script: hook.Script}); err != nil {
		return nil, err
	}

	hook.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, hook.ID, bson.M{
		"name":       hook.Name,
		"module":     hook.Module,
		"on_status":  hook.OnStatus,
		"script":     hook.Script,
		"enabled":    hook.Enabled,
		"updated_at": hook.UpdatedAt,
	}); err != nil {
		return nil, err
	}
	return hook, nil
}

func (s *HookServiceImpl) Delete(ctx context.Context, id string) error {
	hook, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
			return errs.NotFound("hook %s not found", id)
		}
		return err
	}
	return s.Repo.Delete(ctx, hook.ID)
}
