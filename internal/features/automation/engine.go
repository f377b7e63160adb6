package automation

import (
	"context"
	"time"

	"sourcevia/internal/features/notification"

	"github.com/d5/tengo/v2"
	"go.uber.org/zap"
)

// scriptTimeout bounds a single hook run.
const scriptTimeout = 5 * time.Second

type Engine interface {
	OnTransition(ctx context.Context, event TransitionEvent)
}

type EngineImpl struct {
	Repo          HookRepository
	Notifications notification.NotificationService
	Logger        *zap.Logger
}

func NewEngine(repo HookRepository, notifications notification.NotificationService, logger *zap.Logger) Engine {
	return &EngineImpl{
		Repo:          repo,
		Notifications: notifications,
		Logger:        logger,
	}
}

// OnTransition runs every enabled hook matching the event. Hook failures
// are logged and never propagate: automation must not undo a committed
// status change.
func (e *EngineImpl) OnTransition(ctx context.Context, event TransitionEvent) {
	hooks, err := e.Repo.FindMatching(ctx, event.Module, event.To)
	if err != nil {
		e.Logger.Warn("automation hook lookup failed",
			zap.String("module", string(event.Module)),
			zap.String("to", string(event.To)),
			zap.Error(err))
		return
	}

	for _, hook := range hooks {
		if err := e.run(ctx, hook, event); err != nil {
			e.Logger.Warn("automation hook failed",
				zap.String("hook", hook.Name),
				zap.String("entity", event.EntityNumber),
				zap.Error(err))
		}
	}
}

func (e *EngineImpl) run(ctx context.Context, hook Hook, event TransitionEvent) error {
	script := tengo.NewScript([]byte(hook.Script))

	script.Add("module", string(event.Module))
	script.Add("entity_id", event.EntityID)
	script.Add("entity_number", event.EntityNumber)
	script.Add("from", string(event.From))
	script.Add("to", string(event.To))
	script.Add("actor_id", event.ActorID)
	script.Add("notify", &tengo.UserFunction{
		Name: "notify",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 3 {
				return nil, tengo.ErrWrongNumArguments
			}
			userID, _ := tengo.ToString(args[0])
			title, _ := tengo.ToString(args[1])
			message, _ := tengo.ToString(args[2])
			e.Notifications.Notify(ctx, userID, notification.NotificationTypeInfo, title, message, "")
			return tengo.UndefinedValue, nil
		},
	})

	compiled, err := script.Compile()
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, scriptTimeout)
	defer cancel()
	return compiled.RunContext(runCtx)
}
