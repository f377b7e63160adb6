package notification

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// NotificationService is the fire-and-forget collaborator the workflow
// emits events to. Failures are logged, never propagated into the business
// operation that triggered them.
type NotificationService interface {
	Notify(ctx context.Context, userID string, typ NotificationType, title, message, link string)
	ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type NotificationServiceImpl struct {
	Repo   NotificationRepository
	Hub    *Hub
	Logger *zap.Logger
}

func NewNotificationService(repo NotificationRepository, hub *Hub, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		Repo:   repo,
		Hub:    hub,
		Logger: logger,
	}
}

func (s *NotificationServiceImpl) Notify(ctx context.Context, userID string, typ NotificationType, title, message, link string) {
	if userID == "" {
		return
	}
	n := Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		Link:      link,
		CreatedAt: time.Now(),
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		s.Logger.Error("store notification", zap.String("user_id", userID), zap.Error(err))
		return
	}
	s.Hub.Push(n)
}

func (s *NotificationServiceImpl) ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error) {
	return s.Repo.ListForUser(ctx, userID, unreadOnly, 100)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id, userID string) error {
	return s.Repo.MarkRead(ctx, id, userID)
}
