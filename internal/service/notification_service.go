package service

import (
	"context"
	"time"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/pkg/logger"
)

// NotificationService is the operator-facing view over notifications.
type NotificationService struct {
	logger logger.Logger
	repo   domain.NotificationRepository
}

func NewNotificationService(log logger.Logger, repo domain.NotificationRepository) *NotificationService {
	return &NotificationService{logger: log, repo: repo}
}

// List returns active notifications, newest first.
func (s *NotificationService) List(ctx context.Context, limit, offset int) ([]*domain.Notification, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.List(ctx, limit, offset)
}

// MarkRead flips a notification to read.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.repo.SetState(ctx, id, domain.NotificationRead, nil)
}

// Dismiss removes a notification from the active list permanently.
func (s *NotificationService) Dismiss(ctx context.Context, id string) error {
	return s.repo.SetState(ctx, id, domain.NotificationDismissed, nil)
}

// Snooze hides a notification until the given time. It reappears in List
// once the snooze expires.
func (s *NotificationService) Snooze(ctx context.Context, id string, until time.Time) error {
	if !until.After(time.Now()) {
		return domain.NewValidationError("snooze time must be in the future")
	}
	return s.repo.SetState(ctx, id, domain.NotificationSnoozed, &until)
}
