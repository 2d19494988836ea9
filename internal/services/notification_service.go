package services

import (
	"context"
	"fmt"
	"time"

	"clubhouse/internal/constants"
	"clubhouse/internal/db/repositories"
	"clubhouse/internal/logging"
	"clubhouse/internal/metrics"
	"clubhouse/internal/models/dtos/responses"
	gormModels "clubhouse/internal/models/gorm"

	"gorm.io/gorm"
)

const feedLimit = 50

// NotificationService writes and reads per-user notifications.
// Writes always go through the caller's transaction so a failed batch
// rolls back the action that produced it.
type NotificationService struct {
	db            *gorm.DB
	users         *repositories.UserRepositoryGORM
	notifications *repositories.NotificationRepository
	metrics       *metrics.MetricsRegistry
}

func NewNotificationService(db *gorm.DB, metricsReg *metrics.MetricsRegistry) *NotificationService {
	return &NotificationService{
		db:            db,
		users:         repositories.NewUserRepositoryGORM(db),
		notifications: repositories.NewNotificationRepository(db),
		metrics:       metricsReg,
	}
}

// NotifyUsers inserts one notification per recipient inside tx
func (svc *NotificationService) NotifyUsers(
	ctx context.Context,
	tx *gorm.DB,
	recipients []string,
	kind constants.NotificationType,
	itemID uint,
	message string,
) error {
	if len(recipients) == 0 {
		return nil
	}

	var ref *uint
	if itemID != 0 {
		ref = &itemID
	}

	items := make([]gormModels.Notification, 0, len(recipients))
	for _, username := range recipients {
		items = append(items, gormModels.Notification{
			Username: username,
			Type:     kind,
			ItemID:   ref,
			Message:  message,
		})
	}

	if err := svc.notifications.WithTx(tx).CreateBatch(ctx, items); err != nil {
		return err
	}

	svc.metrics.NotificationsCreated(kind.String(), len(items))
	return nil
}

// NotifyRole fans out to every user with the role, minus the actor
func (svc *NotificationService) NotifyRole(
	ctx context.Context,
	tx *gorm.DB,
	role constants.Role,
	actor string,
	kind constants.NotificationType,
	itemID uint,
	message string,
) error {
	recipients, err := svc.users.WithTx(tx).Usernames(ctx, role, actor)
	if err != nil {
		return err
	}
	return svc.NotifyUsers(ctx, tx, recipients, kind, itemID, message)
}

// NotifyEveryone fans out to all users except the actor
func (svc *NotificationService) NotifyEveryone(
	ctx context.Context,
	tx *gorm.DB,
	actor string,
	kind constants.NotificationType,
	itemID uint,
	message string,
) error {
	return svc.NotifyRole(ctx, tx, "", actor, kind, itemID, message)
}

// Feed returns the newest notifications for a user plus the unread count
func (svc *NotificationService) Feed(ctx context.Context, username string) (*responses.NotificationFeed, error) {
	items, err := svc.notifications.ListByUsername(ctx, username, feedLimit)
	if err != nil {
		return nil, err
	}
	unread, err := svc.notifications.CountUnread(ctx, username)
	if err != nil {
		return nil, err
	}

	feed := &responses.NotificationFeed{
		Unread: unread,
		Items:  make([]responses.NotificationView, 0, len(items)),
	}
	for _, n := range items {
		feed.Items = append(feed.Items, responses.NewNotificationView(n))
	}
	return feed, nil
}

func (svc *NotificationService) UnreadCount(ctx context.Context, username string) (int64, error) {
	return svc.notifications.CountUnread(ctx, username)
}

// MarkRead flags one of the user's notifications; other users' ids are not found
// ForgetUser deletes a removed account's notifications inside tx
func (svc *NotificationService) ForgetUser(ctx context.Context, tx *gorm.DB, username string) error {
	_, err := svc.notifications.WithTx(tx).DeleteByUsername(ctx, username)
	return err
}

// RenameUser readdresses an account's notifications inside tx
func (svc *NotificationService) RenameUser(ctx context.Context, tx *gorm.DB, from, to string) error {
	return svc.notifications.WithTx(tx).Rename(ctx, from, to)
}

func (svc *NotificationService) MarkRead(ctx context.Context, username string, id uint) error {
	return svc.notifications.MarkRead(ctx, id, username)
}

func (svc *NotificationService) MarkAllRead(ctx context.Context, username string) error {
	return svc.notifications.MarkAllRead(ctx, username)
}

// PruneRead deletes read notifications older than the retention window
func (svc *NotificationService) PruneRead(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("retention must be positive, got %s", retention)
	}

	cutoff := time.Now().UTC().Add(-retention)
	deleted, err := svc.notifications.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		logging.Info("Pruned read notifications", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}
