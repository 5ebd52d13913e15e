package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/papikos/notification-service/internal/model"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sqlx.DB, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

const insertNotificationQuery = `INSERT INTO notifications
	(notification_id, recipient_user_id, notification_type, title, message, is_read, related_property_id, related_rental_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Insert stores a single notification
func (r *NotificationRepository) Insert(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	_, err := r.db.ExecContext(ctx, insertNotificationQuery,
		n.ID,
		n.RecipientUserID,
		n.Type,
		n.Title,
		n.Message,
		n.IsRead,
		n.RelatedPropertyID,
		n.RelatedRentalID,
		n.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert notification",
			zap.String("notification_id", n.ID.String()),
			zap.Error(err))
		return nil, err
	}

	return n, nil
}

// InsertBatch stores all notifications in a single transaction. Either every
// row is durably recorded or none are.
func (r *NotificationRepository) InsertBatch(ctx context.Context, notifications []model.Notification) ([]model.Notification, error) {
	if len(notifications) == 0 {
		return nil, nil
	}

	// Using transaction for batch insert
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, insertNotificationQuery)
	if err != nil {
		r.logger.Error("Failed to prepare statement", zap.Error(err))
		return nil, err
	}
	defer stmt.Close()

	for _, n := range notifications {
		_, err = stmt.ExecContext(ctx,
			n.ID,
			n.RecipientUserID,
			n.Type,
			n.Title,
			n.Message,
			n.IsRead,
			n.RelatedPropertyID,
			n.RelatedRentalID,
			n.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to insert notification in batch",
				zap.String("notification_id", n.ID.String()),
				zap.Error(err))
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit transaction", zap.Error(err))
		return nil, err
	}

	return notifications, nil
}

// GetByID retrieves a notification by id. Returns (nil, nil) when no row exists.
func (r *NotificationRepository) GetByID(ctx context.Context, notificationID uuid.UUID) (*model.Notification, error) {
	query := `SELECT notification_id, recipient_user_id, notification_type, title, message, is_read, related_property_id, related_rental_id, created_at
		FROM notifications
		WHERE notification_id = $1`

	var n model.Notification
	err := r.db.GetContext(ctx, &n, query, notificationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get notification", zap.Error(err))
		return nil, err
	}

	return &n, nil
}

// ListByRecipient retrieves a user's notifications, broadcasts included,
// newest first. The unread view is recipient-only: broadcasts carry no
// per-user read state, so they would otherwise sit in it forever.
// notification_id breaks created_at ties so paging stays stable.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientUserID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	query := `SELECT notification_id, recipient_user_id, notification_type, title, message, is_read, related_property_id, related_rental_id, created_at
		FROM notifications
		WHERE `
	if unreadOnly {
		query += `recipient_user_id = $1 AND is_read = FALSE`
	} else {
		query += `(recipient_user_id = $1 OR recipient_user_id IS NULL)`
	}
	query += ` ORDER BY created_at DESC, notification_id`

	var notifications []model.Notification
	err := r.db.SelectContext(ctx, &notifications, query, recipientUserID)
	if err != nil {
		r.logger.Error("Failed to list notifications", zap.Error(err))
		return nil, err
	}

	return notifications, nil
}

// MarkRead sets is_read on a notification
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE notification_id = $1`

	_, err := r.db.ExecContext(ctx, query, notificationID)
	if err != nil {
		r.logger.Error("Failed to mark notification as read",
			zap.String("notification_id", notificationID.String()),
			zap.Error(err))
		return err
	}

	return nil
}
