package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/wealthloop/goal-engine/internal/database"
	"github.com/wealthloop/goal-engine/internal/logger"
	"github.com/wealthloop/goal-engine/internal/notify"
)

// NotificationRepository stores notifications for later delivery by an
// external channel. It implements notify.Dispatcher; dispatch failures are
// logged and swallowed because the engine never consumes a delivery result.
type NotificationRepository struct {
	db database.PGXDB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db database.PGXDB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Dispatch persists the notification.
func (r *NotificationRepository) Dispatch(ctx context.Context, n notify.Notification) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notifications (id, owner_id, title, message, severity, action_link)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), n.OwnerID, n.Title, n.Message, n.Severity, n.ActionLink)
	if err != nil {
		logger.Log.Error().Err(err).
			Str("owner_hash", logger.HashOwnerID(n.OwnerID)).
			Str("title", n.Title).
			Msg("Failed to store notification")
		return
	}

	logger.Log.Debug().
		Str("owner_hash", logger.HashOwnerID(n.OwnerID)).
		Str("severity", string(n.Severity)).
		Msg("Notification stored")
}
