// Package notify defines the notification dispatch boundary. Delivery
// (push, email, SMS) lives behind the Dispatcher interface; the engine only
// produces notifications and never consumes a delivery result.
package notify

import (
	"context"

	"github.com/google/uuid"

	"github.com/wealthloop/goal-engine/internal/logger"
)

// Severity classifies a notification for display purposes.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a message addressed to a goal owner.
type Notification struct {
	OwnerID    uuid.UUID
	Title      string
	Message    string
	Severity   Severity
	ActionLink string
}

// Dispatcher accepts notifications for delivery. Dispatch is fire-and-forget:
// implementations handle and log their own failures.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification)
}

// LogDispatcher writes notifications to the application log. Used as the
// delivery backend when no real channel is configured, and in tests.
type LogDispatcher struct{}

// Dispatch logs the notification.
func (LogDispatcher) Dispatch(_ context.Context, n Notification) {
	logger.Log.Info().
		Str("owner_hash", logger.HashOwnerID(n.OwnerID)).
		Str("severity", string(n.Severity)).
		Str("title", n.Title).
		Msg("Notification dispatched")
}
