package interfaces

import (
	"context"
	"time"
)

// NotificationMessage is the fanout copy of a stored notification. Delivery
// is fire-and-forget: publishing happens after the owning transaction
// commits, and failures are only logged.
type NotificationMessage struct {
	OrderID   *int      `json:"order_id,omitempty"`
	UserID    int       `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type MessagePublisher interface {
	PublishNotification(ctx context.Context, msg NotificationMessage) error
}

type MessageConsumer interface {
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}

type NotificationHandler func(ctx context.Context, body []byte) error
