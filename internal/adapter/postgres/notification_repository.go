package postgres

import (
	"context"
	"fmt"

	"github.com/leshley-eatery/silogan/internal/domain"
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Create(ctx context.Context, q Querier, n *domain.Notification) error {
	err := q.QueryRow(ctx,
		`INSERT INTO order_notifications (order_id, user_id, message, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		n.OrderID, n.UserID, n.Message, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListUnread(ctx context.Context, q Querier, userID int) ([]*domain.Notification, error) {
	rows, err := q.Query(ctx,
		`SELECT id, order_id, user_id, message, is_read, created_at
		 FROM order_notifications
		 WHERE user_id = $1 AND is_read = FALSE
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.OrderID, &n.UserID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, q Querier, id, userID int) error {
	_, err := q.Exec(ctx,
		`UPDATE order_notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (r *NotificationRepository) UnreadExists(ctx context.Context, q Querier, userID int, message string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM order_notifications
			WHERE user_id = $1 AND message = $2 AND is_read = FALSE
		)`,
		userID, message,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check notifications: %w", err)
	}
	return exists, nil
}
