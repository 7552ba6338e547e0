package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leshley-eatery/silogan/internal/adapter/logger"
	"github.com/leshley-eatery/silogan/internal/interfaces"
)

// NotificationHandler consumes fanout notifications in the subscriber
// process and prints them to the console.
type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(lgr logger.Logger) *NotificationHandler {
	return &NotificationHandler{logger: lgr}
}

func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte) error {
	var msg interfaces.NotificationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse notification", "", nil, err)
		return err
	}

	h.logger.Debug("notification_received", fmt.Sprintf("Received notification for user %d", msg.UserID),
		"", map[string]interface{}{
			"user_id": msg.UserID,
		})

	fmt.Printf("Notification for user %d: %s\n", msg.UserID, msg.Message)

	return nil
}
