package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/leshley-eatery/silogan/internal/interfaces"
)

var reconnectDelay = 5 * time.Second

type consumer struct {
	conn Connection
}

func NewConsumer(conn Connection) interfaces.MessageConsumer {
	return &consumer{conn: conn}
}

// ConsumeNotifications subscribes to the notifications fanout and invokes
// the handler for every delivery. It retries after a broken channel and
// redials a dropped connection until the context is cancelled or the
// connection is closed for good.
func (c *consumer) ConsumeNotifications(ctx context.Context, handler interfaces.NotificationHandler) error {
	for {
		err := c.consumeOnce(ctx, handler)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			return nil
		}

		log.Printf("Notifications consumer disconnected: %v. Reconnecting in %s...", err, reconnectDelay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}

		// A channel-level error leaves the connection usable; after a
		// connection-level drop the broker must be redialled first.
		if c.conn.IsClosed() {
			if rerr := c.conn.Reconnect(); rerr != nil {
				if errors.Is(rerr, ErrConnectionClosed) {
					return rerr
				}
				log.Printf("Failed to reconnect to RabbitMQ: %v", rerr)
			}
		}
	}
}

func (c *consumer) consumeOnce(ctx context.Context, handler interfaces.NotificationHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.ExchangeDeclare(notificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Exclusive auto-delete queue: each subscriber gets its own copy of
	// every notification.
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", notificationsExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}

			// Delivery is best effort; handler errors are its own problem.
			_ = handler(ctx, msg.Body)
		}
	}
}
