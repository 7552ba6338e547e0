package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeChannel struct {
	msgs chan amqp.Delivery
}

func (ch *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return nil
}
func (ch *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (Queue, error) {
	return Queue{Name: "q"}, nil
}
func (ch *fakeChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	return nil
}
func (ch *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return nil
}
func (ch *fakeChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return ch.msgs, nil
}
func (ch *fakeChannel) Qos(prefetchCount, prefetchSize int, global bool) error { return nil }
func (ch *fakeChannel) Close() error                                           { return nil }
func (ch *fakeChannel) NotifyClose() <-chan *amqp.Error {
	return make(chan *amqp.Error, 1)
}

type fakeConnection struct {
	mu         sync.Mutex
	dropped    bool
	closed     bool
	reconnects int
	msgs       chan amqp.Delivery
}

func (c *fakeConnection) Channel() (Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrConnectionClosed
	}
	if c.dropped {
		return nil, errors.New("connection dropped")
	}
	return &fakeChannel{msgs: c.msgs}, nil
}

func (c *fakeConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConnection) NotifyClose() <-chan *amqp.Error {
	return make(chan *amqp.Error, 1)
}

func (c *fakeConnection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed || c.dropped
}

func (c *fakeConnection) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	c.dropped = false
	c.reconnects++
	return nil
}

func shortenReconnectDelay(t *testing.T) {
	t.Helper()
	old := reconnectDelay
	reconnectDelay = time.Millisecond
	t.Cleanup(func() { reconnectDelay = old })
}

func TestConsumerRedialsDroppedConnection(t *testing.T) {
	shortenReconnectDelay(t)

	msgs := make(chan amqp.Delivery, 1)
	msgs <- amqp.Delivery{Body: []byte(`{"user_id":7}`)}
	conn := &fakeConnection{dropped: true, msgs: msgs}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var received []byte
	handler := func(ctx context.Context, body []byte) error {
		received = body
		cancel()
		return nil
	}

	err := NewConsumer(conn).ConsumeNotifications(ctx, handler)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ConsumeNotifications: %v", err)
	}
	if conn.reconnects != 1 {
		t.Errorf("reconnects = %d, want 1", conn.reconnects)
	}
	if string(received) != `{"user_id":7}` {
		t.Errorf("delivered body = %q", received)
	}
}

func TestConsumerStopsOnClosedConnection(t *testing.T) {
	shortenReconnectDelay(t)

	conn := &fakeConnection{closed: true}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := NewConsumer(conn).ConsumeNotifications(ctx, handlerDiscard)
	if !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("expected ErrConnectionClosed, got %v", err)
	}
}

func handlerDiscard(ctx context.Context, body []byte) error { return nil }
