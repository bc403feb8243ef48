package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EventsExchange is the topic exchange every domain event goes through;
// the subject is the routing key.
const EventsExchange = "arremateai.events"

const reconnectDelay = 5 * time.Second

type subscription struct {
	subject string
	handler func(data []byte) error
}

// RabbitMQQueue publishes persistent messages to EventsExchange. Each
// subscription gets an exclusive auto-delete queue, re-bound after a
// reconnect.
type RabbitMQQueue struct {
	url string
	log *zap.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	subs    []subscription
	closed  bool
}

func NewRabbitMQQueue(url string, log *zap.Logger) (*RabbitMQQueue, error) {
	q := &RabbitMQQueue{url: url, log: log}
	if err := q.connect(); err != nil {
		return nil, err
	}

	go q.monitorConnection()

	log.Info("Successfully connected to RabbitMQ", zap.String("exchange", EventsExchange))
	return q, nil
}

func (q *RabbitMQQueue) connect() error {
	conn, err := amqp.Dial(q.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("rabbitmq: declare exchange %s: %w", EventsExchange, err)
	}

	q.mu.Lock()
	q.conn = conn
	q.channel = ch
	q.mu.Unlock()
	return nil
}

func (q *RabbitMQQueue) Publish(subject string, data []byte) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.channel == nil || q.channel.IsClosed() {
		return fmt.Errorf("rabbitmq: channel not available")
	}

	err := q.channel.Publish(EventsExchange, subject, false, false, amqp.Publishing{
		MessageId:    uuid.New().String(),
		AppId:        "arremateai",
		Type:         subject,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         data,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish %s: %w", subject, err)
	}
	return nil
}

func (q *RabbitMQQueue) Subscribe(subject string, handler func(data []byte) error) error {
	sub := subscription{subject: subject, handler: handler}

	q.mu.Lock()
	q.subs = append(q.subs, sub)
	q.mu.Unlock()

	return q.consume(sub)
}

// consume binds a fresh queue for sub. A failing handler nacks the message
// without requeueing so a poison event cannot loop.
func (q *RabbitMQQueue) consume(sub subscription) error {
	q.mu.RLock()
	ch := q.channel
	q.mu.RUnlock()
	if ch == nil {
		return fmt.Errorf("rabbitmq: channel not available")
	}

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: declare queue: %w", err)
	}
	if err := ch.QueueBind(queue.Name, sub.subject, EventsExchange, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind %s: %w", sub.subject, err)
	}

	msgs, err := ch.Consume(queue.Name, "", false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume %s: %w", sub.subject, err)
	}

	go func() {
		for msg := range msgs {
			if err := sub.handler(msg.Body); err != nil {
				q.log.Error("Error processing RabbitMQ message",
					zap.String("subject", sub.subject),
					zap.String("message_id", msg.MessageId),
					zap.Error(err),
				)
				_ = msg.Nack(false, false)
				continue
			}
			_ = msg.Ack(false)
		}
	}()

	q.log.Info("Subscribed to RabbitMQ events", zap.String("subject", sub.subject))
	return nil
}

func (q *RabbitMQQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

func (q *RabbitMQQueue) monitorConnection() {
	for {
		q.mu.RLock()
		conn := q.conn
		q.mu.RUnlock()

		reason, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
		if !ok || reason == nil {
			return
		}

		q.mu.RLock()
		closed := q.closed
		q.mu.RUnlock()
		if closed {
			return
		}

		q.log.Warn("RabbitMQ connection lost, reconnecting...", zap.String("reason", reason.Reason))
		for {
			time.Sleep(reconnectDelay)
			if err := q.connect(); err != nil {
				q.log.Error("Failed to reconnect to RabbitMQ", zap.Error(err))
				continue
			}
			break
		}

		q.mu.RLock()
		subs := append([]subscription(nil), q.subs...)
		q.mu.RUnlock()
		for _, sub := range subs {
			if err := q.consume(sub); err != nil {
				q.log.Error("Failed to restore RabbitMQ subscription", zap.String("subject", sub.subject), zap.Error(err))
			}
		}
		q.log.Info("Successfully reconnected to RabbitMQ", zap.Int("subscriptions", len(subs)))
	}
}
