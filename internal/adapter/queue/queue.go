package queue

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

const (
	DriverNATS     = "nats"
	DriverRabbitMQ = "rabbitmq"
	DriverMemory   = "memory"
)

// New opens the broker selected by driver. An empty driver means in-process
// delivery only.
func New(driver, url string, log *zap.Logger) (MessageQueue, error) {
	switch driver {
	case DriverNATS:
		q, err := NewNATSQueue(url, log)
		if err != nil {
			return nil, err
		}
		return q, nil
	case DriverRabbitMQ:
		q, err := NewRabbitMQQueue(url, log)
		if err != nil {
			return nil, err
		}
		return q, nil
	case DriverMemory, "":
		return NewMemoryQueue(log), nil
	}
	return nil, fmt.Errorf("unknown queue driver %q", driver)
}

// MemoryQueue delivers messages synchronously to subscribers of the same
// process.
type MemoryQueue struct {
	mu       sync.RWMutex
	handlers map[string][]func([]byte) error
	log      *zap.Logger
}

func NewMemoryQueue(log *zap.Logger) *MemoryQueue {
	return &MemoryQueue{
		handlers: make(map[string][]func([]byte) error),
		log:      log,
	}
}

func (q *MemoryQueue) Publish(subject string, data []byte) error {
	q.mu.RLock()
	handlers := q.handlers[subject]
	q.mu.RUnlock()

	for _, h := range handlers {
		if err := h(data); err != nil {
			q.log.Error("Error processing message", zap.String("subject", subject), zap.Error(err))
		}
	}
	return nil
}

func (q *MemoryQueue) Subscribe(subject string, handler func(data []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[subject] = append(q.handlers[subject], handler)
	return nil
}

func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = make(map[string][]func([]byte) error)
	return nil
}
