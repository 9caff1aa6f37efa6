package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/jonathan/job-match-analyzer/internal/types"
)

// PoolConfig locates the broker and names the request queue
type PoolConfig struct {
	URL         string
	Queue       string
	Concurrency int
}

// AMQPPublisher publishes status updates to a topic exchange
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
}

// NewAMQPPublisher declares the exchange and returns a publisher using conn
func NewAMQPPublisher(conn *amqp.Connection, exchange string) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, exchange: exchange}, nil
}

// Publish sends update under RoutingKey(update)
func (p *AMQPPublisher) Publish(_ context.Context, update types.StatusUpdate) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to encode status update: %w", err)
	}

	return ch.Publish(
		p.exchange,
		RoutingKey(update),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Pool runs Concurrency consumers against one durable queue
type Pool struct {
	cfg    PoolConfig
	worker *Worker
	logger *slog.Logger
}

// NewPool creates a Pool that hands every message to w
func NewPool(cfg PoolConfig, w *Worker) *Pool {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Pool{cfg: cfg, worker: w, logger: w.logger}
}

// Run consumes until ctx is cancelled or a consumer loses its connection. Each
// consumer dials its own connection.
func (p *Pool) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	wg.Add(p.cfg.Concurrency)
	for i := range p.cfg.Concurrency {
		p.logger.Info("worker started", slog.Int("id", i+1), slog.String("queue", p.cfg.Queue))
		go func() {
			defer wg.Done()
			if err := p.consume(ctx, i+1); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				cancel()
			}
		}()
	}
	wg.Wait()
	return firstErr
}

func (p *Pool) consume(ctx context.Context, id int) error {
	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		return fmt.Errorf("worker %d: error dialling rabbitmq: %w", id, err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("worker %d: error opening channel: %w", id, err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(
		p.cfg.Queue, // queue name
		true,        // durable
		false,       // auto-delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	); err != nil {
		return fmt.Errorf("worker %d: failed to declare queue: %w", id, err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("worker %d: failed to set prefetch: %w", id, err)
	}

	msgs, err := ch.Consume(
		p.cfg.Queue, // queue name
		"",          // consumer tag
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("worker %d: error consuming: %w", id, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("worker %d: delivery channel closed", id)
			}
			p.deliver(ctx, msg)
		}
	}
}

// deliver handles one message. Rejected messages are dropped without requeue;
// everything else is acknowledged, failures having been reported via status.
func (p *Pool) deliver(ctx context.Context, msg amqp.Delivery) {
	_, err := p.worker.Handle(ctx, msg.Body)

	var rejected *RejectedError
	if errors.As(err, &rejected) {
		p.logger.Warn("rejecting message", slog.Any("error", err))
		if nackErr := msg.Nack(false, false); nackErr != nil {
			p.logger.Error("failed to nack message", slog.Any("error", nackErr))
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		p.logger.Error("failed to ack message", slog.Any("error", ackErr))
	}
}
