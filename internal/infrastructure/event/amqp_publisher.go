package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// AMQPConfig holds the broker settings for the order event publisher
type AMQPConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// amqpChannel is the subset of *amqp.Channel the publisher needs
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher forwards placed orders to a RabbitMQ topic exchange so
// downstream systems (a print queue, a spreadsheet sync) can consume them.
type AMQPPublisher struct {
	conn       *amqp.Connection
	mu         sync.Mutex // amqp channels are not safe for concurrent publishing
	ch         amqpChannel
	exchange   string
	routingKey string
	logger     *zap.Logger
}

// NewAMQPPublisher dials the broker and declares a durable topic exchange
func NewAMQPPublisher(cfg AMQPConfig, logger *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	p := newAMQPPublisher(ch, cfg.Exchange, cfg.RoutingKey, logger)
	p.conn = conn
	logger.Info("RabbitMQ publisher ready",
		zap.String("exchange", cfg.Exchange),
		zap.String("routing_key", cfg.RoutingKey),
	)
	return p, nil
}

func newAMQPPublisher(ch amqpChannel, exchange, routingKey string, logger *zap.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger,
	}
}

func (p *AMQPPublisher) EventTypes() []string { return orderPlacedTypes }

// Handle publishes the event as a persistent JSON message
func (p *AMQPPublisher) Handle(ctx context.Context, event shared.DomainEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.EventType(), err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    event.EventID().String(),
		Type:         event.EventType(),
		Timestamp:    event.OccurredAt(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.EventType(), err)
	}

	p.logger.Debug("order event published",
		zap.String("event_id", event.EventID().String()),
		zap.String("routing_key", p.routingKey),
	)
	return nil
}

// Close closes the channel and the connection
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

var _ shared.EventHandler = (*AMQPPublisher)(nil)
