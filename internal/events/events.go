// Package events announces order lifecycle changes to other services.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Type string

const (
	OrderCreated       Type = "order.created"
	OrderUpdated       Type = "order.updated"
	OrderStatusChanged Type = "order.status_changed"
)

type Event struct {
	Type           Type               `json:"type"`
	OrderID        string             `json:"orderId"`
	Status         models.OrderStatus `json:"status"`
	PreviousStatus models.OrderStatus `json:"previousStatus,omitempty"`
	TotalAmount    float64            `json:"totalAmount"`
	At             time.Time          `json:"at"`
}

func NewOrderEvent(t Type, o *models.Order) Event {
	return Event{
		Type:        t,
		OrderID:     o.ID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		At:          time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes events as JSON to a durable topic exchange, with
// the event type as routing key.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       Channel
	exchange string
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := NewAMQPPublisher(ch, exchange)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func NewAMQPPublisher(ch Channel, exchange string) (*AMQPPublisher, error) {
	err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		p.exchange,     // exchange
		string(e.Type), // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    e.At,
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Notify publishes e and logs a failure instead of returning it: an order
// that was stored must not be reported as failed because the broker is down.
func Notify(ctx context.Context, p Publisher, e Event) {
	if err := p.Publish(ctx, e); err != nil {
		slog.Error("Failed to publish order event", "type", e.Type, "order_id", e.OrderID, "error", err)
	}
}
