package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mocks for RabbitMQ components
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind, durable, autoDelete, internal, noWait, args).Error(0)
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(ctx, exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

func TestAMQPPublisherPublishesJSON(t *testing.T) {
	ch := &MockChannel{}
	ch.On("ExchangeDeclare", "orders", "topic", true, false, false, false, amqp.Table(nil)).Return(nil)

	var published amqp.Publishing
	ch.On("PublishWithContext", mock.Anything, "orders", "order.status_changed", false, false, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(5).(amqp.Publishing) }).
		Return(nil)

	p, err := NewAMQPPublisher(ch, "orders")
	require.NoError(t, err)

	order := &models.Order{ID: "abc", Status: models.StatusShipped, TotalAmount: 3097}
	e := NewOrderEvent(OrderStatusChanged, order)
	e.PreviousStatus = models.StatusPending
	require.NoError(t, p.Publish(context.Background(), e))

	assert.Equal(t, "application/json", published.ContentType)
	var got Event
	require.NoError(t, json.Unmarshal(published.Body, &got))
	assert.Equal(t, OrderStatusChanged, got.Type)
	assert.Equal(t, "abc", got.OrderID)
	assert.Equal(t, models.StatusShipped, got.Status)
	assert.Equal(t, models.StatusPending, got.PreviousStatus)
	ch.AssertExpectations(t)
}

func TestNewAMQPPublisherDeclareFailure(t *testing.T) {
	ch := &MockChannel{}
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("access refused"))

	_, err := NewAMQPPublisher(ch, "orders")
	assert.Error(t, err)
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, Event) error {
	f.calls++
	return errors.New("broker down")
}

func TestNotifySwallowsPublishErrors(t *testing.T) {
	p := &failingPublisher{}
	assert.NotPanics(t, func() {
		Notify(context.Background(), p, Event{Type: OrderCreated, OrderID: "x"})
	})
	assert.Equal(t, 1, p.calls)
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Event{}))
}
