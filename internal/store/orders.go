package store

import (
	"context"
	"fmt"

	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
	"github.com/google/uuid"
)

// ListOrders returns orders in insertion order, oldest first.
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.Load(ctx)
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	orders, err := s.orders.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
}

// CreateOrder appends order with a server-issued id. It is bookkeeping
// only: stock is not decremented and no payment is taken.
func (s *Store) CreateOrder(ctx context.Context, order models.Order) (*models.Order, error) {
	if err := order.ValidateNew(); err != nil {
		return nil, err
	}

	created := order
	created.ID = uuid.New().String()
	created.Items = append([]models.OrderItem(nil), order.Items...)
	if created.Status == "" {
		created.Status = models.StatusPending
	}
	created.CreatedAt = s.now().UTC()

	err := s.orders.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		return append(orders, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateOrder merges patch over the stored order and also returns the
// status it had before.
func (s *Store) UpdateOrder(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, models.OrderStatus, error) {
	if err := patch.Validate(); err != nil {
		return nil, "", err
	}
	var (
		updated  models.Order
		previous models.OrderStatus
	)
	err := s.orders.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		for i := range orders {
			if orders[i].ID == id {
				previous = orders[i].Status
				patch.Apply(&orders[i])
				updated = orders[i]
				return orders, nil
			}
		}
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return nil, "", err
	}
	return &updated, previous, nil
}

// UpdateOrderStatus overwrites the status unconditionally; any known status
// may follow any other. It returns the status the order had before.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, models.OrderStatus, error) {
	if !status.Valid() {
		return nil, "", models.NewValidationError(map[string]string{
			"status": fmt.Sprintf("Unknown order status %q.", status),
		})
	}
	var (
		updated  models.Order
		previous models.OrderStatus
	)
	err := s.orders.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		for i := range orders {
			if orders[i].ID == id {
				previous = orders[i].Status
				orders[i].Status = status
				updated = orders[i]
				return orders, nil
			}
		}
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return nil, "", err
	}
	return &updated, previous, nil
}
