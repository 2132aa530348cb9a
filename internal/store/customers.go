package store

import (
	"context"
	"fmt"

	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
)

func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.customers.Load(ctx)
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	customers, err := s.customers.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		if customers[i].ID == id {
			return &customers[i], nil
		}
	}
	return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
}

// CreateCustomer appends a customer; status defaults to Active.
func (s *Store) CreateCustomer(ctx context.Context, patch models.CustomerPatch) (*models.Customer, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var created models.Customer
	err := s.customers.Update(ctx, func(customers []models.Customer) ([]models.Customer, error) {
		var maxID int64
		for _, c := range customers {
			maxID = max(maxID, c.ID)
		}
		created = models.Customer{ID: nextID(s.now(), maxID), Status: models.CustomerActive}
		patch.Apply(&created)
		return append(customers, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, id int64, patch models.CustomerPatch) (*models.Customer, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var updated models.Customer
	err := s.customers.Update(ctx, func(customers []models.Customer) ([]models.Customer, error) {
		for i := range customers {
			if customers[i].ID == id {
				patch.Apply(&customers[i])
				updated = customers[i]
				return customers, nil
			}
		}
		return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	return s.customers.Update(ctx, func(customers []models.Customer) ([]models.Customer, error) {
		kept := customers[:0]
		for _, c := range customers {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		if len(kept) == len(customers) {
			return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		return kept, nil
	})
}
