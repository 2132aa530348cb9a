package store

import (
	"context"
	"fmt"

	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
)

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.products.Load(ctx)
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	products, err := s.products.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
}

// CreateProduct appends a new product with a server-issued id.
func (s *Store) CreateProduct(ctx context.Context, patch models.ProductPatch) (*models.Product, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var created models.Product
	err := s.products.Update(ctx, func(products []models.Product) ([]models.Product, error) {
		var maxID int64
		for _, p := range products {
			maxID = max(maxID, p.ID)
		}
		created = models.Product{ID: nextID(s.now(), maxID)}
		patch.Apply(&created)
		return append(products, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct merges patch over the stored product.
func (s *Store) UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var updated models.Product
	err := s.products.Update(ctx, func(products []models.Product) ([]models.Product, error) {
		for i := range products {
			if products[i].ID == id {
				patch.Apply(&products[i])
				updated = products[i]
				return products, nil
			}
		}
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	return s.products.Update(ctx, func(products []models.Product) ([]models.Product, error) {
		kept := products[:0]
		for _, p := range products {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(products) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return kept, nil
	})
}
