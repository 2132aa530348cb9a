package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	return NewStore(b), dir
}

func sampleOrders() []models.Order {
	return []models.Order{
		{
			ID:            "o-1",
			Customer:      models.OrderCustomer{Name: "Asha Rao", Email: "asha@example.com", Phone: "98450", Address: "1 MG Road, Bengaluru, 560001"},
			Items:         []models.OrderItem{{ProductID: 11, Name: "Pearl Drop", Quantity: 2, Price: 899}},
			TotalAmount:   1848,
			Status:        models.StatusProcessing,
			PaymentMethod: "Card",
			CreatedAt:     time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:          "o-2",
			Items:       []models.OrderItem{{ProductID: 12, Name: "Gold Hoop", Quantity: 1, Price: 1299}},
			TotalAmount: 1299,
			Status:      models.StatusPending,
			CreatedAt:   time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestCollectionMissingDocumentLoadsEmpty(t *testing.T) {
	s, _ := newFileStore(t)
	products, err := s.products.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestCollectionRoundTripFile(t *testing.T) {
	s, dir := newFileStore(t)
	ctx := context.Background()

	want := sampleOrders()
	require.NoError(t, s.orders.Save(ctx, want))

	got, err := s.orders.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	raw, err := os.ReadFile(filepath.Join(dir, "orders.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n    {\n        \"id\": \"o-1\"", "document is pretty-printed with 4-space indent")
}

func TestCollectionRoundTripProducts(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	want := []models.Product{
		{ID: 1700000000000, Name: "Pearl Drop", Category: "Earrings", Price: 899, Stock: 12, Image: "/uploads/image-1.png", Description: "Freshwater"},
		{ID: 1700000000001, Name: "Gold Hoop", Category: "Earrings", Price: 1299, Sizes: []string{"S", "M"}, Colors: []string{"Gold"}},
	}
	require.NoError(t, s.products.Save(ctx, want))
	got, err := s.products.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCollectionSaveNilWritesEmptyArray(t *testing.T) {
	s, dir := newFileStore(t)
	require.NoError(t, s.customers.Save(context.Background(), nil))

	raw, err := os.ReadFile(filepath.Join(dir, "customers.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestCollectionCorruptDocumentIsIOFailure(t *testing.T) {
	s, dir := newFileStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte("{not json"), 0o644))

	_, err := s.ListProducts(context.Background())
	require.Error(t, err)
	assert.True(t, IsIOFailure(err))
	assert.False(t, IsNotFound(err))
}

func TestCollectionUpdateErrorWritesNothing(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, s.orders.Save(ctx, sampleOrders()))

	boom := errors.New("boom")
	err := s.orders.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		orders[0].Status = models.StatusCancelled
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.orders.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleOrders(), got)
}
