package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusValidAndTerminal(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("Lost").Valid())
	assert.False(t, OrderStatus("").Valid())

	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusShipped, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusShipped, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{OrderStatus("Lost"), StatusPending, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestProductPatchMergesOnlyPresentFields(t *testing.T) {
	p := Product{ID: 7, Name: "Ring", Category: "Jewelry", Price: 1299, Stock: 4, Image: "/uploads/a.png"}

	var patch ProductPatch
	require.NoError(t, json.Unmarshal([]byte(`{"price": 999, "stock": 0, "id": 1}`), &patch))
	require.NoError(t, patch.Validate())
	patch.Apply(&p)

	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "Ring", p.Name)
	assert.Equal(t, "Jewelry", p.Category)
	assert.Equal(t, 999.0, p.Price)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, "/uploads/a.png", p.Image)
}

func TestProductPatchRejectsNegativeValues(t *testing.T) {
	price, stock := -1.0, -2
	err := ProductPatch{Price: &price, Stock: &stock}.Validate()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "price")
	assert.Contains(t, verr.Fields, "stock")
}

func TestCustomerPatchRejectsUnknownStatus(t *testing.T) {
	status := CustomerStatus("Banned")
	err := CustomerPatch{Status: &status}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status")

	ok := CustomerInactive
	assert.NoError(t, CustomerPatch{Status: &ok}.Validate())
}

func TestOrderPatchLeavesItemsAlone(t *testing.T) {
	o := Order{ID: "a", Items: []OrderItem{{ProductID: 1, Name: "Ring", Quantity: 1, Price: 10}}, Status: StatusPending}

	var patch OrderPatch
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Shipped","items":[]}`), &patch))
	require.NoError(t, patch.Validate())
	patch.Apply(&o)

	assert.Equal(t, StatusShipped, o.Status)
	assert.Len(t, o.Items, 1)
}

func TestOrderValidateNew(t *testing.T) {
	assert.Error(t, Order{}.ValidateNew())
	assert.Error(t, Order{Items: []OrderItem{{Quantity: 0}}}.ValidateNew())
	assert.Error(t, Order{Items: []OrderItem{{Quantity: 1}}, Status: "Lost"}.ValidateNew())
	assert.NoError(t, Order{Items: []OrderItem{{Quantity: 1, Price: 5}}}.ValidateNew())
}
