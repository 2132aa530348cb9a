package cart

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSameProductMergesQuantity(t *testing.T) {
	c := New()
	c.Add(LineItem{ID: 1, Name: "Pearl Drop", Price: 899, Quantity: 2, Size: "M", Color: "Gold"})
	c.Add(LineItem{ID: 1, Name: "Pearl Drop (new)", Price: 999, Quantity: 3, Size: "L", Color: "Silver"})

	require.Equal(t, 1, c.Len())
	line, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, 899.0, line.Price, "first add's price sticks")
	assert.Equal(t, "M", line.Size)
	assert.Equal(t, "Gold", line.Color)
	assert.Equal(t, "Pearl Drop", line.Name)
}

func TestUpdateQuantityFloorsAtOne(t *testing.T) {
	c := New()
	c.Add(LineItem{ID: 7, Price: 10, Quantity: 3})

	assert.True(t, c.UpdateQuantity(7, -100))
	line, ok := c.Get(7)
	require.True(t, ok, "decrementing never removes the line")
	assert.Equal(t, 1, line.Quantity)

	assert.True(t, c.UpdateQuantity(7, 4))
	line, _ = c.Get(7)
	assert.Equal(t, 5, line.Quantity)

	assert.False(t, c.UpdateQuantity(99, 1))
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	c.Add(LineItem{ID: 1, Price: 1, Quantity: 1})
	c.Add(LineItem{ID: 2, Price: 2, Quantity: 1})
	c.Add(LineItem{ID: 3, Price: 3, Quantity: 1})

	assert.True(t, c.Remove(2))
	assert.False(t, c.Remove(2))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, int64(3), items[1].ID)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.Total())
}

func TestAddClampsQuantity(t *testing.T) {
	c := New()
	c.Add(LineItem{ID: 1, Price: 5, Quantity: 0})
	c.Add(LineItem{ID: 2, Price: 5, Quantity: -4})

	for _, it := range c.Items() {
		assert.Equal(t, 1, it.Quantity)
	}
}

func TestQuantityIsCappedWithoutOverflow(t *testing.T) {
	c := New()
	c.Add(LineItem{ID: 1, Price: 1, Quantity: 1 << 62})
	c.Add(LineItem{ID: 1, Price: 1, Quantity: 1 << 62})

	line, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, MaxQuantity, line.Quantity)
	assert.Equal(t, float64(MaxQuantity), c.Total())

	assert.True(t, c.UpdateQuantity(1, math.MaxInt))
	line, _ = c.Get(1)
	assert.Equal(t, MaxQuantity, line.Quantity)

	assert.True(t, c.UpdateQuantity(1, math.MinInt))
	line, _ = c.Get(1)
	assert.Equal(t, 1, line.Quantity)
}

func TestTotal(t *testing.T) {
	c := New()
	c.Add(LineItem{ID: 1, Price: 1299, Quantity: 1})
	c.Add(LineItem{ID: 2, Price: 899, Quantity: 2})

	assert.Equal(t, 3097.0, c.Total())
	assert.Equal(t, 3097.0, c.Total(), "total is recomputed without side effects")
	assert.Equal(t, 3, c.Count())
}

func TestItemsReturnsCopy(t *testing.T) {
	c := New()
	c.Add(LineItem{ID: 1, Price: 10, Quantity: 1})

	items := c.Items()
	items[0].Quantity = 0

	line, _ := c.Get(1)
	assert.Equal(t, 1, line.Quantity)
}

// Random operation sequences never leave a line below quantity 1, and the
// total always equals the plain sum over surviving lines.
func TestCartInvariantsUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	prices := map[int64]float64{1: 1299, 2: 899, 3: 49.5, 4: 0, 5: 12.25}

	for run := 0; run < 200; run++ {
		c := New()
		for step := 0; step < 50; step++ {
			id := int64(rng.Intn(5) + 1)
			switch rng.Intn(3) {
			case 0:
				c.Add(LineItem{ID: id, Price: prices[id], Quantity: rng.Intn(5)})
			case 1:
				c.UpdateQuantity(id, rng.Intn(21)-10)
			case 2:
				c.Remove(id)
			}

			var want float64
			seen := make(map[int64]bool)
			for _, it := range c.Items() {
				require.GreaterOrEqual(t, it.Quantity, 1)
				require.False(t, seen[it.ID], "one line per product id")
				seen[it.ID] = true
				want += it.Price * float64(it.Quantity)
			}
			require.InDelta(t, want, c.Total(), 1e-9)
		}
	}
}

func TestJSONRoundTripKeepsOrder(t *testing.T) {
	c := New()
	c.Add(LineItem{ID: 3, Name: "c", Price: 3, Quantity: 1})
	c.Add(LineItem{ID: 1, Name: "a", Price: 1, Quantity: 2, Size: "S"})

	data, err := json.Marshal(c)
	require.NoError(t, err)

	got := New()
	require.NoError(t, json.Unmarshal(data, got))
	assert.Equal(t, c.Items(), got.Items())
}

func TestUnmarshalNormalizesStoredCart(t *testing.T) {
	raw := `{"items":[{"id":1,"price":10,"quantity":0},{"id":1,"price":12,"quantity":2}]}`

	c := New()
	require.NoError(t, json.Unmarshal([]byte(raw), c))
	require.Equal(t, 1, c.Len())
	line, _ := c.Get(1)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, 10.0, line.Price)
}

func TestEmptyCartMarshalsEmptyArray(t *testing.T) {
	data, err := json.Marshal(New())
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(data))
}
