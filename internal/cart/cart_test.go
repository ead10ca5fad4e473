package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func snapshot(id string, price int64, stock int) ProductSnapshot {
	return ProductSnapshot{
		ID:    id,
		Name:  "Producto " + id,
		Price: decimal.NewFromInt(price),
		Stock: stock,
	}
}

func TestAddNewItemStartsAtOne(t *testing.T) {
	c := New(nil)
	require.True(t, c.Add(snapshot("p1", 100, 5)))
	require.Equal(t, 1, c.Quantity("p1"))
	require.Equal(t, 1, c.TotalItems())
}

func TestAddOutOfStockRefused(t *testing.T) {
	c := New(nil)
	require.False(t, c.Add(snapshot("p1", 100, 0)))
	require.True(t, c.IsEmpty())
}

func TestAddStopsExactlyAtStock(t *testing.T) {
	c := New(nil)
	p := snapshot("p1", 100, 3)
	for i := 0; i < 3; i++ {
		require.True(t, c.Add(p), "add %d should succeed", i+1)
	}
	require.False(t, c.Add(p))
	require.Equal(t, 3, c.Quantity("p1"))
}

func TestAddRestockRaisesCeiling(t *testing.T) {
	c := New(nil)
	require.True(t, c.Add(snapshot("p1", 100, 1)))
	require.False(t, c.Add(snapshot("p1", 100, 1)))

	// The backend restocked; the fresh snapshot governs the guard.
	require.True(t, c.Add(snapshot("p1", 100, 5)))
	require.Equal(t, 2, c.Quantity("p1"))
}

func TestAddStockDropTightensCeiling(t *testing.T) {
	c := New(nil)
	p := snapshot("p1", 100, 5)
	require.True(t, c.Add(p))
	require.True(t, c.Add(p))

	require.False(t, c.Add(snapshot("p1", 100, 2)))
	require.Equal(t, 2, c.Quantity("p1"))
}

func TestAddRefreshesPriceSnapshot(t *testing.T) {
	c := New(nil)
	require.True(t, c.Add(snapshot("p1", 100, 5)))
	require.True(t, c.Add(snapshot("p1", 120, 5)))
	require.True(t, c.TotalPrice().Equal(decimal.NewFromInt(240)))
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := New(nil)
	c.Add(snapshot("p1", 100, 5))
	c.Remove("p1")
	require.Equal(t, 0, c.Quantity("p1"))
	c.Remove("p1")
	require.True(t, c.IsEmpty())
}

func TestSetQuantityClampsToStock(t *testing.T) {
	c := New(nil)
	c.Add(snapshot("p1", 100, 4))
	c.SetQuantity("p1", 10, 4)
	require.Equal(t, 4, c.Quantity("p1"))
}

func TestSetQuantityZeroOrNegativeRemoves(t *testing.T) {
	c := New(nil)
	c.Add(snapshot("p1", 100, 4))
	c.SetQuantity("p1", 0)
	require.Equal(t, 0, c.Quantity("p1"))

	c.Add(snapshot("p2", 100, 4))
	c.SetQuantity("p2", -5)
	require.True(t, c.IsEmpty())
}

func TestSetQuantityAbsentIDIsNoop(t *testing.T) {
	c := New(nil)
	c.Add(snapshot("p1", 100, 4))
	c.SetQuantity("ghost", 3)
	require.Equal(t, 1, c.TotalItems())
	require.Equal(t, 0, c.Quantity("ghost"))
}

func TestTotals(t *testing.T) {
	c := New(nil)
	c.Add(snapshot("a", 100, 10))
	c.SetQuantity("a", 2, 10)
	c.Add(snapshot("b", 50, 10))

	require.Equal(t, 3, c.TotalItems())
	require.True(t, c.TotalPrice().Equal(decimal.NewFromInt(250)),
		"expected 250, got %s", c.TotalPrice())
}

func TestClearEmptiesEverything(t *testing.T) {
	c := New(nil)
	c.Add(snapshot("a", 100, 10))
	c.Add(snapshot("b", 50, 10))
	c.Clear()
	require.True(t, c.IsEmpty())
	require.Equal(t, 0, c.TotalItems())
	require.True(t, c.TotalPrice().IsZero())
}

func TestItemsReturnsCopy(t *testing.T) {
	c := New(nil)
	c.Add(snapshot("a", 100, 10))
	items := c.Items()
	items[0].Quantity = 99
	require.Equal(t, 1, c.Quantity("a"))
}

func TestNewCopiesInput(t *testing.T) {
	lines := []LineItem{{ID: "a", Price: decimal.NewFromInt(10), Stock: 5, Quantity: 2}}
	c := New(lines)
	lines[0].Quantity = 5
	require.Equal(t, 2, c.Quantity("a"))
}
