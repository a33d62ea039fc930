package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widget() CartLineItem {
	return CartLineItem{
		ID:          "ITEM-001",
		Name:        "Steel Widget",
		ItemCode:    "ITEM-001",
		Price:       10.0,
		Currency:    "ETB",
		Stock:       5,
		MinOrderQty: 1,
		ItemGroup:   "Widgets",
	}
}

func gadget() CartLineItem {
	return CartLineItem{
		ID:          "ITEM-002",
		Name:        "Brass Gadget",
		ItemCode:    "ITEM-002",
		Price:       3.5,
		Currency:    "ETB",
		Stock:       10,
		MinOrderQty: 1,
		ItemGroup:   "Gadgets",
	}
}

func TestAddItem_NewLine(t *testing.T) {
	c := Cart{}.AddItem(widget(), 2)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, 2, c.TotalItems)
	assert.Equal(t, 20.0, c.TotalPrice)
	assert.Equal(t, "ETB", c.Currency)
}

func TestAddItem_ExistingLineMergesQuantity(t *testing.T) {
	c := Cart{}.AddItem(widget(), 2)
	c = c.AddItem(widget(), 1)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 3, c.TotalItems)
	assert.Equal(t, 30.0, c.TotalPrice)
}

func TestAddItem_StockCeilingIsSilentNoOp(t *testing.T) {
	c := Cart{}.AddItem(widget(), 4)
	before := c

	// 4 + 2 > stock of 5: the whole add is dropped, not clamped.
	after := c.AddItem(widget(), 2)

	assert.Equal(t, before, after)
	assert.Equal(t, 4, after.TotalItems)
	assert.Equal(t, 40.0, after.TotalPrice)
}

func TestAddItem_NewLineOverStockDropped(t *testing.T) {
	c := Cart{}.AddItem(widget(), 6)

	assert.Empty(t, c.Items)
	assert.Zero(t, c.TotalItems)
}

func TestAddItem_OutOfStockItemDropped(t *testing.T) {
	item := widget()
	item.Stock = 0

	c := Cart{}.AddItem(item, 1)

	assert.Empty(t, c.Items)
}

func TestAddItem_NonPositiveQuantityDefaultsToOne(t *testing.T) {
	c := Cart{}.AddItem(widget(), 0)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	c := Cart{}.AddItem(widget(), 2).AddItem(gadget(), 1)
	c = c.RemoveItem("ITEM-001")

	require.Len(t, c.Items, 1)
	assert.Equal(t, "ITEM-002", c.Items[0].ID)
	assert.Equal(t, 1, c.TotalItems)
	assert.Equal(t, 3.5, c.TotalPrice)
}

func TestRemoveItem_AbsentLineIsNoOp(t *testing.T) {
	c := Cart{}.AddItem(widget(), 2)
	before := c

	assert.Equal(t, before, c.RemoveItem("NOPE"))
}

func TestUpdateQuantity(t *testing.T) {
	c := Cart{}.AddItem(widget(), 2)
	c = c.UpdateQuantity("ITEM-001", 4)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 4, c.Items[0].Quantity)
	assert.Equal(t, 40.0, c.TotalPrice)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	c := Cart{}.AddItem(widget(), 2).AddItem(gadget(), 1)
	c = c.UpdateQuantity("ITEM-001", 0)

	require.Len(t, c.Items, 1)
	assert.Equal(t, "ITEM-002", c.Items[0].ID)
}

func TestUpdateQuantity_NegativeRemovesLine(t *testing.T) {
	c := Cart{}.AddItem(widget(), 2)
	c = c.UpdateQuantity("ITEM-001", -5)

	assert.Empty(t, c.Items)
	assert.Zero(t, c.TotalItems)
	assert.Zero(t, c.TotalPrice)
}

func TestClear_KeepsOpenFlag(t *testing.T) {
	c := Cart{}.AddItem(widget(), 2).WithOpen(true)
	c = c.Clear()

	assert.Empty(t, c.Items)
	assert.Zero(t, c.TotalItems)
	assert.Zero(t, c.TotalPrice)
	assert.Empty(t, c.Currency)
	assert.True(t, c.IsOpen)
}

func TestToggle(t *testing.T) {
	c := Cart{}
	assert.True(t, c.Toggle().IsOpen)
	assert.False(t, c.Toggle().Toggle().IsOpen)
}

func TestTotalsAlwaysDerivedFromItems(t *testing.T) {
	c := Cart{}
	c = c.AddItem(widget(), 2)  // 20.00
	c = c.AddItem(gadget(), 3)  // 10.50
	c = c.UpdateQuantity("ITEM-002", 2) // 7.00
	c = c.RemoveItem("ITEM-001")

	assert.Equal(t, 2, c.TotalItems)
	assert.Equal(t, 7.0, c.TotalPrice)
}

func TestRecompute_DecimalSum(t *testing.T) {
	// 0.1 * 3 drifts under naive float addition.
	item := widget()
	item.Price = 0.1
	item.Stock = 100

	c := Cart{}.AddItem(item, 3)

	assert.Equal(t, 0.3, c.TotalPrice)
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	base := Cart{}.AddItem(widget(), 2)
	snapshot := base.Items[0].Quantity

	_ = base.AddItem(widget(), 1)
	_ = base.UpdateQuantity("ITEM-001", 5)
	_ = base.RemoveItem("ITEM-001")

	assert.Equal(t, snapshot, base.Items[0].Quantity)
	assert.Len(t, base.Items, 1)
}

func TestNewCartFromItems(t *testing.T) {
	w := widget()
	w.Quantity = 2
	g := gadget()
	g.Quantity = 1

	c := NewCartFromItems([]CartLineItem{w, g})

	assert.Equal(t, 3, c.TotalItems)
	assert.Equal(t, 23.5, c.TotalPrice)
	assert.Equal(t, "ETB", c.Currency)
	assert.False(t, c.IsOpen)
}
