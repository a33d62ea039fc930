package domain

import "github.com/shopspring/decimal"

// CartLineItem is one product entry in the cart. Quantity is bounded by
// MinOrderQty and Stock; bounds are enforced on add, the caller clamps on
// explicit quantity updates.
type CartLineItem struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ItemCode      string  `json:"item_code"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	Image         string  `json:"image,omitempty"`
	Stock         int     `json:"stock"`
	MinOrderQty   int     `json:"min_order_qty"`
	ItemGroup     string  `json:"item_group"`
	WeightPerUnit float64 `json:"weight_per_unit,omitempty"`
	WeightUOM     string  `json:"weight_uom,omitempty"`
	Quantity      int     `json:"quantity"`
}

// Cart is the authoritative shopping cart state. TotalItems, TotalPrice and
// Currency are derived from Items after every transition. IsOpen is a UI
// flag and is never persisted.
type Cart struct {
	Items      []CartLineItem `json:"items"`
	TotalItems int            `json:"total_items"`
	TotalPrice float64        `json:"total_price"`
	Currency   string         `json:"currency,omitempty"`
	IsOpen     bool           `json:"is_open"`
}

// NewCartFromItems builds a cart from a hydrated item list, deriving totals.
func NewCartFromItems(items []CartLineItem) Cart {
	return Cart{Items: items}.recompute()
}

// AddItem returns the cart with the item added, or its quantity increased if
// a line with the same ID already exists. Adds that would push a line past
// its stock ceiling are dropped: the returned cart is the receiver unchanged.
func (c Cart) AddItem(item CartLineItem, quantity int) Cart {
	if quantity <= 0 {
		quantity = 1
	}
	for i, existing := range c.Items {
		if existing.ID != item.ID {
			continue
		}
		next := existing.Quantity + quantity
		if next > existing.Stock {
			return c
		}
		items := c.cloneItems()
		items[i].Quantity = next
		c.Items = items
		return c.recompute()
	}
	if item.Stock <= 0 || quantity > item.Stock {
		return c
	}
	item.Quantity = quantity
	c.Items = append(c.cloneItems(), item)
	return c.recompute()
}

// RemoveItem deletes the line with the given ID. Removing an absent line is
// a no-op.
func (c Cart) RemoveItem(id string) Cart {
	for i, existing := range c.Items {
		if existing.ID != id {
			continue
		}
		items := c.cloneItems()
		c.Items = append(items[:i], items[i+1:]...)
		return c.recompute()
	}
	return c
}

// UpdateQuantity sets the line's quantity to the given value. Any
// non-positive quantity removes the line. Bounds are not re-validated here;
// callers clamp to [MinOrderQty, Stock] before dispatching.
func (c Cart) UpdateQuantity(id string, quantity int) Cart {
	if quantity <= 0 {
		return c.RemoveItem(id)
	}
	for i, existing := range c.Items {
		if existing.ID != id {
			continue
		}
		items := c.cloneItems()
		items[i].Quantity = quantity
		c.Items = items
		return c.recompute()
	}
	return c
}

// Clear empties the cart. IsOpen is left as-is.
func (c Cart) Clear() Cart {
	c.Items = nil
	return c.recompute()
}

// WithOpen sets the flyout visibility flag without touching items or totals.
func (c Cart) WithOpen(open bool) Cart {
	c.IsOpen = open
	return c
}

// Toggle flips the flyout visibility flag.
func (c Cart) Toggle() Cart {
	c.IsOpen = !c.IsOpen
	return c
}

// Line returns the line with the given ID, if present.
func (c Cart) Line(id string) (CartLineItem, bool) {
	for _, existing := range c.Items {
		if existing.ID == id {
			return existing, true
		}
	}
	return CartLineItem{}, false
}

func (c Cart) cloneItems() []CartLineItem {
	if len(c.Items) == 0 {
		return nil
	}
	items := make([]CartLineItem, len(c.Items))
	copy(items, c.Items)
	return items
}

// recompute derives totals from the current item list. Prices are summed
// with decimal arithmetic so repeated float additions cannot drift. All
// lines share one currency; totals read it off the first line.
func (c Cart) recompute() Cart {
	total := decimal.Zero
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	c.TotalItems = count
	c.TotalPrice, _ = total.Float64()
	if len(c.Items) > 0 {
		c.Currency = c.Items[0].Currency
	} else {
		c.Currency = ""
	}
	return c
}
