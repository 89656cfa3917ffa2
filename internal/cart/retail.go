package cart

import "autopartes/internal/model"

// Retail is a session-held retail cart. The zero value is an empty cart.
type Retail struct {
	items []model.CartItem
}

// NewRetail wraps the items stored in a session.
func NewRetail(items []model.CartItem) *Retail {
	return &Retail{items: append([]model.CartItem{}, items...)}
}

// Add merges item into an existing line with the same product id or appends it.
func (r *Retail) Add(item model.CartItem) error {
	if item.Cantidad <= 0 {
		return model.ErrInvalidQuantity
	}
	for i := range r.items {
		if r.items[i].ProductID == item.ProductID {
			r.items[i].Cantidad += item.Cantidad
			return nil
		}
	}
	r.items = append(r.items, item)
	return nil
}

// Update sets the quantity of a line. A quantity <= 0 removes it.
func (r *Retail) Update(productID string, cantidad int) error {
	for i := range r.items {
		if r.items[i].ProductID == productID {
			if cantidad <= 0 {
				r.items = append(r.items[:i], r.items[i+1:]...)
				return nil
			}
			r.items[i].Cantidad = cantidad
			return nil
		}
	}
	return model.ErrItemNotFound
}

// Remove drops the line for productID.
func (r *Retail) Remove(productID string) error {
	for i := range r.items {
		if r.items[i].ProductID == productID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return model.ErrItemNotFound
}

// Clear empties the cart.
func (r *Retail) Clear() {
	r.items = []model.CartItem{}
}

// Items returns a copy of the lines in insertion order.
func (r *Retail) Items() []model.CartItem {
	return append([]model.CartItem{}, r.items...)
}

// Response builds the JSON view with exact and display totals.
func (r *Retail) Response() model.CartResponse[model.CartItem] {
	totals := RetailTotals(r.items)
	return model.CartResponse[model.CartItem]{
		Items:   r.Items(),
		Totals:  totals,
		Display: Rounded(totals),
	}
}
