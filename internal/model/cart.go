package model

// CartItem is a retail cart line held in the visitor's session.
type CartItem struct {
	ProductID string  `json:"productId"`
	Nombre    string  `json:"nombre"`
	Precio    float64 `json:"precio"`
	Imagen    string  `json:"imagen"`
	Cantidad  int     `json:"cantidad"`
}

// WholesaleItem is a line of the per-user wholesale cart ("carritos_mayorista").
type WholesaleItem struct {
	ID         string  `json:"id"`
	Nombre     string  `json:"nombre"`
	Precio     float64 `json:"precio"`
	Imagen     string  `json:"imagen"`
	Cantidad   int     `json:"cantidad"`
	LoteMinimo int     `json:"loteMinimo"`
}

// Totals is the computed price breakdown of a cart.
// Values are never rounded during accumulation.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	Descuento float64 `json:"descuento"`
	IVA       float64 `json:"iva"`
	Total     float64 `json:"total"`
}

// CartRequest adds or updates a retail cart line.
type CartRequest struct {
	ProductID string `json:"productId"`
	Cantidad  int    `json:"cantidad"`
}

// WholesaleItemRequest adds a product to the wholesale cart.
type WholesaleItemRequest struct {
	ProductID string `json:"productId"`
	Cantidad  int    `json:"cantidad"`
}

// WholesaleQuantityRequest changes the quantity of a wholesale line.
type WholesaleQuantityRequest struct {
	Cantidad int `json:"cantidad"`
}

// CartResponse is the JSON view of a cart.
type CartResponse[T any] struct {
	Items  []T    `json:"items"`
	Totals Totals `json:"totals"`
	// Display holds the totals rounded for presentation.
	Display Totals `json:"display"`
}
