package models

const CartStatusActive = "active"

type ProductSnapshot struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

type CartItem struct {
	Product         Ref             `json:"product"`
	ProductSnapshot ProductSnapshot `json:"productSnapshot"`
	Quantity        int             `json:"quantity"`
	Variant         string          `json:"variant,omitempty"`
}

// Cart is the server-computed cart. Totals are authoritative and are never
// derived on the client.
type Cart struct {
	User       string     `json:"user"`
	Items      []CartItem `json:"items"`
	Discount   float64    `json:"discount"`
	TotalPrice float64    `json:"totalPrice"`
	GrandTotal float64    `json:"grandTotal"`
	Status     string     `json:"status"`
	Coupon     string     `json:"coupon,omitempty"`
}

// Totals is the read-only projection returned by CalculateTotals.
type Totals struct {
	TotalPrice float64 `json:"totalPrice"`
	Discount   float64 `json:"discount"`
	GrandTotal float64 `json:"grandTotal"`
}

func EmptyCart() Cart {
	return Cart{Items: []CartItem{}, Status: CartStatusActive}
}

// Item returns the line for productID, if present.
func (c Cart) Item(productID string) (CartItem, bool) {
	for _, it := range c.Items {
		if it.Product.ID == productID {
			return it, true
		}
	}
	return CartItem{}, false
}

// Clone returns a copy that shares no slice storage with c.
func (c Cart) Clone() Cart {
	out := c
	out.Items = make([]CartItem, len(c.Items))
	copy(out.Items, c.Items)
	return out
}
