package checkout

import (
	"github.com/Akash-rengaraj/sanjana-creations/internal/cart"
)

// Pricing holds the storefront's shipping and tax rules.
type Pricing struct {
	FreeShippingThreshold float64
	ShippingFee           float64
	// TaxRate is shown to the shopper (GST) but is not added to the total.
	TaxRate float64
}

var DefaultPricing = Pricing{
	FreeShippingThreshold: 500,
	ShippingFee:           50,
	TaxRate:               0.18,
}

type Summary struct {
	Lines    int     `json:"lines"`
	Units    int     `json:"units"`
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Summarize prices c. Shipping is free once the subtotal reaches the
// threshold; total is subtotal plus shipping.
func (p Pricing) Summarize(c *cart.Cart) Summary {
	subtotal := c.Total()
	shipping := p.ShippingFee
	if subtotal >= p.FreeShippingThreshold {
		shipping = 0
	}
	return Summary{
		Lines:    c.Len(),
		Units:    c.Count(),
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      subtotal * p.TaxRate,
		Total:    subtotal + shipping,
	}
}
