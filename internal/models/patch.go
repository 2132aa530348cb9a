package models

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries per-field messages for a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError returns nil when fields is empty so callers can
// return it unconditionally.
func NewValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// ProductPatch is the partial form of Product accepted by create and update.
// A nil field means "keep what is there". Any id in the payload is ignored.
type ProductPatch struct {
	Name        *string   `json:"name,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Stock       *int      `json:"stock,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Description *string   `json:"description,omitempty"`
	Sizes       *[]string `json:"sizes,omitempty"`
	Colors      *[]string `json:"colors,omitempty"`
}

func (p ProductPatch) Validate() error {
	errs := make(map[string]string)
	if p.Price != nil && *p.Price < 0 {
		errs["price"] = "Price must not be negative."
	}
	if p.Stock != nil && *p.Stock < 0 {
		errs["stock"] = "Stock must not be negative."
	}
	return NewValidationError(errs)
}

func (p ProductPatch) Apply(dst *Product) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Stock != nil {
		dst.Stock = *p.Stock
	}
	if p.Image != nil {
		dst.Image = *p.Image
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Sizes != nil {
		dst.Sizes = append([]string(nil), (*p.Sizes)...)
	}
	if p.Colors != nil {
		dst.Colors = append([]string(nil), (*p.Colors)...)
	}
}

type CustomerPatch struct {
	Name       *string         `json:"name,omitempty"`
	Email      *string         `json:"email,omitempty"`
	Phone      *string         `json:"phone,omitempty"`
	Status     *CustomerStatus `json:"status,omitempty"`
	Orders     *int            `json:"orders,omitempty"`
	TotalSpent *float64        `json:"totalSpent,omitempty"`
}

func (p CustomerPatch) Validate() error {
	errs := make(map[string]string)
	if p.Status != nil && !p.Status.Valid() {
		errs["status"] = "Status must be Active or Inactive."
	}
	if p.Orders != nil && *p.Orders < 0 {
		errs["orders"] = "Order count must not be negative."
	}
	if p.TotalSpent != nil && *p.TotalSpent < 0 {
		errs["totalSpent"] = "Total spent must not be negative."
	}
	return NewValidationError(errs)
}

func (p CustomerPatch) Apply(dst *Customer) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Email != nil {
		dst.Email = *p.Email
	}
	if p.Phone != nil {
		dst.Phone = *p.Phone
	}
	if p.Status != nil {
		dst.Status = *p.Status
	}
	if p.Orders != nil {
		dst.Orders = *p.Orders
	}
	if p.TotalSpent != nil {
		dst.TotalSpent = *p.TotalSpent
	}
}

// OrderPatch is the admin-side partial update of an order. Items, id and
// creation time are not patchable: the item list is a historical snapshot.
type OrderPatch struct {
	Customer      *OrderCustomer `json:"customer,omitempty"`
	TotalAmount   *float64       `json:"totalAmount,omitempty"`
	Status        *OrderStatus   `json:"status,omitempty"`
	PaymentMethod *string        `json:"paymentMethod,omitempty"`
}

func (p OrderPatch) Validate() error {
	errs := make(map[string]string)
	if p.Status != nil && !p.Status.Valid() {
		errs["status"] = fmt.Sprintf("Unknown order status %q.", *p.Status)
	}
	if p.TotalAmount != nil && *p.TotalAmount < 0 {
		errs["totalAmount"] = "Total amount must not be negative."
	}
	return NewValidationError(errs)
}

func (p OrderPatch) Apply(dst *Order) {
	if p.Customer != nil {
		dst.Customer = *p.Customer
	}
	if p.TotalAmount != nil {
		dst.TotalAmount = *p.TotalAmount
	}
	if p.Status != nil {
		dst.Status = *p.Status
	}
	if p.PaymentMethod != nil {
		dst.PaymentMethod = *p.PaymentMethod
	}
}

// ValidateNew checks an order payload submitted for creation.
func (o Order) ValidateNew() error {
	errs := make(map[string]string)
	if len(o.Items) == 0 {
		errs["items"] = "An order needs at least one item."
	}
	for i, it := range o.Items {
		if it.Quantity < 1 {
			errs[fmt.Sprintf("items[%d].quantity", i)] = "Quantity must be at least 1."
		}
		if it.Price < 0 {
			errs[fmt.Sprintf("items[%d].price", i)] = "Price must not be negative."
		}
	}
	if o.TotalAmount < 0 {
		errs["totalAmount"] = "Total amount must not be negative."
	}
	if o.Status != "" && !o.Status.Valid() {
		errs["status"] = fmt.Sprintf("Unknown order status %q.", o.Status)
	}
	return NewValidationError(errs)
}
