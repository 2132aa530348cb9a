// Package checkout turns a cart into a placed order through three steps:
// shipping details, payment method, review.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Akash-rengaraj/sanjana-creations/internal/cart"
	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
)

type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepReview
	StepPlaced
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	case StepPlaced:
		return "placed"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// ErrWrongStep is returned when an action is not allowed at the current step.
var ErrWrongStep = errors.New("checkout: action not allowed at this step")

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "Card"
	PaymentUPI  PaymentMethod = "UPI"
	PaymentCOD  PaymentMethod = "COD"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentUPI || m == PaymentCOD
}

// GuestEmail stands in when the shopper leaves the email blank.
const GuestEmail = "guest@example.com"

type ShippingInfo struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
}

// Validate requires every field except Email.
func (s ShippingInfo) Validate() error {
	errs := make(map[string]string)
	required := []struct{ field, value, msg string }{
		{"firstName", s.FirstName, "First name is required."},
		{"lastName", s.LastName, "Last name is required."},
		{"address", s.Address, "Address is required."},
		{"city", s.City, "City is required."},
		{"postalCode", s.PostalCode, "Postal code is required."},
		{"phone", s.Phone, "Phone number is required."},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs[r.field] = r.msg
		}
	}
	return models.NewValidationError(errs)
}

func (s ShippingInfo) customer() models.OrderCustomer {
	email := strings.TrimSpace(s.Email)
	if email == "" {
		email = GuestEmail
	}
	return models.OrderCustomer{
		Name:    strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName),
		Email:   email,
		Phone:   strings.TrimSpace(s.Phone),
		Address: fmt.Sprintf("%s, %s, %s", strings.TrimSpace(s.Address), strings.TrimSpace(s.City), strings.TrimSpace(s.PostalCode)),
	}
}

// OrderCreator persists a new order and returns it with its id.
type OrderCreator interface {
	CreateOrder(ctx context.Context, order models.Order) (*models.Order, error)
}

// Flow walks one cart through checkout. It clears the cart only after the
// order has been stored; a failed placement leaves both the cart and the
// flow at the review step.
type Flow struct {
	cart    *cart.Cart
	orders  OrderCreator
	pricing Pricing

	step     Step
	shipping ShippingInfo
	payment  PaymentMethod
	placed   *models.Order
}

func NewFlow(c *cart.Cart, orders OrderCreator, pricing Pricing) *Flow {
	return &Flow{
		cart:    c,
		orders:  orders,
		pricing: pricing,
		step:    StepShipping,
		payment: PaymentCard,
	}
}

func (f *Flow) Step() Step { return f.step }

func (f *Flow) Shipping() ShippingInfo { return f.shipping }

func (f *Flow) PaymentMethod() PaymentMethod { return f.payment }

func (f *Flow) Summary() Summary { return f.pricing.Summarize(f.cart) }

// OrderID is empty until the order has been placed.
func (f *Flow) OrderID() string {
	if f.placed == nil {
		return ""
	}
	return f.placed.ID
}

func (f *Flow) SubmitShipping(info ShippingInfo) error {
	if f.step != StepShipping {
		return ErrWrongStep
	}
	if err := info.Validate(); err != nil {
		return err
	}
	f.shipping = info
	f.step = StepPayment
	return nil
}

// ChoosePayment selects a method and advances to review. An empty method
// keeps the pre-selected one.
func (f *Flow) ChoosePayment(m PaymentMethod) error {
	if f.step != StepPayment {
		return ErrWrongStep
	}
	if m != "" {
		if !m.Valid() {
			return models.NewValidationError(map[string]string{
				"paymentMethod": fmt.Sprintf("Unknown payment method %q.", m),
			})
		}
		f.payment = m
	}
	f.step = StepReview
	return nil
}

// Back returns from review to payment, or from payment to shipping.
func (f *Flow) Back() error {
	switch f.step {
	case StepReview:
		f.step = StepPayment
	case StepPayment:
		f.step = StepShipping
	default:
		return ErrWrongStep
	}
	return nil
}

// Place stores the order built from the cart snapshot and, on success,
// clears the cart and finishes the flow.
func (f *Flow) Place(ctx context.Context) (*models.Order, error) {
	if f.step != StepReview {
		return nil, ErrWrongStep
	}
	if f.cart.IsEmpty() {
		return nil, models.NewValidationError(map[string]string{"items": "Your cart is empty."})
	}

	summary := f.Summary()
	lines := f.cart.Items()
	items := make([]models.OrderItem, 0, len(lines))
	for _, it := range lines {
		items = append(items, models.OrderItem{
			ProductID: it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	order, err := f.orders.CreateOrder(ctx, models.Order{
		Customer:      f.shipping.customer(),
		Items:         items,
		TotalAmount:   summary.Total,
		Status:        models.StatusPending,
		PaymentMethod: string(f.payment),
	})
	if err != nil {
		return nil, err
	}

	f.placed = order
	f.cart.Clear()
	f.step = StepPlaced
	return order, nil
}
