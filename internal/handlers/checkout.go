package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Akash-rengaraj/sanjana-creations/internal/cart"
	"github.com/Akash-rengaraj/sanjana-creations/internal/checkout"
	"github.com/Akash-rengaraj/sanjana-creations/internal/events"
	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
	"github.com/gorilla/sessions"
)

type CheckoutHandler struct {
	Orders       checkout.OrderCreator
	Carts        cart.Repository
	SessionStore *sessions.CookieStore
	Pricing      checkout.Pricing
	Events       events.Publisher
}

type checkoutRequest struct {
	Shipping      checkout.ShippingInfo  `json:"shipping"`
	PaymentMethod checkout.PaymentMethod `json:"paymentMethod"`
}

type checkoutResponse struct {
	Order   *models.Order    `json:"order"`
	Summary checkout.Summary `json:"summary"`
}

// Place runs the whole checkout flow for the session cart in one request.
// The cart is emptied only once the order is stored.
func (h *CheckoutHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cartID, c, err := sessionCart(w, r, h.SessionStore, h.Carts)
	if err != nil {
		writeError(w, r, "Cart", err)
		return
	}

	flow := checkout.NewFlow(c, h.Orders, h.Pricing)
	if err := flow.SubmitShipping(req.Shipping); err != nil {
		writeError(w, r, "Order", err)
		return
	}
	if err := flow.ChoosePayment(req.PaymentMethod); err != nil {
		writeError(w, r, "Order", err)
		return
	}

	summary := flow.Summary()
	order, err := flow.Place(r.Context())
	if err != nil {
		slog.Warn("Checkout failed", "cart_id", cartID, "error", err)
		writeError(w, r, "Order", err)
		return
	}

	if err := h.Carts.Save(r.Context(), cartID, c); err != nil {
		// The order is already stored, so this is only logged.
		slog.Error("Failed to clear cart after checkout", "cart_id", cartID, "order_id", order.ID, "error", err)
	}

	slog.Info("Order placed", "order_id", order.ID, "total", order.TotalAmount, "payment_method", order.PaymentMethod)
	events.Notify(r.Context(), h.Events, events.NewOrderEvent(events.OrderCreated, order))
	writeJSON(w, http.StatusCreated, checkoutResponse{Order: order, Summary: summary})
}

func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	_, c, err := sessionCart(w, r, h.SessionStore, h.Carts)
	if err != nil {
		writeError(w, r, "Cart", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Pricing.Summarize(c))
}
