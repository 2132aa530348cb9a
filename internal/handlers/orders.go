package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Akash-rengaraj/sanjana-creations/internal/events"
	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
	"github.com/Akash-rengaraj/sanjana-creations/internal/store"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type OrderHandler struct {
	Store  *store.Store
	Events events.Publisher
}

// List returns orders oldest first. With ?limit (and optionally ?page) it
// returns one page of that sequence, at most maxPageSize long.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Store.ListOrders(r.Context())
	if err != nil {
		writeError(w, r, "Order", err)
		return
	}

	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		writeJSON(w, http.StatusOK, orders)
		return
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	offset := len(orders)
	if page-1 <= len(orders)/limit {
		offset = min((page-1)*limit, len(orders))
	}
	end := min(offset+limit, len(orders))

	w.Header().Set("X-Total-Count", strconv.Itoa(len(orders)))
	writeJSON(w, http.StatusOK, orders[offset:end])
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.Store.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, "Order", err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload models.Order
	if !decodeJSON(w, r, &payload) {
		return
	}
	order, err := h.Store.CreateOrder(r.Context(), payload)
	if err != nil {
		writeError(w, r, "Order", err)
		return
	}
	slog.Info("Order created", "order_id", order.ID, "total", order.TotalAmount, "items", len(order.Items))
	events.Notify(r.Context(), h.Events, events.NewOrderEvent(events.OrderCreated, order))
	writeJSON(w, http.StatusCreated, order)
}

// Update accepts {status} or any partial order. Status changes are not
// checked against the usual order flow; an unusual jump is only logged.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var patch models.OrderPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	order, previous, err := h.Store.UpdateOrder(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, "Order", err)
		return
	}

	if order.Status != previous {
		if !models.CanTransition(previous, order.Status) {
			slog.Warn("Order status moved outside the usual flow", "order_id", id, "from", previous, "to", order.Status)
		}
		slog.Info("Order status updated", "order_id", id, "from", previous, "to", order.Status)
		e := events.NewOrderEvent(events.OrderStatusChanged, order)
		e.PreviousStatus = previous
		events.Notify(r.Context(), h.Events, e)
	} else {
		events.Notify(r.Context(), h.Events, events.NewOrderEvent(events.OrderUpdated, order))
	}
	writeJSON(w, http.StatusOK, order)
}
