package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
	"github.com/Akash-rengaraj/sanjana-creations/internal/store"
)

type CustomerHandler struct {
	Store *store.Store
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Store.ListCustomers(r.Context())
	if err != nil {
		writeError(w, r, "Customer", err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Customer")
	if !ok {
		return
	}
	customer, err := h.Store.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, r, "Customer", err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var patch models.CustomerPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	customer, err := h.Store.CreateCustomer(r.Context(), patch)
	if err != nil {
		writeError(w, r, "Customer", err)
		return
	}
	slog.Info("Customer created", "customer_id", customer.ID, "name", customer.Name)
	writeJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Customer")
	if !ok {
		return
	}
	var patch models.CustomerPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	customer, err := h.Store.UpdateCustomer(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, "Customer", err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Customer")
	if !ok {
		return
	}
	if err := h.Store.DeleteCustomer(r.Context(), id); err != nil {
		writeError(w, r, "Customer", err)
		return
	}
	slog.Info("Customer deleted", "customer_id", id)
	writeMessage(w, http.StatusOK, "Customer removed")
}
