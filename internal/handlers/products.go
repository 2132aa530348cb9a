package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
	"github.com/Akash-rengaraj/sanjana-creations/internal/store"
)

type ProductHandler struct {
	Store *store.Store
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, "Product", err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Product")
	if !ok {
		return
	}
	product, err := h.Store.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, "Product", err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var patch models.ProductPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	product, err := h.Store.CreateProduct(r.Context(), patch)
	if err != nil {
		writeError(w, r, "Product", err)
		return
	}
	slog.Info("Product created", "product_id", product.ID, "name", product.Name)
	writeJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Product")
	if !ok {
		return
	}
	var patch models.ProductPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	product, err := h.Store.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, "Product", err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Product")
	if !ok {
		return
	}
	if err := h.Store.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, r, "Product", err)
		return
	}
	slog.Info("Product deleted", "product_id", id)
	writeMessage(w, http.StatusOK, "Product removed")
}
