package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Akash-rengaraj/sanjana-creations/internal/cart"
	"github.com/Akash-rengaraj/sanjana-creations/internal/checkout"
	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
	"github.com/Akash-rengaraj/sanjana-creations/internal/store"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	cartSessionName = "cart-session"
	cartIDKey       = "cart_id"
)

// sessionCart resolves the shopper's cart id from the session cookie,
// issuing a new one on first contact, and loads the cart.
func sessionCart(w http.ResponseWriter, r *http.Request, ss *sessions.CookieStore, carts cart.Repository) (string, *cart.Cart, error) {
	session, err := ss.Get(r, cartSessionName)
	if err != nil {
		// An unreadable cookie (rotated key, tampering) yields a fresh session.
		slog.Warn("Discarding invalid cart session", "error", err)
	}

	id, _ := session.Values[cartIDKey].(string)
	if id == "" {
		id = uuid.New().String()
		session.Values[cartIDKey] = id
		if err := session.Save(r, w); err != nil {
			return "", nil, fmt.Errorf("save cart session: %w", err)
		}
	}

	c, err := carts.Load(r.Context(), id)
	if err != nil {
		return "", nil, err
	}
	return id, c, nil
}

type CartHandler struct {
	Store        *store.Store
	Carts        cart.Repository
	SessionStore *sessions.CookieStore
	Pricing      checkout.Pricing
}

type cartResponse struct {
	Items   []cart.LineItem  `json:"items"`
	Count   int              `json:"count"`
	Total   float64          `json:"total"`
	Summary checkout.Summary `json:"summary"`
}

func (h *CartHandler) view(c *cart.Cart) cartResponse {
	return cartResponse{
		Items:   c.Items(),
		Count:   c.Count(),
		Total:   c.Total(),
		Summary: h.Pricing.Summarize(c),
	}
}

func (h *CartHandler) save(w http.ResponseWriter, r *http.Request, id string, c *cart.Cart) {
	if err := h.Carts.Save(r.Context(), id, c); err != nil {
		writeError(w, r, "Cart", err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(c))
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, c, err := sessionCart(w, r, h.SessionStore, h.Carts)
	if err != nil {
		writeError(w, r, "Cart", err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(c))
}

type addItemRequest struct {
	ID       int64  `json:"id"`
	Quantity int    `json:"quantity"`
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
}

// AddItem puts a catalog product in the cart. Name, price and image always
// come from the catalog, never from the request.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity > cart.MaxQuantity {
		writeError(w, r, "Cart item", models.NewValidationError(map[string]string{
			"quantity": fmt.Sprintf("must be at most %d", cart.MaxQuantity),
		}))
		return
	}

	product, err := h.Store.GetProduct(r.Context(), req.ID)
	if err != nil {
		writeError(w, r, "Product", err)
		return
	}

	id, c, err := sessionCart(w, r, h.SessionStore, h.Carts)
	if err != nil {
		writeError(w, r, "Cart", err)
		return
	}
	c.Add(cart.LineItem{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Image:    product.Image,
		Quantity: req.Quantity,
		Size:     req.Size,
		Color:    req.Color,
	})
	h.save(w, r, id, c)
}

type updateItemRequest struct {
	Delta int `json:"delta"`
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "Cart item")
	if !ok {
		return
	}
	var req updateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Delta > cart.MaxQuantity || req.Delta < -cart.MaxQuantity {
		writeError(w, r, "Cart item", models.NewValidationError(map[string]string{
			"delta": fmt.Sprintf("must be between -%d and %d", cart.MaxQuantity, cart.MaxQuantity),
		}))
		return
	}

	id, c, err := sessionCart(w, r, h.SessionStore, h.Carts)
	if err != nil {
		writeError(w, r, "Cart", err)
		return
	}
	if !c.UpdateQuantity(productID, req.Delta) {
		writeMessage(w, http.StatusNotFound, "Cart item not found")
		return
	}
	h.save(w, r, id, c)
}

// RemoveItem succeeds whether or not the product was in the cart.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "Cart item")
	if !ok {
		return
	}
	id, c, err := sessionCart(w, r, h.SessionStore, h.Carts)
	if err != nil {
		writeError(w, r, "Cart", err)
		return
	}
	c.Remove(productID)
	h.save(w, r, id, c)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, c, err := sessionCart(w, r, h.SessionStore, h.Carts)
	if err != nil {
		writeError(w, r, "Cart", err)
		return
	}
	if err := h.Carts.Delete(r.Context(), id); err != nil {
		writeError(w, r, "Cart", err)
		return
	}
	c.Clear()
	writeJSON(w, http.StatusOK, h.view(c))
}
