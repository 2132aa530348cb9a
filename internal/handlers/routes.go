package handlers

import (
	"net/http"
	"strings"

	"github.com/Akash-rengaraj/sanjana-creations/internal/cart"
	"github.com/Akash-rengaraj/sanjana-creations/internal/checkout"
	"github.com/Akash-rengaraj/sanjana-creations/internal/events"
	"github.com/Akash-rengaraj/sanjana-creations/internal/store"
	"github.com/gorilla/sessions"
)

const defaultUploadMaxBytes = 10 << 20

// Deps is everything the HTTP API is built from.
type Deps struct {
	Store        *store.Store
	Carts        cart.Repository
	SessionStore *sessions.CookieStore
	Events       events.Publisher
	Pricing      checkout.Pricing

	APIPrefix      string // e.g. "/api"
	UploadDir      string
	UploadURL      string // public path of uploaded files, e.g. "/uploads"
	UploadMaxBytes int64  // 0 means 10 MiB

	// AdminAuth requires an admin session for catalog, customer and order
	// administration.
	AdminAuth bool
	// RateLimiter, when set, throttles checkout and login per client IP.
	RateLimiter *RateLimiter
}

func NewRouter(d Deps) *http.ServeMux {
	if d.Events == nil {
		d.Events = events.NopPublisher{}
	}
	if d.UploadURL == "" {
		d.UploadURL = "/uploads"
	}
	if d.UploadMaxBytes <= 0 {
		d.UploadMaxBytes = defaultUploadMaxBytes
	}
	d.UploadURL = "/" + strings.Trim(d.UploadURL, "/")
	p := strings.TrimRight(d.APIPrefix, "/")

	admin := &AdminHandler{Store: d.Store, SessionStore: d.SessionStore, Required: d.AdminAuth}
	products := &ProductHandler{Store: d.Store}
	customers := &CustomerHandler{Store: d.Store}
	orders := &OrderHandler{Store: d.Store, Events: d.Events}
	carts := &CartHandler{Store: d.Store, Carts: d.Carts, SessionStore: d.SessionStore, Pricing: d.Pricing}
	checkouts := &CheckoutHandler{
		Orders:       d.Store,
		Carts:        d.Carts,
		SessionStore: d.SessionStore,
		Pricing:      d.Pricing,
		Events:       d.Events,
	}
	uploads := &UploadHandler{Dir: d.UploadDir, URLPrefix: d.UploadURL, MaxBytes: d.UploadMaxBytes}

	limit := func(h http.HandlerFunc) http.HandlerFunc {
		if d.RateLimiter == nil {
			return h
		}
		return d.RateLimiter.Middleware(h)
	}
	auth := admin.AuthMiddleware

	mux := http.NewServeMux()

	// Catalog
	mux.HandleFunc("GET "+p+"/products", products.List)
	mux.HandleFunc("GET "+p+"/products/{id}", products.Get)
	mux.HandleFunc("POST "+p+"/products", auth(products.Create))
	mux.HandleFunc("PUT "+p+"/products/{id}", auth(products.Update))
	mux.HandleFunc("DELETE "+p+"/products/{id}", auth(products.Delete))

	// Customers
	mux.HandleFunc("GET "+p+"/customers", auth(customers.List))
	mux.HandleFunc("GET "+p+"/customers/{id}", auth(customers.Get))
	mux.HandleFunc("POST "+p+"/customers", auth(customers.Create))
	mux.HandleFunc("PUT "+p+"/customers/{id}", auth(customers.Update))
	mux.HandleFunc("DELETE "+p+"/customers/{id}", auth(customers.Delete))

	// Orders
	mux.HandleFunc("GET "+p+"/orders", auth(orders.List))
	mux.HandleFunc("GET "+p+"/orders/{id}", auth(orders.Get))
	mux.HandleFunc("POST "+p+"/orders", orders.Create)
	mux.HandleFunc("PUT "+p+"/orders/{id}", auth(orders.Update))

	// Cart and checkout
	mux.HandleFunc("GET "+p+"/cart", carts.Get)
	mux.HandleFunc("POST "+p+"/cart/items", carts.AddItem)
	mux.HandleFunc("PATCH "+p+"/cart/items/{id}", carts.UpdateItem)
	mux.HandleFunc("DELETE "+p+"/cart/items/{id}", carts.RemoveItem)
	mux.HandleFunc("DELETE "+p+"/cart", carts.Clear)
	mux.HandleFunc("GET "+p+"/checkout/summary", checkouts.Summary)
	mux.HandleFunc("POST "+p+"/checkout", limit(checkouts.Place))

	// Uploads
	mux.HandleFunc("POST "+p+"/upload", auth(uploads.Upload))
	mux.Handle("GET "+d.UploadURL+"/", http.StripPrefix(d.UploadURL, http.FileServer(http.Dir(d.UploadDir))))

	// Session
	mux.HandleFunc("POST "+p+"/login", limit(admin.Login))
	mux.HandleFunc("POST "+p+"/logout", admin.Logout)
	mux.HandleFunc("GET "+p+"/csrf-token", CSRFToken)

	return mux
}
