package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Akash-rengaraj/sanjana-creations/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"
)

const adminSessionName = "admin-session"

type AdminHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	// Required turns AuthMiddleware on. When false the admin API is open.
	Required bool
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session, _ := h.SessionStore.Get(r, adminSessionName)

	user, err := h.Store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		writeError(w, r, "User", err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		slog.Warn("Login failed", "username", req.Username, "ip", r.RemoteAddr)
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	session.Values["authenticated"] = true
	session.Values["user_id"] = user.ID
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("Login successful", "user_id", user.ID)
	writeMessage(w, http.StatusOK, "Welcome, "+user.Username+"!")
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, adminSessionName)
	session.Values["authenticated"] = false
	session.Options.MaxAge = -1 // Expire immediately
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	writeMessage(w, http.StatusOK, "Logged out successfully!")
}

// AuthMiddleware ensures the caller is logged in, when login is required.
func (h *AdminHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	if !h.Required {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := h.SessionStore.Get(r, adminSessionName)
		if auth, ok := session.Values["authenticated"].(bool); !ok || !auth {
			slog.Info("AuthMiddleware: User not authenticated", "method", r.Method, "path", r.URL.Path)
			writeMessage(w, http.StatusUnauthorized, "You must be logged in to access this resource.")
			return
		}
		next(w, r)
	}
}

// CSRFToken hands browser clients the token to echo in X-CSRF-Token. It is
// empty when CSRF protection is off.
func CSRFToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"token": csrf.Token(r)})
}
