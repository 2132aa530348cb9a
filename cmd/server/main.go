package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Akash-rengaraj/sanjana-creations/internal/cart"
	"github.com/Akash-rengaraj/sanjana-creations/internal/checkout"
	"github.com/Akash-rengaraj/sanjana-creations/internal/config"
	"github.com/Akash-rengaraj/sanjana-creations/internal/events"
	"github.com/Akash-rengaraj/sanjana-creations/internal/handlers"
	"github.com/Akash-rengaraj/sanjana-creations/internal/store"
	"github.com/Akash-rengaraj/sanjana-creations/internal/telemetry"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

func main() {
	// Debug logging until the configured level is known
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.ServiceName, cfg.TraceExporter)
	if err != nil {
		slog.Error("Failed to initialize tracing", "exporter", cfg.TraceExporter, "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			slog.Error("Failed to flush traces", "error", err)
		}
	}()

	// 2. Init entity store
	db, err := store.Open(cfg.StoreDriver, cfg.StoreDSN())
	if err != nil {
		slog.Error("Failed to initialize store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Entity store ready", "driver", cfg.StoreDriver)

	// 3. Cart repository
	carts, closeCarts, err := newCartRepository(cfg)
	if err != nil {
		slog.Error("Failed to initialize cart repository", "backend", cfg.CartBackend, "error", err)
		os.Exit(1)
	}
	defer closeCarts()

	// 4. Order events
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.DialAMQP(cfg.AMQPURL, cfg.EventsExchange)
		if err != nil {
			slog.Error("Failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		slog.Info("Publishing order events", "exchange", cfg.EventsExchange)
	}

	// 5. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	sessionStore.Options.MaxAge = int(cfg.CartTTL / time.Second)
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 6. Routes
	var rateLimiter *handlers.RateLimiter
	if cfg.RateLimitWindow > 0 {
		rateLimiter = handlers.NewRateLimiter(cfg.RateLimitWindow)
		defer rateLimiter.Stop()
	}

	mux := handlers.NewRouter(handlers.Deps{
		Store:        db,
		Carts:        carts,
		SessionStore: sessionStore,
		Events:       publisher,
		Pricing: checkout.Pricing{
			FreeShippingThreshold: cfg.FreeShippingThreshold,
			ShippingFee:           cfg.ShippingFee,
			TaxRate:               checkout.DefaultPricing.TaxRate,
		},
		APIPrefix:      cfg.APIPrefix,
		UploadDir:      cfg.UploadDir,
		UploadURL:      "/uploads",
		UploadMaxBytes: cfg.UploadMaxBytes,
		AdminAuth:      cfg.AdminAuth,
		RateLimiter:    rateLimiter,
	})

	// 7. Middleware Setup
	// Chain: Tracing -> Logger -> Security Headers -> CORS -> CSRF -> Mux
	var handler http.Handler = mux
	if cfg.CSRFEnabled {
		CSRF := csrf.Protect(
			cfg.CSRFKey,
			csrf.Secure(cfg.CookieSecure),
			csrf.Path("/"),
			csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				slog.Warn("CSRF check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"message":"Invalid CSRF token"}` + "\n"))
			})),
		)
		handler = CSRF(handler)
	}
	handler = telemetry.Middleware(cfg.ServiceName)(
		handlers.LoggingMiddleware(
			handlers.SecurityHeadersMiddleware(
				handlers.CORSMiddleware(cfg.CORSOrigins)(handler),
			),
		),
	)

	// 8. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Create a channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "api_prefix", cfg.APIPrefix)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		return
	}

	slog.Info("Server exited gracefully.")
}

func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

func newCartRepository(cfg *config.Config) (cart.Repository, func(), error) {
	if cfg.CartBackend != "redis" {
		return cart.NewMemoryRepository(), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}

	slog.Info("Carts stored in Redis", "addr", opts.Addr, "ttl", cfg.CartTTL)
	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Error("Failed to close Redis client", "error", err)
		}
	}
	return cart.NewRedisRepository(client, cart.WithTTL(cfg.CartTTL)), closeFn, nil
}
