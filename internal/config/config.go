package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port      string
	APIPrefix string

	StoreDriver string // file, sqlite or postgres
	DataDir     string
	DBPath      string
	DatabaseURL string

	UploadDir      string
	UploadMaxBytes int64

	CartBackend string // memory or redis
	RedisURL    string
	CartTTL     time.Duration

	AMQPURL        string
	EventsExchange string

	SessionKey   []byte
	CSRFKey      []byte
	CSRFEnabled  bool
	CookieDomain string
	CookieSecure bool
	AdminAuth    bool
	CORSOrigins  []string

	// RateLimitWindow is the minimum gap between checkout or login
	// attempts from one IP. Zero disables the limit.
	RateLimitWindow time.Duration

	LogLevel  slog.Level
	LogFormat string

	ServiceName   string
	TraceExporter string // none, stdout or otlp

	FreeShippingThreshold float64
	ShippingFee           float64
}

// source resolves a key from the environment first, then the optional
// YAML file named by CONFIG_FILE.
type source struct {
	file map[string]string
}

func LoadConfig() (*Config, error) {
	src := source{file: map[string]string{}}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &src.file); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	return src.load()
}

func (s source) load() (*Config, error) {
	cfg := &Config{
		Port:           s.get("PORT", "5000"),
		APIPrefix:      "/" + strings.Trim(s.get("API_PREFIX", "/api"), "/"),
		StoreDriver:    strings.ToLower(s.get("STORE_DRIVER", "file")),
		DataDir:        s.get("DATA_DIR", "./data"),
		DBPath:         s.get("DB_PATH", "./storefront.db"),
		DatabaseURL:    s.get("DATABASE_URL", ""),
		UploadDir:      s.get("UPLOAD_DIR", "./uploads"),
		UploadMaxBytes: int64(s.getInt("UPLOAD_MAX_BYTES", 10<<20)),
		CartBackend:    strings.ToLower(s.get("CART_BACKEND", "memory")),
		RedisURL:       s.get("REDIS_URL", ""),
		CartTTL:        s.getDuration("CART_TTL", 7*24*time.Hour),
		AMQPURL:        s.get("AMQP_URL", ""),
		EventsExchange: s.get("EVENTS_EXCHANGE", "orders"),
		CSRFEnabled:    s.getBool("CSRF_ENABLED", false),
		CookieDomain:   s.get("COOKIE_DOMAIN", ""),
		CookieSecure:   s.getBool("COOKIE_SECURE", false),
		AdminAuth:      s.getBool("ADMIN_AUTH", false),
		CORSOrigins:    splitList(s.get("CORS_ORIGINS", "*")),
		LogFormat:      strings.ToLower(s.get("LOG_FORMAT", "text")),
		ServiceName:    s.get("SERVICE_NAME", "sanjana-creations"),
		TraceExporter:  strings.ToLower(s.get("TRACE_EXPORTER", "none")),

		FreeShippingThreshold: s.getFloat("FREE_SHIPPING_THRESHOLD", 500),
		ShippingFee:           s.getFloat("SHIPPING_FEE", 50),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(s.get("LOG_LEVEL", "debug"))); err != nil {
		slog.Warn("Invalid LOG_LEVEL. Falling back to debug.", "LOG_LEVEL", s.get("LOG_LEVEL", ""))
		cfg.LogLevel = slog.LevelDebug
	}

	if strings.TrimSpace(s.get("RATE_LIMIT_WINDOW", "")) == "0" {
		cfg.RateLimitWindow = 0
	} else {
		cfg.RateLimitWindow = s.getDuration("RATE_LIMIT_WINDOW", 2*time.Second)
	}

	cfg.SessionKey = s.key("SESSION_KEY", "Sessions will be invalid on restart.")
	cfg.CSRFKey = s.key("CSRF_KEY", "CSRF tokens will be invalid on restart.")

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT. Falling back to default.", "PORT", cfg.Port)
		cfg.Port = "5000"
	}

	switch cfg.StoreDriver {
	case "file", "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("STORE_DRIVER=postgres requires DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	switch cfg.CartBackend {
	case "memory":
	case "redis":
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("CART_BACKEND=redis requires REDIS_URL")
		}
	default:
		return nil, fmt.Errorf("unknown CART_BACKEND %q", cfg.CartBackend)
	}

	switch cfg.TraceExporter {
	case "none", "stdout", "otlp":
	default:
		return nil, fmt.Errorf("unknown TRACE_EXPORTER %q", cfg.TraceExporter)
	}

	return cfg, nil
}

// StoreDSN is the data source for the configured store driver.
func (c *Config) StoreDSN() string {
	switch c.StoreDriver {
	case "sqlite":
		return c.DBPath
	case "postgres":
		return c.DatabaseURL
	}
	return c.DataDir
}

func (s source) get(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if value, exists := s.file[key]; exists {
		return value
	}
	return defaultValue
}

func (s source) getInt(key string, def int) int {
	v := strings.TrimSpace(s.get(key, ""))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Invalid integer setting. Using default.", "key", key, "value", v)
		return def
	}
	return i
}

func (s source) getFloat(key string, def float64) float64 {
	v := strings.TrimSpace(s.get(key, ""))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		slog.Warn("Invalid number setting. Using default.", "key", key, "value", v)
		return def
	}
	return f
}

func (s source) getBool(key string, def bool) bool {
	v := strings.TrimSpace(s.get(key, ""))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("Invalid boolean setting. Using default.", "key", key, "value", v)
		return def
	}
	return b
}

func (s source) getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(s.get(key, ""))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("Invalid duration setting. Using default.", "key", key, "value", v)
		return def
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// key decodes a base64 secret of at least 32 bytes, or generates a random
// one for development.
func (s source) key(name, consequence string) []byte {
	raw := s.get(name, "")
	if raw == "" {
		slog.Warn(name+" not set. Generating a random key for development. "+consequence, "key", name)
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn(name+" is invalid or too short (min 32 bytes). Generating a random key for development. "+consequence, "key", name)
		return generateRandomBytes(32)
	}
	return decoded
}

// generateRandomBytes generates a random byte slice of specified length
// Uses crypto/rand for secure random numbers.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		if len(fallbackKey) < n {
			paddedKey := make([]byte, n)
			copy(paddedKey, fallbackKey)
			return paddedKey
		}
		return []byte(fallbackKey)[:n]
	}
	return b
}
