package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and
// flags. Provider credentials live in a separate YAML file referenced by
// ProvidersFile.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	RedisAddress    string
	RedisPassword   string
	GatewayAddress  string
	GatewaySecret   string
	LookupAddress   string
	ProvidersFile   string
	AuthSecret      string
	LogLevel        string
	SessionTTL      time.Duration
	PaymentWindow   time.Duration
	ReconcileEvery  time.Duration
	ReconcileMinAge time.Duration
	StatusPushEvery time.Duration
	WorkerPoolSize  int
	MaxOrdersBatch  int
	ShutdownTimeout time.Duration

	Providers map[string]ProviderCredentials
}

const (
	defaultRunAddress      = ":8080"
	defaultRedisAddress    = "localhost:6379"
	defaultAuthSecret      = "change-me-in-production"
	defaultLogLevel        = "info"
	defaultSessionTTL      = 24 * time.Hour
	defaultPaymentWindow   = 10 * time.Minute
	defaultReconcileEvery  = 3 * time.Second
	defaultReconcileMinAge = 30 * time.Second
	defaultStatusPushEvery = 1500 * time.Millisecond
	defaultWorkerPoolSize  = 4
	defaultMaxOrdersBatch  = 32
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv, os.ReadFile)
}

type envLookup func(string) (string, bool)

type fileReader func(string) ([]byte, error)

func load(args []string, lookup envLookup, readFile fileReader) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		RedisAddress:    getString(lookup, "REDIS_ADDRESS", defaultRedisAddress),
		RedisPassword:   getString(lookup, "REDIS_PASSWORD", ""),
		GatewayAddress:  getString(lookup, "GATEWAY_ADDRESS", ""),
		GatewaySecret:   getString(lookup, "GATEWAY_SECRET", ""),
		LookupAddress:   getString(lookup, "LOOKUP_ADDRESS", ""),
		ProvidersFile:   getString(lookup, "PROVIDERS_FILE", ""),
		AuthSecret:      getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		LogLevel:        getString(lookup, "LOG_LEVEL", defaultLogLevel),
		SessionTTL:      getDuration(lookup, "SESSION_TTL", defaultSessionTTL),
		PaymentWindow:   getDuration(lookup, "PAYMENT_WINDOW", defaultPaymentWindow),
		ReconcileEvery:  getDuration(lookup, "RECONCILE_INTERVAL", defaultReconcileEvery),
		ReconcileMinAge: getDuration(lookup, "RECONCILE_MIN_AGE", defaultReconcileMinAge),
		StatusPushEvery: getDuration(lookup, "STATUS_PUSH_INTERVAL", defaultStatusPushEvery),
		WorkerPoolSize:  getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		MaxOrdersBatch:  getInt(lookup, "RECONCILE_BATCH_SIZE", defaultMaxOrdersBatch),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("topupmart", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		paymentWindowStr   = cfg.PaymentWindow.String()
		reconcileEveryStr  = cfg.ReconcileEvery.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for the idempotency guard")
	fs.StringVar(&cfg.GatewayAddress, "g", cfg.GatewayAddress, "Payment gateway base URL")
	fs.StringVar(&cfg.LookupAddress, "l", cfg.LookupAddress, "Account lookup base URL")
	fs.StringVar(&cfg.ProvidersFile, "providers", cfg.ProvidersFile, "Path to provider credentials YAML")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Logging level: debug, info, warn or error")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconciler workers")
	fs.IntVar(&cfg.MaxOrdersBatch, "reconcile-batch", cfg.MaxOrdersBatch, "Maximum orders per reconciliation batch")
	fs.StringVar(&paymentWindowStr, "payment-window", paymentWindowStr, "How long a pending UPI payment stays valid")
	fs.StringVar(&reconcileEveryStr, "reconcile-interval", reconcileEveryStr, "Interval between reconciliation passes")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PaymentWindow, err = time.ParseDuration(paymentWindowStr); err != nil {
		return nil, fmt.Errorf("invalid payment window: %w", err)
	}

	if cfg.ReconcileEvery, err = time.ParseDuration(reconcileEveryStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := readFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxOrdersBatch <= 0 {
		cfg.MaxOrdersBatch = defaultMaxOrdersBatch
	}

	if cfg.ReconcileEvery <= 0 {
		cfg.ReconcileEvery = defaultReconcileEvery
	}

	if cfg.ReconcileMinAge < 0 {
		cfg.ReconcileMinAge = defaultReconcileMinAge
	}

	if cfg.PaymentWindow <= 0 {
		cfg.PaymentWindow = defaultPaymentWindow
	}

	if cfg.StatusPushEvery <= 0 {
		cfg.StatusPushEvery = defaultStatusPushEvery
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.GatewayAddress == "" {
		return nil, fmt.Errorf("payment gateway address must be provided")
	}

	if cfg.ProvidersFile != "" {
		providers, err := readProviders(cfg.ProvidersFile, readFile)
		if err != nil {
			return nil, err
		}
		cfg.Providers = providers
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
