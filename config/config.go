package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/database"
	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Accounts
	AdminAccount string // account allowed to invoke privileged operations
	FeeRecipient string // initial platform fee recipient

	// Lottery economics
	TicketPrice    int64                           // price per ticket in minor units
	PlatformFeeBps int64                           // platform fee in basis points of the pool
	TierShareBps   [entities.PayingTiers]int64     // post-fee shares for match counts 2..6, sums to 10000
	MaxDiscountBps int                             // cap on any purchase discount

	// Referral & bulk discounts
	ReferralDiscountBps int
	BulkDiscountTiers   []BulkDiscountTier

	// Admission and processing caps (DoS guards)
	MaxTicketsPerPurchase int
	MaxTicketsPerDraw     int64
	TierWinnerCap         int64 // winners enumerated per tier in one finalization pass
	ScoringPageSize       int   // tickets scored per page inside finalization

	// Draw scheduling
	DrawInterval       time.Duration
	WorkerPollInterval time.Duration

	// Claims
	ClaimWindow time.Duration

	// Timelock delays per action kind
	FeeRecipientDelay time.Duration
	PauseDelay        time.Duration
	ManualDrawDelay   time.Duration
	// A pending manual draw may be cancelled only after this much time.
	ManualDrawCancelDelay time.Duration
	// A request parked this long in AWAITING_RANDOMNESS becomes eligible
	// for admin-initiated re-request.
	StuckRandomnessDelay time.Duration

	// OpenTelemetry metrics
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "otlp", "console" or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Environment
	Environment string // "development", "production" or "test"
}

// BulkDiscountTier grants a discount once a purchase reaches MinQuantity.
type BulkDiscountTier struct {
	MinQuantity int
	DiscountBps int
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Accounts
		AdminAccount: os.Getenv("ADMIN_ACCOUNT"),
		FeeRecipient: os.Getenv("FEE_RECIPIENT"),

		// Economics defaults: 5.00 units per ticket, 10% platform fee,
		// 50/20/15/10/5 percent of the post-fee pool for tiers 6..2.
		TicketPrice:    5_000_000,
		PlatformFeeBps: 1000,
		TierShareBps:   [entities.PayingTiers]int64{500, 1000, 1500, 2000, 5000},
		MaxDiscountBps: 2000,

		ReferralDiscountBps: 500,
		BulkDiscountTiers: []BulkDiscountTier{
			{MinQuantity: 20, DiscountBps: 1000},
			{MinQuantity: 10, DiscountBps: 500},
			{MinQuantity: 5, DiscountBps: 200},
		},

		MaxTicketsPerPurchase: 100,
		MaxTicketsPerDraw:     1000,
		TierWinnerCap:         1000,
		ScoringPageSize:       500,

		DrawInterval:       24 * time.Hour,
		WorkerPollInterval: time.Minute,

		ClaimWindow: 90 * 24 * time.Hour,

		FeeRecipientDelay:     7 * 24 * time.Hour,
		PauseDelay:            2 * time.Hour,
		ManualDrawDelay:       time.Hour,
		ManualDrawCancelDelay: 24 * time.Hour,
		StuckRandomnessDelay:  24 * time.Hour,

		// Metrics
		OTelEnabled:              getEnvWithDefault("OTEL_ENABLED", "false") == "true",
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "lottery-platform"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "otlp"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelExportIntervalMillis: 60000,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if price := os.Getenv("TICKET_PRICE"); price != "" {
		if parsed, err := strconv.ParseInt(price, 10, 64); err == nil {
			config.TicketPrice = parsed
		}
	}
	if fee := os.Getenv("PLATFORM_FEE_BPS"); fee != "" {
		if parsed, err := strconv.ParseInt(fee, 10, 64); err == nil {
			config.PlatformFeeBps = parsed
		}
	}
	if interval := os.Getenv("DRAW_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil {
			config.DrawInterval = parsed
		}
	}
	if window := os.Getenv("CLAIM_WINDOW"); window != "" {
		if parsed, err := time.ParseDuration(window); err == nil {
			config.ClaimWindow = parsed
		}
	}
	if maxTickets := os.Getenv("MAX_TICKETS_PER_DRAW"); maxTickets != "" {
		if parsed, err := strconv.ParseInt(maxTickets, 10, 64); err == nil {
			config.MaxTicketsPerDraw = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.AdminAccount == "" {
			return nil, fmt.Errorf("ADMIN_ACCOUNT is required")
		}
		if config.FeeRecipient == "" {
			return nil, fmt.Errorf("FEE_RECIPIENT is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:  "test",
		AdminAccount: "admin",
		FeeRecipient: "fee-recipient",

		TicketPrice:    5_000_000,
		PlatformFeeBps: 1000,
		TierShareBps:   [entities.PayingTiers]int64{500, 1000, 1500, 2000, 5000},
		MaxDiscountBps: 2000,

		ReferralDiscountBps: 500,
		BulkDiscountTiers: []BulkDiscountTier{
			{MinQuantity: 20, DiscountBps: 1000},
			{MinQuantity: 10, DiscountBps: 500},
			{MinQuantity: 5, DiscountBps: 200},
		},

		MaxTicketsPerPurchase: 100,
		MaxTicketsPerDraw:     1000,
		TierWinnerCap:         1000,
		ScoringPageSize:       500,

		DrawInterval:       24 * time.Hour,
		WorkerPollInterval: time.Minute,
		ClaimWindow:        90 * 24 * time.Hour,

		FeeRecipientDelay:     7 * 24 * time.Hour,
		PauseDelay:            2 * time.Hour,
		ManualDrawDelay:       time.Hour,
		ManualDrawCancelDelay: 24 * time.Hour,
		StuckRandomnessDelay:  24 * time.Hour,
	}
}
