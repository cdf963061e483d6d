package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"dicewager/database"
	"dicewager/ledger"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Game rules, fixed for the lifetime of the process
	FeeRate        decimal.Decimal `env:"FEE_RATE" envDefault:"0.0005"`
	MinBet         decimal.Decimal `env:"MIN_BET" envDefault:"10"`
	MaxBet         decimal.Decimal `env:"MAX_BET" envDefault:"10000"`
	MinChallenges  int             `env:"MIN_CHALLENGES" envDefault:"1"`
	MaxChallenges  int             `env:"MAX_CHALLENGES" envDefault:"10"`
	DiceMinRoll    int             `env:"DICE_MIN_ROLL" envDefault:"1"`
	DiceMaxRoll    int             `env:"DICE_MAX_ROLL" envDefault:"100"`
	InitialBalance decimal.Decimal `env:"INITIAL_BALANCE" envDefault:"1000"`
	PrimaryUserID  string          `env:"PRIMARY_USER_ID" envDefault:"USER_P1"`

	// Storage configuration
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"dicewager.db"`
	DatabaseURL   string `env:"DATABASE_URL"`
	DatabaseName  string `env:"DATABASE_NAME"`

	// Front ends; an empty value disables the component
	HTTPAddr       string `env:"HTTP_ADDR" envDefault:":8080"`
	DiscordToken   string `env:"DISCORD_TOKEN"`
	DiscordGuildID string `env:"DISCORD_GUILD_ID"`

	// NATS server addresses (comma-separated); empty disables forwarding
	NATSServers string `env:"NATS_SERVERS"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"
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
		instance, err = Load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Load parses configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects inconsistent game rules and incomplete storage settings
func (c *Config) Validate() error {
	if c.FeeRate.IsNegative() || c.FeeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("FEE_RATE must be in [0, 1), got %s", c.FeeRate)
	}
	if !c.MinBet.IsPositive() {
		return fmt.Errorf("MIN_BET must be positive, got %s", c.MinBet)
	}
	if c.MinBet.GreaterThan(c.MaxBet) {
		return fmt.Errorf("MIN_BET (%s) exceeds MAX_BET (%s)", c.MinBet, c.MaxBet)
	}
	if c.MinChallenges < 1 || c.MinChallenges > c.MaxChallenges {
		return fmt.Errorf("challenge count bounds are invalid: [%d, %d]", c.MinChallenges, c.MaxChallenges)
	}
	if c.DiceMinRoll > c.DiceMaxRoll {
		return fmt.Errorf("dice range is invalid: [%d, %d]", c.DiceMinRoll, c.DiceMaxRoll)
	}
	if c.InitialBalance.IsNegative() {
		return fmt.Errorf("INITIAL_BALANCE cannot be negative, got %s", c.InitialBalance)
	}
	if c.PrimaryUserID == "" {
		return fmt.Errorf("PRIMARY_USER_ID is required")
	}

	switch c.StorageDriver {
	case StorageMemory:
	case StorageSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	return nil
}

// Limits returns the stake and batch bounds for challenge creation
func (c *Config) Limits() ledger.Limits {
	return ledger.Limits{
		MinBet:   c.MinBet,
		MaxBet:   c.MaxBet,
		MinCount: c.MinChallenges,
		MaxCount: c.MaxChallenges,
	}
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a config with the stock game rules and in-memory storage
func NewTestConfig() *Config {
	limits := ledger.DefaultLimits()
	return &Config{
		FeeRate:        decimal.RequireFromString("0.0005"),
		MinBet:         limits.MinBet,
		MaxBet:         limits.MaxBet,
		MinChallenges:  limits.MinCount,
		MaxChallenges:  limits.MaxCount,
		DiceMinRoll:    1,
		DiceMaxRoll:    100,
		InitialBalance: decimal.NewFromInt(1000),
		PrimaryUserID:  "USER_P1",
		StorageDriver:  StorageMemory,
		LogLevel:       "debug",
		Environment:    "test",
	}
}
