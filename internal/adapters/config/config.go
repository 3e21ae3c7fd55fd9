package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type StorageDriver string

const (
	StorageFile   StorageDriver = "file"
	StorageSQLite StorageDriver = "sqlite"
	StorageMongo  StorageDriver = "mongo"
)

type StorageConfig struct {
	Driver     StorageDriver
	DataDir    string
	SQLitePath string
}

type MongoConfig struct {
	URI                    string
	Database               string
	Timeout                time.Duration
	MaxPoolSize            uint64
	MinPoolSize            uint64
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	// Direct skips topology discovery, for single-node replica sets reached through a
	// mapped port.
	Direct bool
}

// RabbitMQConfig with an empty URL disables event publishing.
type RabbitMQConfig struct {
	URL             string
	MaxRetries      int
	RetryDelay      time.Duration
	ExchangeConfigs []ExchangeConfig
}

type ExchangeConfig struct {
	Name       string
	Type       string // direct, topic, fanout, headers
	Durable    bool
	AutoDelete bool
}

// RedisConfig with an empty URL disables idempotency keys and rate limiting.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type OutboxConfig struct {
	BatchSize int
	Interval  time.Duration
}

type HTTPConfig struct {
	Port          string
	BindInterface string
	RateLimit     int
	RateWindow    time.Duration
}

type LedgerConfig struct {
	RecentLimit       int
	LowStockThreshold int
	IdempotencyTTL    time.Duration
}

type SchedulerConfig struct {
	Enabled       bool
	ReconcileSpec string
	LowStockSpec  string
}

type LoggerConfig struct {
	Endpoint     string
	ServiceName  string
	IsProduction bool
	Level        string
	JSON         bool
}

type Config struct {
	Storage   StorageConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Outbox    OutboxConfig
	HTTP      HTTPConfig
	Ledger    LedgerConfig
	Scheduler SchedulerConfig
	Logger    LoggerConfig
}

func NewConfig() *Config {
	_ = godotenv.Load()

	dataDir := getStringEnv("DATA_DIR", "data")
	return &Config{
		Storage: StorageConfig{
			Driver:     StorageDriver(getStringEnv("STORAGE_DRIVER", string(StorageFile))),
			DataDir:    dataDir,
			SQLitePath: getStringEnv("SQLITE_PATH", filepath.Join(dataDir, "ledger.db")),
		},
		Mongo: MongoConfig{
			URI:                    getStringEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:               getStringEnv("MONGO_DATABASE", "stockledger"),
			Timeout:                getDurationEnv("MONGO_TIMEOUT", time.Second, 10*time.Second),
			MaxPoolSize:            uint64(getIntEnv("MONGO_MAX_POOL_SIZE", 100)),
			MinPoolSize:            uint64(getIntEnv("MONGO_MIN_POOL_SIZE", 10)),
			ConnectTimeout:         getDurationEnv("MONGO_CONNECT_TIMEOUT", time.Second, 10*time.Second),
			ServerSelectionTimeout: getDurationEnv("MONGO_SERVER_SELECTION_TIMEOUT", time.Second, 5*time.Second),
			Direct:                 getBoolEnv("MONGO_DIRECT", false),
		},
		Redis: RedisConfig{
			URL:      getStringEnv("REDIS_URL", ""),
			Password: getStringEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Outbox: OutboxConfig{
			BatchSize: getIntEnv("OUTBOX_BATCH_SIZE", 100),
			Interval:  getDurationEnv("OUTBOX_INTERVAL", time.Millisecond, 500*time.Millisecond),
		},
		HTTP: HTTPConfig{
			Port:          getStringEnv("HTTP_PORT", "8080"),
			BindInterface: getStringEnv("HTTP_BIND_INTERFACE", "0.0.0.0"),
			RateLimit:     getIntEnv("HTTP_RATE_LIMIT", 60),
			RateWindow:    getDurationEnv("HTTP_RATE_WINDOW", time.Second, time.Minute),
		},
		RabbitMQ: RabbitMQConfig{
			URL:        getStringEnv("RABBITMQ_URL", ""),
			MaxRetries: getIntEnv("RABBITMQ_MAX_RETRIES", 3),
			RetryDelay: getDurationEnv("RABBITMQ_RETRY_DELAY", time.Second, time.Second),
			ExchangeConfigs: []ExchangeConfig{
				{
					Name:       getStringEnv("RABBITMQ_EXCHANGE_NAME", "exchange.stock"),
					Type:       getStringEnv("RABBITMQ_EXCHANGE_TYPE", "topic"),
					Durable:    getBoolEnv("RABBITMQ_EXCHANGE_DURABLE", true),
					AutoDelete: getBoolEnv("RABBITMQ_EXCHANGE_AUTO_DELETE", false),
				},
			},
		},
		Ledger: LedgerConfig{
			RecentLimit:       getIntEnv("LEDGER_RECENT_LIMIT", 5),
			LowStockThreshold: getIntEnv("LEDGER_LOW_STOCK_THRESHOLD", 5),
			IdempotencyTTL:    getDurationEnv("LEDGER_IDEMPOTENCY_TTL", time.Minute, 15*time.Minute),
		},
		Scheduler: SchedulerConfig{
			Enabled:       getBoolEnv("SCHEDULER_ENABLED", true),
			ReconcileSpec: getStringEnv("SCHEDULER_RECONCILE_SPEC", "@every 1h"),
			LowStockSpec:  getStringEnv("SCHEDULER_LOW_STOCK_SPEC", "0 8 * * *"),
		},
		Logger: LoggerConfig{
			Endpoint:     getStringEnv("OTEL_ENDPOINT", "localhost:4317"),
			ServiceName:  getStringEnv("OTEL_SERVICE_NAME", "stockledger"),
			IsProduction: getBoolEnv("IS_PRODUCTION", false),
			Level:        getStringEnv("LOG_LEVEL", "info"),
			JSON:         getBoolEnv("LOG_JSON", false),
		},
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageFile, StorageSQLite, StorageMongo:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want file, sqlite or mongo)", c.Storage.Driver)
	}
	if c.Ledger.RecentLimit <= 0 {
		return fmt.Errorf("LEDGER_RECENT_LIMIT must be positive, got %d", c.Ledger.RecentLimit)
	}
	if c.Ledger.LowStockThreshold < 0 {
		return fmt.Errorf("LEDGER_LOW_STOCK_THRESHOLD must not be negative, got %d", c.Ledger.LowStockThreshold)
	}
	if c.Outbox.Interval <= 0 || c.Outbox.BatchSize <= 0 {
		return fmt.Errorf("outbox interval and batch size must be positive")
	}
	return nil
}
