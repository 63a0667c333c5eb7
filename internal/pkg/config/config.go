package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, secrets), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// - driver-specific requirements are checked by Validate after envconfig runs
// -----------------------------------------------------------------------------

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	DB         DBConfig
	Mongo      MongoConfig
	Kafka      KafkaConfig
	Telemetry  TelemetryConfig
	Lending    LendingConfig
	Statistics StatisticsConfig
	CORS       CORSConfig
	Log        LogConfig
	JWT        JWTConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type StorageConfig struct {
	Driver           string        `envconfig:"STORAGE_DRIVER" default:"postgres"`
	OpTimeout        time.Duration `envconfig:"STORAGE_OP_TIMEOUT" default:"3s"`
	RetryMaxAttempts int           `envconfig:"STORAGE_RETRY_MAX_ATTEMPTS" default:"4"`
	RetryBaseDelay   time.Duration `envconfig:"STORAGE_RETRY_BASE_DELAY" default:"50ms"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
	// ReadHost points the statistics read store at a replica; empty means the primary.
	ReadHost string `envconfig:"DB_READ_HOST"`
}

type MongoConfig struct {
	URI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	Database string `envconfig:"MONGO_DATABASE" default:"lending"`
}

type KafkaConfig struct {
	// Empty brokers disable event publishing.
	Brokers      []string      `envconfig:"KAFKA_BROKERS"`
	Topic        string        `envconfig:"KAFKA_LENDING_TOPIC" default:"lending.events"`
	RequiredAcks int           `envconfig:"KAFKA_REQUIRED_ACKS" default:"-1"`
	Compression  string        `envconfig:"KAFKA_COMPRESSION" default:"snappy"`
	BatchTimeout time.Duration `envconfig:"KAFKA_BATCH_TIMEOUT" default:"10ms"`
	MaxAttempts  int           `envconfig:"KAFKA_MAX_ATTEMPTS" default:"3"`
}

type TelemetryConfig struct {
	ServiceName string `envconfig:"OTEL_SERVICE_NAME" default:"library-lending"`
}

type LendingConfig struct {
	LoanPeriodDays int           `envconfig:"LENDING_LOAN_PERIOD_DAYS" default:"14"`
	FeePerDayCents int64         `envconfig:"LENDING_FEE_PER_DAY_CENTS" default:"100"`
	SagaLease      time.Duration `envconfig:"LENDING_SAGA_LEASE" default:"30s"`
}

type StatisticsConfig struct {
	TopN int `envconfig:"STATISTICS_TOP_N" default:"5"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
	// Issuer, when set, must match the iss claim of every token.
	Issuer string `envconfig:"JWT_ISSUER"`
}

func (c *DBConfig) BuildDSN() string {
	return c.buildDSN(c.Host)
}

func (c *DBConfig) BuildReadDSN() string {
	if c.ReadHost == "" {
		return c.buildDSN(c.Host)
	}
	return c.buildDSN(c.ReadHost)
}

func (c *DBConfig) buildDSN(host string) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c *LendingConfig) LoanPeriod() time.Duration {
	return time.Duration(c.LoanPeriodDays) * 24 * time.Hour
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.DB.User == "" || c.DB.Password == "" || c.DB.DBName == "" {
			return fmt.Errorf("DB_USER, DB_PASSWORD and DB_NAME are required for the %s driver", DriverPostgres)
		}
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return fmt.Errorf("MONGO_URI and MONGO_DATABASE are required for the %s driver", DriverMongo)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Storage.RetryMaxAttempts <= 0 {
		return fmt.Errorf("STORAGE_RETRY_MAX_ATTEMPTS must be positive")
	}
	if c.Lending.LoanPeriodDays <= 0 {
		return fmt.Errorf("LENDING_LOAN_PERIOD_DAYS must be positive")
	}
	if c.Lending.FeePerDayCents < 0 {
		return fmt.Errorf("LENDING_FEE_PER_DAY_CENTS cannot be negative")
	}
	return nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		Storage: StorageConfig{
			Driver:           DriverMemory,
			OpTimeout:        time.Second,
			RetryMaxAttempts: 3,
			RetryBaseDelay:   time.Millisecond,
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "lending_test",
		},
		Kafka: KafkaConfig{
			Topic: "lending.events.test",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "library-lending-test",
		},
		Lending: LendingConfig{
			LoanPeriodDays: 14,
			FeePerDayCents: 100,
			SagaLease:      5 * time.Second,
		},
		Statistics: StatisticsConfig{
			TopN: 5,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret-key-for-lending-tests",
			Duration: "1h",
		},
	}
}
