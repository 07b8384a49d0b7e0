package main

import (
	"context"
	"fmt"
	"os"
	"price-manager-service/database"
	awspkg "price-manager-service/pkg/aws"
	"strconv"
	"strings"
	"time"
)

// Config holds all environment variables for the price-manager-service.
type Config struct {
	Port   string
	AppEnv string

	ConfigStore         string // mongo | dynamodb
	MongoURL            string
	MongoDB             string
	DynamoDBConfigTable string

	RedisURL string // enables async imports when set
	Postgres database.PostgresConfig

	EventsBackend       string // none | sns | kafka
	PriceEventsTopicARN string
	KafkaBrokers        []string
	KafkaTopic          string

	StorageBackend string // local | s3
	BulkStorageDir string
	BulkBucket     string
	ArchiveExports bool

	AllowedOrigins     []string
	OperatorJWTSecret  string
	RateLimitPerMinute int
	RequestTimeout     time.Duration
	BulkRequestTimeout time.Duration

	AWSUseSecrets      bool
	AWSRegion          string
	AWSEndpoint        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	CloudWatchEnabled   bool
	CloudWatchNamespace string
	CloudWatchLogGroup  string
}

// JournalEnabled reports whether a Postgres journal is configured.
func (c *Config) JournalEnabled() bool {
	return c.Postgres.User != ""
}

// AWSSettings returns the settings shared by every AWS client.
func (c *Config) AWSSettings() awspkg.Settings {
	return awspkg.Settings{
		Region:          c.AWSRegion,
		Endpoint:        c.AWSEndpoint,
		AccessKeyID:     c.AWSAccessKeyID,
		SecretAccessKey: c.AWSSecretAccessKey,
	}
}

// secretSource is the part of the Secrets Manager client used for overrides.
type secretSource interface {
	GetSecret(ctx context.Context, name string) (string, error)
	GetSecretJSON(ctx context.Context, name string, out interface{}) error
}

const (
	secretMongoURL       = "price-manager/MONGO_URL"
	secretDBCredentials  = "price-manager/DB_CREDENTIALS"
	secretOperatorSecret = "price-manager/OPERATOR_JWT_SECRET"
)

// LoadConfig loads environment variables into Config and validates them.
// If AWS_USE_SECRETS=true it reads secrets from Secrets Manager and keeps
// the env values for any secret that cannot be read.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:   getEnv("PORT", "8090"),
		AppEnv: getEnv("APP_ENV", "development"),

		ConfigStore:         strings.ToLower(getEnv("CONFIG_STORE", "mongo")),
		MongoURL:            os.Getenv("MONGO_URL"),
		MongoDB:             getEnv("MONGO_DB", "price_manager"),
		DynamoDBConfigTable: getEnv("DYNAMODB_CONFIG_TABLE", "MagentoConfig"),

		RedisURL: os.Getenv("REDIS_URL"),
		Postgres: database.PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		},

		EventsBackend:       strings.ToLower(getEnv("EVENTS_BACKEND", "none")),
		PriceEventsTopicARN: os.Getenv("PRICE_EVENTS_TOPIC_ARN"),
		KafkaBrokers:        getEnvSlice("KAFKA_BROKERS", nil),
		KafkaTopic:          getEnv("KAFKA_TOPIC", "price-events"),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", "local")),
		BulkStorageDir: getEnv("BULK_STORAGE_DIR", "./data/price_imports"),
		BulkBucket:     os.Getenv("BULK_BUCKET"),
		ArchiveExports: getEnvBool("ARCHIVE_EXPORTS", false),

		AllowedOrigins:     getEnvSlice("ALLOWED_ORIGINS", []string{"*"}),
		OperatorJWTSecret:  os.Getenv("OPERATOR_JWT_SECRET"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		BulkRequestTimeout: getEnvDuration("BULK_REQUEST_TIMEOUT", 10*time.Minute),

		AWSUseSecrets:      getEnvBool("AWS_USE_SECRETS", false),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSEndpoint:        os.Getenv("AWS_ENDPOINT"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),

		CloudWatchEnabled:   getEnvBool("CLOUDWATCH_ENABLED", false),
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "PriceManager"),
		CloudWatchLogGroup:  getEnv("CLOUDWATCH_LOG_GROUP", "/price-manager/service"),
	}

	if cfg.AWSUseSecrets {
		ctx := context.Background()
		if awsCfg, err := awspkg.LoadAWSConfig(ctx, cfg.AWSSettings()); err == nil {
			applySecrets(ctx, cfg, awspkg.NewSecretsClient(awsCfg))
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySecrets overrides connection secrets with Secrets Manager values.
func applySecrets(ctx context.Context, cfg *Config, sm secretSource) {
	if v, err := sm.GetSecret(ctx, secretMongoURL); err == nil && v != "" {
		cfg.MongoURL = v
	}
	if v, err := sm.GetSecret(ctx, secretOperatorSecret); err == nil && v != "" {
		cfg.OperatorJWTSecret = v
	}

	var creds struct {
		User     string `json:"POSTGRES_USER"`
		Password string `json:"POSTGRES_PASSWORD"`
		DB       string `json:"POSTGRES_DB"`
		Host     string `json:"POSTGRES_HOST"`
		Port     string `json:"POSTGRES_PORT"`
	}
	if err := sm.GetSecretJSON(ctx, secretDBCredentials, &creds); err == nil && creds.User != "" {
		cfg.Postgres.User = creds.User
		cfg.Postgres.Password = creds.Password
		if creds.DB != "" {
			cfg.Postgres.DBName = creds.DB
		}
		if creds.Host != "" {
			cfg.Postgres.Host = creds.Host
		}
		if creds.Port != "" {
			cfg.Postgres.Port = creds.Port
		}
	}
}

func (c *Config) validate() error {
	switch c.ConfigStore {
	case "mongo":
		if c.MongoURL == "" {
			return fmt.Errorf("MONGO_URL is required when CONFIG_STORE=mongo")
		}
	case "dynamodb":
		if c.DynamoDBConfigTable == "" {
			return fmt.Errorf("DYNAMODB_CONFIG_TABLE is required when CONFIG_STORE=dynamodb")
		}
	default:
		return fmt.Errorf("unsupported CONFIG_STORE %q", c.ConfigStore)
	}

	switch c.EventsBackend {
	case "none", "":
	case "sns":
		if c.PriceEventsTopicARN == "" {
			return fmt.Errorf("PRICE_EVENTS_TOPIC_ARN is required when EVENTS_BACKEND=sns")
		}
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when EVENTS_BACKEND=kafka")
		}
	default:
		return fmt.Errorf("unsupported EVENTS_BACKEND %q", c.EventsBackend)
	}

	switch c.StorageBackend {
	case "local":
	case "s3":
		if c.BulkBucket == "" {
			return fmt.Errorf("BULK_BUCKET is required when STORAGE_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.JournalEnabled() && c.Postgres.DBName == "" {
		return fmt.Errorf("POSTGRES_DB is required when POSTGRES_USER is set")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
