package config

import (
	"os"
	"strconv"
	"time"

	"idrecon/pkg/nationalid"
	"idrecon/pkg/platform/strings"
)

// Server captures HTTP server level configuration and the settings of every
// component main wires.
type Server struct {
	Addr        string
	Environment string
	LogLevel    string
	DatabaseURL string
	// AutoMigrate applies the embedded schema when the pool opens.
	AutoMigrate bool
	ReportDir   string

	// LearnerSeedFile is a learner CSV imported once at startup when set.
	LearnerSeedFile string

	Redis     RedisConfig
	Kafka     KafkaConfig
	Reference ReferenceConfig
	Recon     ReconConfig
}

// RedisConfig configures the shared Redis client. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures job event publishing. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers  string
	JobTopic string
}

// ReferenceConfig configures the Home Affairs reference importer.
type ReferenceConfig struct {
	SourceURL    string
	FallbackSeed bool
	FetchTimeout time.Duration
}

// ReconConfig configures the reconciliation engine and job bookkeeping.
type ReconConfig struct {
	Workers         int
	BatchSize       int
	FormatExemptIDs []string
	JobTTL          time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:        envString("IDRECON_ADDR", ":8080"),
		Environment: envString("ENVIRONMENT", "development"),
		LogLevel:    envString("LOG_LEVEL", "info"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AutoMigrate: envBool("DATABASE_AUTO_MIGRATE", true),
		ReportDir:   envString("REPORT_DIR", "reports"),

		LearnerSeedFile: os.Getenv("LEARNER_SEED_FILE"),

		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:  os.Getenv("KAFKA_BROKERS"),
			JobTopic: envString("KAFKA_JOB_TOPIC", "idrecon.reconciliation.jobs"),
		},
		Reference: ReferenceConfig{
			SourceURL:    os.Getenv("REFERENCE_SOURCE_URL"),
			FallbackSeed: envBool("REFERENCE_FALLBACK_SEED", true),
			FetchTimeout: envDuration("REFERENCE_FETCH_TIMEOUT", 30*time.Second),
		},
		Recon: ReconConfig{
			Workers:         envInt("RECON_WORKERS", 8),
			BatchSize:       envInt("RECON_BATCH_SIZE", 500),
			FormatExemptIDs: envList("RECON_FORMAT_EXEMPT_IDS", nationalid.FixtureIDs()),
			JobTTL:          envDuration("JOB_TTL", 24*time.Hour),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt ignores malformed and non-positive values.
// envList falls back only when key is unset; a set but blank value yields an
// empty list.
func envList(key string, fallback []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.SplitList(v)
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
