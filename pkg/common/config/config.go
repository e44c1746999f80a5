package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort   string
	ServerHost   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Result store
	StoreDriver      string // postgres or memory
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis (latest-result cache)
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	ResultCacheTTL time.Duration

	// Kafka (score.computed events)
	EventsEnabled bool
	KafkaBrokers  []string
	KafkaTopic    string

	// Scoring model
	ModelArtifactPath string
	FeatureSpecPath   string

	// Risk post-processing
	ComorbidityFloor      bool
	ComorbidityFloorScore float64

	// Recommendations
	CatalogPath string
	TipCount    int
}

func Load() *Config {
	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ServerHost:   getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),

		StoreDriver:      getEnv("STORE_DRIVER", "postgres"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "wellmate"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "wellmate123"),
		PostgresDB:       getEnv("POSTGRES_DB", "wellmate"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getIntEnv("REDIS_DB", 0),
		ResultCacheTTL: getDuration("RESULT_CACHE_TTL", 10*time.Minute),

		EventsEnabled: getBoolEnv("EVENTS_ENABLED", false),
		KafkaBrokers:  getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "wellmate.score.computed"),

		ModelArtifactPath: getEnv("MODEL_ARTIFACT_PATH", ""),
		FeatureSpecPath:   getEnv("FEATURE_SPEC_PATH", ""),

		ComorbidityFloor:      getBoolEnv("RISK_COMORBIDITY_FLOOR", true),
		ComorbidityFloorScore: getFloatEnv("RISK_COMORBIDITY_FLOOR_SCORE", 60),

		CatalogPath: getEnv("RECOMMEND_CATALOG_PATH", ""),
		TipCount:    getIntEnv("RECOMMEND_TIP_COUNT", 2),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
