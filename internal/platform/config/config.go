package config

import (
	"os"
	"strconv"
	"time"
)

// QuotaKeyPolicy selects how guest quota entries are keyed.
type QuotaKeyPolicy string

const (
	// QuotaKeyIdentity keys by user ID when one exists, falling back to the
	// client address for anonymous callers.
	QuotaKeyIdentity QuotaKeyPolicy = "identity"
	// QuotaKeyAddress always keys by client address.
	QuotaKeyAddress QuotaKeyPolicy = "address"
)

// Server captures all runtime configuration. Parsed once in main so every
// other package receives plain values.
type Server struct {
	Addr          string
	JWTSigningKey string
	TokenTTL      time.Duration
	AuthOptional  bool

	GuestDailyQuota int
	QuotaWindow     time.Duration
	QuotaKeyPolicy  QuotaKeyPolicy

	RateLimitMax    int
	RateLimitWindow time.Duration

	MaxUploadBytes int64

	StabilityAPIBase string
	StabilityAPIKey  string
	StabilityEngine  string
	TransformTimeout time.Duration

	SplunkHECURL   string
	SplunkHECToken string
	PostgresURL    string
	KafkaBrokers   string
	KafkaTopic     string
	RedisURL       string
	SinkTimeout    time.Duration

	// RevocationTTL bounds how long revoked tokens are retained by stores that
	// support expiry. Zero means revocations never expire.
	RevocationTTL time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:          envString("ROOMALCHEMY_ADDR", ":8080"),
		JWTSigningKey: envString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:      envDuration("TOKEN_TTL", 24*time.Hour),
		AuthOptional:  envString("AUTH_OPTIONAL", "false") == "true",

		GuestDailyQuota: envInt("GUEST_DAILY_QUOTA", 3),
		QuotaWindow:     envDuration("GUEST_QUOTA_WINDOW", 24*time.Hour),
		QuotaKeyPolicy:  quotaKeyPolicy(envString("GUEST_QUOTA_KEY_POLICY", string(QuotaKeyIdentity))),

		RateLimitMax:    envInt("RATE_LIMIT_MAX", 5),
		RateLimitWindow: envDuration("RATE_LIMIT_WINDOW", time.Minute),

		MaxUploadBytes: int64(envInt("MAX_UPLOAD_BYTES", 8<<20)),

		StabilityAPIBase: envString("STABILITY_API_BASE", "https://api.stability.ai"),
		StabilityAPIKey:  os.Getenv("STABILITY_API_KEY"),
		StabilityEngine:  envString("STABILITY_ENGINE", "stable-diffusion-xl-1024-v1-0"),
		TransformTimeout: envDuration("TRANSFORM_TIMEOUT", 60*time.Second),

		SplunkHECURL:   os.Getenv("SPLUNK_HEC_URL"),
		SplunkHECToken: os.Getenv("SPLUNK_HEC_TOKEN"),
		PostgresURL:    os.Getenv("POSTGRES_URL"),
		KafkaBrokers:   os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:     envString("KAFKA_TOPIC", "roomalchemy.events"),
		RedisURL:       os.Getenv("REDIS_URL"),
		SinkTimeout:    envDuration("SINK_TIMEOUT", 3*time.Second),

		RevocationTTL: envDuration("REVOCATION_TTL", 0),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func quotaKeyPolicy(v string) QuotaKeyPolicy {
	if QuotaKeyPolicy(v) == QuotaKeyAddress {
		return QuotaKeyAddress
	}
	return QuotaKeyIdentity
}
