package env

import (
	"os"
	"runtime"
	"strings"
	"time"

	"biointake.io/infrastructure/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		logger.Info("error loading env variables")
	}
}

type Config struct {
	Port    string
	GinMode string

	DBURL         string
	DBName        string
	RedisAddr     string
	RedisPassword string

	CascadePath string

	ForensicMaxCaptureAge time.Duration

	ImageFetchTimeout    time.Duration
	ImageFetchMaxRetries int
	ImageMaxBytes        int64

	AnalysisWorkers int
	AnalysisBacklog int

	FingerprintMatchTolerance float64
	FingerprintCacheTTL       time.Duration

	FraudWebhookURL        string
	FraudWebhookTimeout    time.Duration
	FraudWebhookMaxRetries int
	JWTSigningKey          string
	CorsOrigins            []string
	RateLimit              float64
}

var config *Config

// LoadEnv reads the process environment into a Config. Calling it again
// re-reads the environment.
func LoadEnv() *Config {
	workers := cast.ToInt(os.Getenv("ANALYSIS_WORKERS"))
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	backlog := cast.ToInt(os.Getenv("ANALYSIS_BACKLOG"))
	if backlog <= 0 {
		backlog = workers * 4
	}
	config = &Config{
		Port:                      stringOr("PORT", "8080"),
		GinMode:                   stringOr("GIN_MODE", "debug"),
		DBURL:                     os.Getenv("DB_URL"),
		DBName:                    stringOr("DB_NAME", "biointake"),
		RedisAddr:                 stringOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:             os.Getenv("REDIS_PASSWORD"),
		CascadePath:               stringOr("OPENCV_CASCADE_PATH", "./models/haarcascades"),
		ForensicMaxCaptureAge:     durationOr("FORENSIC_MAX_CAPTURE_AGE", 24*time.Hour),
		ImageFetchTimeout:         durationOr("IMAGE_FETCH_TIMEOUT", 10*time.Second),
		ImageFetchMaxRetries:      intOr("IMAGE_FETCH_MAX_RETRIES", 2),
		ImageMaxBytes:             int64(intOr("IMAGE_MAX_BYTES", 10<<20)),
		AnalysisWorkers:           workers,
		AnalysisBacklog:           backlog,
		FingerprintMatchTolerance: cast.ToFloat64(os.Getenv("FINGERPRINT_MATCH_TOLERANCE")),
		FingerprintCacheTTL:       durationOr("FINGERPRINT_CACHE_TTL", time.Hour),
		FraudWebhookURL:           os.Getenv("FRAUD_WEBHOOK_URL"),
		FraudWebhookTimeout:       durationOr("FRAUD_WEBHOOK_TIMEOUT", 10*time.Second),
		FraudWebhookMaxRetries:    intOr("FRAUD_WEBHOOK_MAX_RETRIES", 3),
		JWTSigningKey:             os.Getenv("JWT_SIGNING_KEY"),
		CorsOrigins:               splitList(os.Getenv("CORS_ORIGINS")),
		RateLimit:                 floatOr("RATE_LIMIT_PER_SECOND", 25),
	}
	return config
}

// Get returns the loaded config, loading it on first use.
func Get() *Config {
	if config == nil {
		return LoadEnv()
	}
	return config
}

func stringOr(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intOr(key string, def int) int {
	v, err := cast.ToIntE(os.Getenv(key))
	if err != nil || v < 0 || os.Getenv(key) == "" {
		return def
	}
	return v
}

func floatOr(key string, def float64) float64 {
	v, err := cast.ToFloat64E(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// durationOr accepts Go duration strings ("30s") or bare seconds ("30").
func durationOr(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	if secs, err := cast.ToInt64E(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := cast.ToDurationE(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
