// Package config handles runtime settings for the filing service:
// development defaults overlaid by VERITAX_* environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the API server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty runs the in-memory store.
//   - TokenSecret: HMAC secret for signing JWTs (HS256). Do not use the
//     default outside development.
//   - TokenTTL: bearer token lifetime.
//   - EvidenceDir: filesystem root for evidence blobs when S3 is not
//     configured.
//   - S3Bucket / S3Region / S3BaseEndpoint / S3AccessKey / S3SecretKey:
//     object storage settings for evidence blobs.
//   - RateLimitRPS / RateLimitBurst: per-client request throttle.
type Config struct {
	Addr           string
	DatabaseDSN    string
	TokenSecret    string
	TokenTTL       time.Duration
	EvidenceDir    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	RateLimitRPS   float64
	RateLimitBurst int
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabaseDSN = ""
	c.TokenSecret = "devSecret"
	c.TokenTTL = 30 * time.Minute
	c.EvidenceDir = "./evidence"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.S3AccessKey = ""
	c.S3SecretKey = ""
	c.RateLimitRPS = 20
	c.RateLimitBurst = 40
}

// Load builds a Config from defaults overlaid by environment variables.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	overlayEnv(cfg)
	return cfg
}

func overlayEnv(c *Config) {
	setString(&c.Addr, "VERITAX_ADDR")
	setString(&c.DatabaseDSN, "VERITAX_PG_DSN")
	setString(&c.TokenSecret, "VERITAX_TOKEN_SECRET")
	setDuration(&c.TokenTTL, "VERITAX_TOKEN_TTL")
	setString(&c.EvidenceDir, "VERITAX_EVIDENCE_DIR")
	setString(&c.S3Bucket, "VERITAX_S3_BUCKET")
	setString(&c.S3Region, "VERITAX_S3_REGION")
	setString(&c.S3BaseEndpoint, "VERITAX_S3_ENDPOINT")
	setString(&c.S3AccessKey, "VERITAX_S3_ACCESS_KEY")
	setString(&c.S3SecretKey, "VERITAX_S3_SECRET_KEY")
	setFloat(&c.RateLimitRPS, "VERITAX_RATE_LIMIT_RPS")
	setInt(&c.RateLimitBurst, "VERITAX_RATE_LIMIT_BURST")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
