package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultSessionSecret = "change-me-marketplace-session-secret"

// Storage backends accepted by STORAGE_BACKEND.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config holds all configuration for the service.
type Config struct {
	ServiceName string `mapstructure:"SERVICE_NAME"`
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	// GRPCHealthPort enables the gRPC health server when non-empty.
	GRPCHealthPort string `mapstructure:"GRPC_HEALTH_PORT"`

	HTTPReadTimeout  time.Duration `mapstructure:"HTTP_READ_TIMEOUT"`
	HTTPWriteTimeout time.Duration `mapstructure:"HTTP_WRITE_TIMEOUT"`
	HTTPIdleTimeout  time.Duration `mapstructure:"HTTP_IDLE_TIMEOUT"`
	ShutdownTimeout  time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// NATSURL may be empty; events are then dropped and old images are
	// deleted in-process.
	NATSURL string `mapstructure:"NATS_URL"`

	SessionSecret       string        `mapstructure:"SESSION_SECRET"`
	SessionTTL          time.Duration `mapstructure:"SESSION_TTL"`
	SessionCookieName   string        `mapstructure:"SESSION_COOKIE_NAME"`
	SessionCookieSecure bool          `mapstructure:"SESSION_COOKIE_SECURE"`
	BcryptCost          int           `mapstructure:"BCRYPT_COST"`

	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	UploadsDir     string `mapstructure:"UPLOADS_DIR"`
	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	MaxPhotos       int           `mapstructure:"MAX_PHOTOS"`
	MaxUploadSizeMB int64         `mapstructure:"MAX_UPLOAD_SIZE_MB"`
	ListingCacheTTL time.Duration `mapstructure:"LISTING_CACHE_TTL"`

	PrometheusMetricsPort  string `mapstructure:"PROMETHEUS_METRICS_PORT"`
	OTExporterOTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	LogFormat              string `mapstructure:"LOG_FORMAT"`
}

// MaxUploadBytes is the per-file upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadSizeMB << 20
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "marketplace-service")
	v.SetDefault("HTTP_PORT", "3000")
	v.SetDefault("GRPC_HEALTH_PORT", "")
	v.SetDefault("HTTP_READ_TIMEOUT", "15s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "30s")
	v.SetDefault("HTTP_IDLE_TIMEOUT", "60s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "olx_marketplace")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("NATS_URL", "nats://localhost:4222")

	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_COOKIE_NAME", "olx_session")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("BCRYPT_COST", 12)

	v.SetDefault("STORAGE_BACKEND", StorageLocal)
	v.SetDefault("UPLOADS_DIR", "./uploads")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_BUCKET", "marketplace-photos")
	v.SetDefault("MINIO_USE_SSL", false)

	v.SetDefault("MAX_PHOTOS", 5)
	v.SetDefault("MAX_UPLOAD_SIZE_MB", 5)
	v.SetDefault("LISTING_CACHE_TTL", "1h")

	v.SetDefault("PROMETHEUS_METRICS_PORT", "9094")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// LoadConfig reads configuration from the environment. A .env file, if any,
// is loaded by main before this is called.
func LoadConfig(appLogger *logger.Logger) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.SessionSecret == defaultSessionSecret {
		appLogger.Warn("SESSION_SECRET is set to its default insecure value. Please set a strong secret in your environment.")
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("grpc_health_port", cfg.GRPCHealthPort),
		zap.Bool("mongo_uri_present", cfg.MongoURI != ""),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("redis_addr", cfg.RedisAddr),
		zap.String("nats_url", cfg.NATSURL),
		zap.String("storage_backend", cfg.StorageBackend),
		zap.Int("max_photos", cfg.MaxPhotos),
		zap.Int64("max_upload_size_mb", cfg.MaxUploadSizeMB),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
		zap.String("otel_endpoint", cfg.OTExporterOTLPEndpoint),
	)

	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if c.MongoDatabase == "" {
		errs = append(errs, errors.New("MONGO_DATABASE is required"))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	c.StorageBackend = strings.ToLower(c.StorageBackend)
	if c.StorageBackend != StorageLocal && c.StorageBackend != StorageS3 {
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageLocal, StorageS3, c.StorageBackend))
	}
	if c.MaxPhotos <= 0 {
		errs = append(errs, errors.New("MAX_PHOTOS must be positive"))
	}
	if c.MaxUploadSizeMB <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_SIZE_MB must be positive"))
	}
	return errors.Join(errs...)
}
