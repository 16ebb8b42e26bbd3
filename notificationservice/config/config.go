// --- File: notificationservice/config/config.go ---
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"
	"github.com/tinywideclouds/go-microservice-base/pkg/middleware"
)

const (
	GatewayFCM  = "fcm"
	GatewayAPNS = "apns"

	DefaultNotificationsCollection = "notifications"
	DefaultUsersCollection         = "users"
	DefaultRegion                  = "us-central1"
	DefaultInvocationTimeout       = 300 * time.Second
	DefaultProfileCacheTTL         = 10 * time.Minute
)

type RedisConfig struct {
	Enabled  bool
	Addr     string `validate:"required_if=Enabled true"`
	Password string
	DB       int `validate:"gte=0"`
	TTL      time.Duration
}

type FCMConfig struct {
	// CredentialsFile is a service account key; empty uses Application Default Credentials.
	CredentialsFile string
}

type APNSConfig struct {
	KeyID        string
	TeamID       string
	BundleID     string
	P8KeyContent string
	Development  bool
}

// Config defines the *single*, authoritative configuration.
type Config struct {
	ProjectID              string `validate:"required"`
	ListenAddr             string `validate:"required"`
	Region                 string
	TopicID                string
	SubscriptionID         string `validate:"required"`
	SubscriptionDLQTopicID string
	NumPipelineWorkers     int `validate:"gte=1"`

	NotificationsCollection string `validate:"required,excludesall=/"`
	UsersCollection         string `validate:"required,excludesall=/"`
	// InvocationTimeout bounds one dispatch; a deployment parameter, YAML only.
	InvocationTimeout time.Duration `validate:"gt=0"`

	Gateway string `validate:"oneof=fcm apns"`
	FCM     FCMConfig
	APNS    APNSConfig

	CorsConfig middleware.CorsConfig
	Redis      RedisConfig

	PubsubConsumerConfig *messagepipeline.GooglePubsubConsumerConfig
}

var validate = validator.New()

// Validate checks struct tags and the cross-field gateway rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Gateway == GatewayAPNS {
		if c.APNS.KeyID == "" || c.APNS.TeamID == "" || c.APNS.BundleID == "" || c.APNS.P8KeyContent == "" {
			return fmt.Errorf("invalid config: apns gateway requires key_id, team_id, bundle_id and p8_key")
		}
	}
	return nil
}

// UpdateConfigWithEnvOverrides applies environment variables and final validation.
func UpdateConfigWithEnvOverrides(cfg *Config, logger *slog.Logger) (*Config, error) {
	logger.Debug("Applying environment variable overrides...")

	// 1. Apply Environment Overrides
	if val := os.Getenv("PROJECT_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "PROJECT_ID", "source", "env")
		cfg.ProjectID = val
	}
	if val := os.Getenv("PORT"); val != "" {
		logger.Debug("Overriding config value", "key", "PORT", "source", "env")
		cfg.ListenAddr = ":" + val
	}
	if val := os.Getenv("SUBSCRIPTION_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "SUBSCRIPTION_ID", "source", "env")
		cfg.SubscriptionID = val
		cfg.PubsubConsumerConfig = messagepipeline.NewGooglePubsubConsumerDefaults(val)
	}
	if val := os.Getenv("SUBSCRIPTION_DLQ_TOPIC_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "SUBSCRIPTION_DLQ_TOPIC_ID", "source", "env")
		cfg.SubscriptionDLQTopicID = val
	}
	if val := os.Getenv("NUM_PIPELINE_WORKERS"); val != "" {
		if workers, err := strconv.Atoi(val); err == nil && workers > 0 {
			logger.Debug("Overriding config value", "key", "NUM_PIPELINE_WORKERS", "source", "env")
			cfg.NumPipelineWorkers = workers
		}
	}

	// Gateway Overrides
	if val := os.Getenv("PUSH_GATEWAY"); val != "" {
		logger.Debug("Overriding config value", "key", "PUSH_GATEWAY", "source", "env")
		cfg.Gateway = strings.ToLower(val)
	}
	if val := os.Getenv("FCM_CREDENTIALS_FILE"); val != "" {
		logger.Debug("Overriding config value", "key", "FCM_CREDENTIALS_FILE", "source", "env")
		cfg.FCM.CredentialsFile = val
	}
	if val := os.Getenv("APNS_KEY_ID"); val != "" {
		cfg.APNS.KeyID = val
	}
	if val := os.Getenv("APNS_TEAM_ID"); val != "" {
		cfg.APNS.TeamID = val
	}
	if val := os.Getenv("APNS_BUNDLE_ID"); val != "" {
		cfg.APNS.BundleID = val
	}
	if val := os.Getenv("APNS_P8_KEY"); val != "" {
		logger.Debug("Overriding config value", "key", "APNS_P8_KEY", "source", "env")
		cfg.APNS.P8KeyContent = val
	}

	// Redis Overrides
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		cfg.Redis.Addr = val
		cfg.Redis.Enabled = true
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		cfg.Redis.Password = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		if db, err := strconv.Atoi(val); err == nil {
			cfg.Redis.DB = db
		}
	}
	if val := os.Getenv("REDIS_ENABLED"); val != "" {
		enabled, _ := strconv.ParseBool(val)
		cfg.Redis.Enabled = enabled
	}

	// CORS Overrides
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		logger.Debug("Overriding config value", "key", "CORS_ALLOWED_ORIGINS", "source", "env")
		rawOrigins := strings.Split(corsOrigins, ",")
		var cleanOrigins []string
		for _, o := range rawOrigins {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				cleanOrigins = append(cleanOrigins, trimmed)
			}
		}
		cfg.CorsConfig.AllowedOrigins = cleanOrigins
	}

	// 2. Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.NumPipelineWorkers <= 0 {
		cfg.NumPipelineWorkers = 1
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.NotificationsCollection == "" {
		cfg.NotificationsCollection = DefaultNotificationsCollection
	}
	if cfg.UsersCollection == "" {
		cfg.UsersCollection = DefaultUsersCollection
	}
	if cfg.InvocationTimeout <= 0 {
		cfg.InvocationTimeout = DefaultInvocationTimeout
	}
	if cfg.Gateway == "" {
		cfg.Gateway = GatewayFCM
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = DefaultProfileCacheTTL
	}

	// 3. Final Validation
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.PubsubConsumerConfig == nil && cfg.SubscriptionID != "" {
		cfg.PubsubConsumerConfig = messagepipeline.NewGooglePubsubConsumerDefaults(cfg.SubscriptionID)
	}

	logger.Debug("Configuration finalized and validated successfully")
	return cfg, nil
}
