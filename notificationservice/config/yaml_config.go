// --- File: notificationservice/config/yaml_config.go ---
package config

import (
	"log/slog"
	"time"

	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"
	"github.com/tinywideclouds/go-microservice-base/pkg/middleware"
)

type YamlCorsConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	Role           string   `yaml:"role"`
}

type YamlRedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	Enabled    bool   `yaml:"enabled"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

type YamlFCMConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
}

type YamlAPNSConfig struct {
	KeyID       string `yaml:"key_id"`
	TeamID      string `yaml:"team_id"`
	BundleID    string `yaml:"bundle_id"`
	P8Key       string `yaml:"p8_key"`
	Development bool   `yaml:"development"`
}

// YamlConfig is the structure that mirrors the raw config.yaml file.
type YamlConfig struct {
	ProjectID                string          `yaml:"project_id"`
	ListenAddr               string          `yaml:"listen_addr"`
	Region                   string          `yaml:"region"`
	TopicID                  string          `yaml:"topic_id"`
	SubscriptionID           string          `yaml:"subscription_id"`
	SubscriptionDLQTopicID   string          `yaml:"subscription_dlq_topic_id"`
	NumPipelineWorkers       int             `yaml:"num_pipeline_workers"`
	NotificationsCollection  string          `yaml:"notifications_collection"`
	UsersCollection          string          `yaml:"users_collection"`
	InvocationTimeoutSeconds int             `yaml:"invocation_timeout_seconds"`
	Gateway                  string          `yaml:"gateway"`
	FCMConfig                YamlFCMConfig   `yaml:"fcm"`
	APNSConfig               YamlAPNSConfig  `yaml:"apns"`
	CorsConfig               YamlCorsConfig  `yaml:"cors"`
	RedisConfig              YamlRedisConfig `yaml:"redis"`
}

// NewConfigFromYaml converts the YamlConfig into a clean, base Config struct.
func NewConfigFromYaml(baseCfg *YamlConfig, logger *slog.Logger) (*Config, error) {
	logger.Debug("Mapping YAML config to base config struct")

	cfg := &Config{
		ProjectID:               baseCfg.ProjectID,
		ListenAddr:              baseCfg.ListenAddr,
		Region:                  baseCfg.Region,
		TopicID:                 baseCfg.TopicID,
		SubscriptionID:          baseCfg.SubscriptionID,
		SubscriptionDLQTopicID:  baseCfg.SubscriptionDLQTopicID,
		NumPipelineWorkers:      baseCfg.NumPipelineWorkers,
		NotificationsCollection: baseCfg.NotificationsCollection,
		UsersCollection:         baseCfg.UsersCollection,
		InvocationTimeout:       time.Duration(baseCfg.InvocationTimeoutSeconds) * time.Second,
		Gateway:                 baseCfg.Gateway,
		FCM: FCMConfig{
			CredentialsFile: baseCfg.FCMConfig.CredentialsFile,
		},
		APNS: APNSConfig{
			KeyID:        baseCfg.APNSConfig.KeyID,
			TeamID:       baseCfg.APNSConfig.TeamID,
			BundleID:     baseCfg.APNSConfig.BundleID,
			P8KeyContent: baseCfg.APNSConfig.P8Key,
			Development:  baseCfg.APNSConfig.Development,
		},
		CorsConfig: middleware.CorsConfig{
			AllowedOrigins: baseCfg.CorsConfig.AllowedOrigins,
			Role:           middleware.CorsRole(baseCfg.CorsConfig.Role),
		},
		Redis: RedisConfig{
			Addr:     baseCfg.RedisConfig.Addr,
			Password: baseCfg.RedisConfig.Password,
			DB:       baseCfg.RedisConfig.DB,
			Enabled:  baseCfg.RedisConfig.Enabled,
			TTL:      time.Duration(baseCfg.RedisConfig.TTLSeconds) * time.Second,
		},
	}

	if cfg.SubscriptionID != "" {
		cfg.PubsubConsumerConfig = messagepipeline.NewGooglePubsubConsumerDefaults(cfg.SubscriptionID)
	}

	logger.Debug("YAML config mapping complete",
		"project_id", cfg.ProjectID,
		"listen_addr", cfg.ListenAddr,
		"subscription_id", cfg.SubscriptionID,
		"gateway", cfg.Gateway,
	)

	return cfg, nil
}
