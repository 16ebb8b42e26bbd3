// --- File: notificationservice/config/yaml_config_test.go ---
package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-microservice-base/pkg/middleware"
	"gopkg.in/yaml.v3"

	"github.com/Gen3ratorX/clinic-app/notificationservice/config"
)

func TestNewConfigFromYaml(t *testing.T) {
	logger := newTestLogger()

	t.Run("Success - maps all fields correctly", func(t *testing.T) {
		yamlCfg := &config.YamlConfig{
			ProjectID:                "yaml-project",
			ListenAddr:               ":9000",
			Region:                   "europe-west1",
			TopicID:                  "yaml-topic",
			SubscriptionID:           "yaml-subscription",
			SubscriptionDLQTopicID:   "yaml-dlq",
			NumPipelineWorkers:       5,
			NotificationsCollection:  "notifications",
			UsersCollection:          "users",
			InvocationTimeoutSeconds: 120,
			Gateway:                  "apns",
			APNSConfig: config.YamlAPNSConfig{
				KeyID:    "key",
				TeamID:   "team",
				BundleID: "com.clinic.app",
				P8Key:    "p8",
			},
			CorsConfig: config.YamlCorsConfig{
				AllowedOrigins: []string{"http://yaml.com"},
				Role:           "editor",
			},
			RedisConfig: config.YamlRedisConfig{
				Addr:       "localhost:6379",
				Enabled:    true,
				TTLSeconds: 60,
			},
		}

		cfg, err := config.NewConfigFromYaml(yamlCfg, logger)

		require.NoError(t, err)
		require.NotNil(t, cfg)

		// 1. Direct Field Mapping
		assert.Equal(t, "yaml-project", cfg.ProjectID)
		assert.Equal(t, ":9000", cfg.ListenAddr)
		assert.Equal(t, "europe-west1", cfg.Region)
		assert.Equal(t, "yaml-topic", cfg.TopicID)
		assert.Equal(t, "yaml-subscription", cfg.SubscriptionID)
		assert.Equal(t, "yaml-dlq", cfg.SubscriptionDLQTopicID)
		assert.Equal(t, 5, cfg.NumPipelineWorkers)
		assert.Equal(t, 120*time.Second, cfg.InvocationTimeout)

		// 2. Gateway
		assert.Equal(t, config.GatewayAPNS, cfg.Gateway)
		assert.Equal(t, "com.clinic.app", cfg.APNS.BundleID)
		assert.Equal(t, "p8", cfg.APNS.P8KeyContent)

		// 3. CORS and Redis
		assert.Equal(t, []string{"http://yaml.com"}, cfg.CorsConfig.AllowedOrigins)
		assert.Equal(t, middleware.CorsRoleEditor, cfg.CorsConfig.Role)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, time.Minute, cfg.Redis.TTL)

		assert.NotNil(t, cfg.PubsubConsumerConfig)
	})

	t.Run("Success - Handles missing optional fields gracefully", func(t *testing.T) {
		yamlCfg := &config.YamlConfig{
			ProjectID:      "minimal-project",
			SubscriptionID: "minimal-sub",
		}

		cfg, err := config.NewConfigFromYaml(yamlCfg, logger)

		require.NoError(t, err)
		assert.Equal(t, "minimal-project", cfg.ProjectID)
		assert.Equal(t, 0, cfg.NumPipelineWorkers)
		assert.Empty(t, cfg.ListenAddr)
		assert.Empty(t, cfg.Gateway)
		assert.Zero(t, cfg.InvocationTimeout)
	})

	t.Run("Success - Parses raw yaml keys", func(t *testing.T) {
		raw := []byte(`
project_id: clinic-app
subscription_id: notifications-created-sub
invocation_timeout_seconds: 300
gateway: fcm
fcm:
  credentials_file: /secrets/sa.json
redis:
  enabled: false
`)
		var yamlCfg config.YamlConfig
		require.NoError(t, yaml.Unmarshal(raw, &yamlCfg))

		cfg, err := config.NewConfigFromYaml(&yamlCfg, logger)
		require.NoError(t, err)
		assert.Equal(t, "clinic-app", cfg.ProjectID)
		assert.Equal(t, 300*time.Second, cfg.InvocationTimeout)
		assert.Equal(t, "/secrets/sa.json", cfg.FCM.CredentialsFile)
	})
}
