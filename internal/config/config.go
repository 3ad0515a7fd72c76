package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/loadlane/service-logistics/internal/pkg/database"
)

// KafkaConfig holds broker addresses and the consumer group prefix.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// MapboxConfig holds the routing provider settings. An empty AccessToken is
// not a load error; the routing client reports NOT_CONFIGURED at first use.
type MapboxConfig struct {
	AccessToken string
	BaseURL     string
}

// ServiceConfig holds all configuration for the logistics service.
type ServiceConfig struct {
	Port      string
	AppEnv    string
	DBConfig  database.PostgresConfig
	JWTSecret string
	Kafka     KafkaConfig
	Mapbox    MapboxConfig
}

// Load reads configuration from LOGISTICS_-prefixed environment variables,
// falling back to a .env file when present.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("LOGISTICS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // optional

	v.SetDefault("SERVICE_PORT", "8084")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "logistics")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "loadlane.")
	v.SetDefault("MAPBOX_BASE_URL", "https://api.mapbox.com")

	cfg := &ServiceConfig{
		Port:   ":" + strings.TrimPrefix(v.GetString("SERVICE_PORT"), ":"),
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTSecret: v.GetString("JWT_SECRET"),
		Kafka: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		Mapbox: MapboxConfig{
			AccessToken: v.GetString("MAPBOX_TOKEN"),
			BaseURL:     v.GetString("MAPBOX_BASE_URL"),
		},
	}

	if cfg.AppEnv != "development" && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("LOGISTICS_JWT_SECRET is required outside development")
	}
	return cfg, nil
}
