// Package config loads the service configuration from environment
// variables via viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/stepfree-maps/service-routing/internal/domain/reroute"
	"github.com/stepfree-maps/service-routing/internal/domain/route"
)

// DatabaseConfig holds the POI store connection settings. An empty Host
// disables the store.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// DGISConfig holds the mapping-provider settings.
type DGISConfig struct {
	APIKey     string
	RoutingURL string
	CatalogURL string
	Locale     string
	Timeout    time.Duration
}

// ServiceConfig holds all configuration for the routing service.
type ServiceConfig struct {
	Port         string
	AppEnv       string
	DGIS         DGISConfig
	OverpassURL  string
	DB           DatabaseConfig
	KafkaBrokers []string
	Region       string
	Via          route.ViaOptions
	Slope        reroute.Options
}

// Load reads configuration from ROUTING_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("ROUTING")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("SERVICE_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DGIS_TIMEOUT", "15s")
	v.SetDefault("REGION", "moscow")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("MAX_LATERAL_M", 120.0)
	v.SetDefault("MIN_STEP_M", 350.0)
	v.SetDefault("MAX_VIAS", 6)
	v.SetDefault("MAX_ANGLE_DEG", 5.0)
	v.SetDefault("MAX_TRIES", 24)

	if v.GetString("DGIS_API_KEY") == "" {
		return nil, fmt.Errorf("ROUTING_DGIS_API_KEY is required")
	}

	port := v.GetString("SERVICE_PORT")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	var brokers []string
	if raw := v.GetString("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return &ServiceConfig{
		Port:   port,
		AppEnv: v.GetString("APP_ENV"),
		DGIS: DGISConfig{
			APIKey:     v.GetString("DGIS_API_KEY"),
			RoutingURL: v.GetString("DGIS_ROUTING_URL"),
			CatalogURL: v.GetString("DGIS_CATALOG_URL"),
			Locale:     v.GetString("DGIS_LOCALE"),
			Timeout:    v.GetDuration("DGIS_TIMEOUT"),
		},
		OverpassURL: v.GetString("OVERPASS_URL"),
		DB: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		KafkaBrokers: brokers,
		Region:       v.GetString("REGION"),
		Via: route.ViaOptions{
			MaxLateralM: v.GetFloat64("MAX_LATERAL_M"),
			MinStepM:    v.GetFloat64("MIN_STEP_M"),
			MaxVias:     v.GetInt("MAX_VIAS"),
		},
		Slope: reroute.Options{
			MaxAngleDeg: v.GetFloat64("MAX_ANGLE_DEG"),
			MaxTries:    v.GetInt("MAX_TRIES"),
		},
	}, nil
}
