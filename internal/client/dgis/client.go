// Package dgis is the HTTP client for the external mapping provider: the
// v7 routing endpoint, the places search and the regions lookup.
package dgis

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Defaults for the provider endpoints.
const (
	DefaultRoutingURL = "https://routing.api.2gis.com/routing/7.0.0/global"
	DefaultCatalogURL = "https://catalog.api.2gis.com/3.0"
	DefaultLocale     = "ru"
)

// Config configures the provider client.
type Config struct {
	APIKey     string
	RoutingURL string
	CatalogURL string
	Locale     string
	Timeout    time.Duration
}

// Client calls the mapping provider. It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a provider client, filling unset config fields with
// defaults.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.RoutingURL == "" {
		cfg.RoutingURL = DefaultRoutingURL
	}
	if cfg.CatalogURL == "" {
		cfg.CatalogURL = DefaultCatalogURL
	}
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}
