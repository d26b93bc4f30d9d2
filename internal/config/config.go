package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvProduction is the APP_ENV value that turns missing secrets into startup failures.
const EnvProduction = "production"

// Config holds all configuration for the application.
type Config struct {
	Env     string `envconfig:"APP_ENV" default:"development"`
	Server  ServerConfig
	DB      DBConfig
	Log     LogConfig
	Gateway GatewayConfig
	Content ContentConfig
	Catalog CatalogConfig
	Events  EventsConfig
	CORS    CORSConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// DBConfig holds database-related configuration.
// WARNING: Default password is for local development only.
// In production, always set DB_PASSWORD via environment variable.
// In production, set DB_SSLMODE to "require" or "verify-full".
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"` // CHANGE IN PRODUCTION
	Name     string `envconfig:"DB_NAME" default:"checkout_db"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"` // Use "require" in production
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_min_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConns, c.MinConns)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// GatewayConfig holds the Razorpay credentials.
// KeyID is public and handed to the checkout widget; KeySecret and WebhookSecret never leave the server.
type GatewayConfig struct {
	KeyID          string `envconfig:"RAZORPAY_KEY_ID"`
	KeySecret      string `envconfig:"RAZORPAY_KEY_SECRET"`
	WebhookSecret  string `envconfig:"RAZORPAY_WEBHOOK_SECRET"`
	BaseURL        string `envconfig:"RAZORPAY_BASE_URL" default:"https://api.razorpay.com/v1"`
	TimeoutSeconds int    `envconfig:"RAZORPAY_TIMEOUT" default:"10"`
}

// ContentConfig selects and configures the coupon content store.
type ContentConfig struct {
	Backend        string `envconfig:"CONTENT_BACKEND" default:"sanity"` // "sanity" or "mongo"
	ProjectID      string `envconfig:"SANITY_PROJECT_ID"`
	Dataset        string `envconfig:"SANITY_DATASET" default:"production"`
	Token          string `envconfig:"SANITY_API_TOKEN"`
	APIVersion     string `envconfig:"SANITY_API_VERSION" default:"v2022-03-07"`
	TimeoutSeconds int    `envconfig:"SANITY_TIMEOUT" default:"5"`
	MongoURI       string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB        string `envconfig:"MONGO_DB" default:"careerplans_content"`
}

// CatalogConfig points at an optional catalog document; empty uses the embedded one.
type CatalogConfig struct {
	Path string `envconfig:"CATALOG_PATH"`
}

// EventsConfig configures domain event publishing. Empty RabbitURL disables it.
type EventsConfig struct {
	RabbitURL string `envconfig:"RABBIT_URL"`
	Exchange  string `envconfig:"EVENTS_EXCHANGE" default:"checkout.events"`
}

// CORSConfig holds the allowed origins for the marketing front end.
type CORSConfig struct {
	AllowOrigins string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
}

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs in a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// Missing lists the environment variables of payment-critical secrets that are unset.
func (c *Config) Missing() []string {
	var missing []string
	if c.Gateway.KeyID == "" {
		missing = append(missing, "RAZORPAY_KEY_ID")
	}
	if c.Gateway.KeySecret == "" {
		missing = append(missing, "RAZORPAY_KEY_SECRET")
	}
	if c.Gateway.WebhookSecret == "" {
		missing = append(missing, "RAZORPAY_WEBHOOK_SECRET")
	}
	switch c.Content.Backend {
	case "mongo":
		if c.Content.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
	default:
		if c.Content.ProjectID == "" {
			missing = append(missing, "SANITY_PROJECT_ID")
		}
		if c.Content.Token == "" {
			missing = append(missing, "SANITY_API_TOKEN")
		}
	}
	return missing
}

// Validate checks the configuration for values the service cannot run without.
// Missing secrets are fatal only in production; development runs degrade per endpoint.
func (c *Config) Validate() error {
	switch c.Content.Backend {
	case "sanity", "mongo":
	default:
		return fmt.Errorf("invalid CONTENT_BACKEND %q: must be sanity or mongo", c.Content.Backend)
	}
	if !c.IsProduction() {
		return nil
	}
	if missing := c.Missing(); len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}

// Diagnostics reports which secrets are present without exposing their values.
func (c *Config) Diagnostics() map[string]bool {
	return map[string]bool{
		"razorpay_key_configured":      c.Gateway.KeyID != "",
		"razorpay_secret_configured":   c.Gateway.KeySecret != "",
		"webhook_secret_configured":    c.Gateway.WebhookSecret != "",
		"sanity_project_id_configured": c.Content.ProjectID != "",
		"sanity_token_configured":      c.Content.Token != "",
		"mongo_configured":             c.Content.Backend == "mongo" && c.Content.MongoURI != "",
		"events_configured":            c.Events.RabbitURL != "",
	}
}
