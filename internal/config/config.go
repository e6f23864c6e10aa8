// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Providers   ProvidersConfig
	Storage     StorageConfig
	Checkout    CheckoutConfig
	Catalog     CatalogConfig
	CORS        CORSConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type ProvidersConfig struct {
	Gumroad  GumroadConfig
	Printify PrintifyConfig
}

type GumroadConfig struct {
	Enabled     bool
	BaseURL     string
	AccessToken string
}

type PrintifyConfig struct {
	Enabled bool
	BaseURL string
	Token   string
	ShopID  string
}

type StorageConfig struct {
	Dir string
}

type CheckoutConfig struct {
	// StaggerMillis spaces multi-tab navigations to respect browser
	// popup-blocking heuristics.
	StaggerMillis  int
	BundleTTLHours int
}

type CatalogConfig struct {
	CacheTTLSeconds int
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Providers: ProvidersConfig{
			Gumroad: GumroadConfig{
				Enabled:     getEnvAsBool("GUMROAD_ENABLED", true),
				BaseURL:     getEnv("GUMROAD_BASE_URL", "https://api.gumroad.com"),
				AccessToken: getEnv("GUMROAD_ACCESS_TOKEN", ""),
			},
			Printify: PrintifyConfig{
				Enabled: getEnvAsBool("PRINTIFY_ENABLED", true),
				BaseURL: getEnv("PRINTIFY_BASE_URL", "https://api.printify.com"),
				Token:   getEnv("PRINTIFY_API_TOKEN", ""),
				ShopID:  getEnv("PRINTIFY_SHOP_ID", ""),
			},
		},
		Storage: StorageConfig{
			Dir: getEnv("STORAGE_DIR", "./data"),
		},
		Checkout: CheckoutConfig{
			StaggerMillis:  getEnvAsInt("CHECKOUT_STAGGER_MS", 800),
			BundleTTLHours: getEnvAsInt("BUNDLE_TTL_HOURS", 24),
		},
		Catalog: CatalogConfig{
			CacheTTLSeconds: getEnvAsInt("CATALOG_CACHE_TTL", 60),
		},
		CORS: CORSConfig{
			AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.Providers.Gumroad.Enabled && c.Providers.Gumroad.AccessToken == "" {
			return fmt.Errorf("gumroad access token is required in production")
		}
		if c.Providers.Printify.Enabled && (c.Providers.Printify.Token == "" || c.Providers.Printify.ShopID == "") {
			return fmt.Errorf("printify token and shop id are required in production")
		}
	}

	if c.Checkout.StaggerMillis < 0 {
		return fmt.Errorf("checkout stagger must not be negative")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
