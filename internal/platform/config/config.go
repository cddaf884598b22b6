package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/qolzam/bookstore/internal/pkg/log"
)

// Config represents the runner configuration
type Config struct {
	Database DatabaseConfig `json:"database"`
	App      AppConfig      `json:"app"`

	// malformed holds values that were set but could not be parsed
	malformed []string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Type       string        `json:"type"`
	Name       string        `json:"name"`
	Collection string        `json:"collection"`
	MongoDB    MongoDBConfig `json:"mongodb"`
}

// MongoDBConfig holds MongoDB-specific configuration.
// Timeouts are in seconds; zero leaves the driver default in place.
type MongoDBConfig struct {
	URI                    string `json:"uri"`
	Host                   string `json:"host"`
	Port                   int    `json:"port"`
	Username               string `json:"username"`
	Password               string `json:"password"`
	AuthDatabase           string `json:"authDatabase"`
	ReplicaSet             string `json:"replicaSet"`
	SSL                    bool   `json:"ssl"`
	ConnectTimeout         int    `json:"connectTimeout"`
	ServerSelectionTimeout int    `json:"serverSelectionTimeout"`
	MaxPoolSize            int    `json:"maxPoolSize"`
}

// AppConfig holds application-related configuration.
// Debug turns on per-call repository diagnostics.
type AppConfig struct {
	Debug bool `json:"debug"`
}

const (
	DefaultMongoURI       = "mongodb://localhost:27017"
	DefaultDatabaseName   = "plp_bookstore"
	DefaultCollectionName = "books"
)

// LoadFromEnv loads configuration from the environment.
// Precedence: explicit environment variables, then the .env file, then defaults.
func LoadFromEnv() (*Config, error) {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	var loadErr error
	for _, envPath := range envPaths {
		loadErr = godotenv.Load(envPath)
		if loadErr == nil {
			break
		}
	}

	if loadErr != nil {
		log.Info(".env file not found, using environment variables and defaults")
	}

	return build(os.Getenv)
}

// LoadFromMap loads configuration from an in-memory map.
// This is the primary helper for testing configuration logic in isolation
// without manipulating global environment variables.
func LoadFromMap(envMap map[string]string) (*Config, error) {
	return build(func(key string) string {
		return envMap[key]
	})
}

func build(lookup func(string) string) (*Config, error) {
	get := func(key, defaultValue string) string {
		if value := lookup(key); value != "" {
			return value
		}
		return defaultValue
	}

	var malformed []string

	getInt := func(key string, defaultValue int) int {
		value := lookup(key)
		if value == "" {
			return defaultValue
		}
		intValue, err := strconv.Atoi(value)
		if err != nil {
			malformed = append(malformed, fmt.Sprintf("%s must be an integer, got %q", key, value))
			return defaultValue
		}
		return intValue
	}

	getBool := func(key string, defaultValue bool) bool {
		value := lookup(key)
		if value == "" {
			return defaultValue
		}
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			malformed = append(malformed, fmt.Sprintf("%s must be a boolean, got %q", key, value))
			return defaultValue
		}
		return boolValue
	}

	// An explicit host switches URI construction over to the discrete fields.
	uri := get("MONGODB_URI", "")
	if uri == "" && lookup("MONGODB_HOST") == "" {
		uri = DefaultMongoURI
	}

	config := &Config{
		Database: DatabaseConfig{
			Type:       get("DB_TYPE", "mongodb"),
			Name:       get("MONGODB_DATABASE", DefaultDatabaseName),
			Collection: get("MONGODB_COLLECTION", DefaultCollectionName),
			MongoDB: MongoDBConfig{
				URI:                    uri,
				Host:                   get("MONGODB_HOST", "localhost"),
				Port:                   getInt("MONGODB_PORT", 27017),
				Username:               get("MONGODB_USERNAME", ""),
				Password:               get("MONGODB_PASSWORD", ""),
				AuthDatabase:           get("MONGODB_AUTH_DATABASE", ""),
				ReplicaSet:             get("MONGODB_REPLICA_SET", ""),
				SSL:                    getBool("MONGODB_SSL", false),
				ConnectTimeout:         getInt("MONGODB_CONNECT_TIMEOUT", 10),
				ServerSelectionTimeout: getInt("MONGODB_SERVER_SELECTION_TIMEOUT", 10),
				MaxPoolSize:            getInt("MONGODB_MAX_POOL_SIZE", 0),
			},
		},
		App: AppConfig{
			Debug: getBool("DEBUG", false),
		},
	}
	config.malformed = malformed

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration for required fields
func (c *Config) Validate() error {
	errors := append([]string(nil), c.malformed...)

	validDbTypes := []string{"mongodb"}
	if !contains(validDbTypes, c.Database.Type) {
		errors = append(errors, fmt.Sprintf("DB_TYPE must be one of: %s", strings.Join(validDbTypes, ", ")))
	}

	if strings.TrimSpace(c.Database.Name) == "" {
		errors = append(errors, "MONGODB_DATABASE is required")
	}
	if strings.TrimSpace(c.Database.Collection) == "" {
		errors = append(errors, "MONGODB_COLLECTION is required")
	}

	if uri := c.Database.MongoDB.URI; uri != "" {
		if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
			errors = append(errors, "MONGODB_URI must use the mongodb:// or mongodb+srv:// scheme")
		}
	} else if strings.TrimSpace(c.Database.MongoDB.Host) == "" {
		errors = append(errors, "either MONGODB_URI or MONGODB_HOST is required")
	}

	if c.Database.MongoDB.Port <= 0 || c.Database.MongoDB.Port > 65535 {
		errors = append(errors, "MONGODB_PORT must be between 1 and 65535")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
