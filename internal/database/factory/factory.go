// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package factory

import (
	"context"
	"fmt"

	"github.com/qolzam/bookstore/internal/database/interfaces"
	"github.com/qolzam/bookstore/internal/database/mongodb"
	platformconfig "github.com/qolzam/bookstore/internal/platform/config"
)

// RepositoryFactory creates repository instances based on configuration
type RepositoryFactory struct {
	config *interfaces.RepositoryConfig
}

// NewRepositoryFactoryFromPlatformConfig creates a new repository factory from platform config
func NewRepositoryFactoryFromPlatformConfig(dbConfig platformconfig.DatabaseConfig) *RepositoryFactory {
	config := &interfaces.RepositoryConfig{
		DatabaseType: dbConfig.Type,
		DatabaseName: dbConfig.Name,
	}

	if dbConfig.Type == interfaces.DatabaseTypeMongoDB {
		config.MongoConfig = &interfaces.MongoDBConfig{
			URI:                    dbConfig.MongoDB.URI,
			Host:                   dbConfig.MongoDB.Host,
			Port:                   dbConfig.MongoDB.Port,
			Username:               dbConfig.MongoDB.Username,
			Password:               dbConfig.MongoDB.Password,
			AuthDatabase:           dbConfig.MongoDB.AuthDatabase,
			ReplicaSet:             dbConfig.MongoDB.ReplicaSet,
			SSL:                    dbConfig.MongoDB.SSL,
			ConnectTimeout:         dbConfig.MongoDB.ConnectTimeout,
			ServerSelectionTimeout: dbConfig.MongoDB.ServerSelectionTimeout,
			MaxPoolSize:            dbConfig.MongoDB.MaxPoolSize,
		}
	}

	return &RepositoryFactory{
		config: config,
	}
}

// ValidateConfig checks the factory has everything needed to connect
func (f *RepositoryFactory) ValidateConfig() error {
	if f.config == nil {
		return fmt.Errorf("repository configuration is nil")
	}

	if f.config.DatabaseType == "" {
		return fmt.Errorf("database type is required")
	}

	switch f.config.DatabaseType {
	case interfaces.DatabaseTypeMongoDB:
		if f.config.MongoConfig == nil {
			return fmt.Errorf("MongoDB configuration is required")
		}
		return f.validateMongoConfig()
	default:
		return fmt.Errorf("unsupported database type: %s", f.config.DatabaseType)
	}
}

func (f *RepositoryFactory) validateMongoConfig() error {
	if f.config.DatabaseName == "" {
		return fmt.Errorf("database name is required")
	}
	mc := f.config.MongoConfig
	if mc.URI == "" && mc.Host == "" {
		return fmt.Errorf("MongoDB URI or host is required")
	}
	if mc.URI == "" && mc.Port <= 0 {
		return fmt.Errorf("MongoDB port must be positive")
	}
	return nil
}

// CreateRepository creates a repository instance based on the configured database type
func (f *RepositoryFactory) CreateRepository(ctx context.Context) (interfaces.Repository, error) {
	switch f.config.DatabaseType {
	case interfaces.DatabaseTypeMongoDB:
		return f.createMongoRepository(ctx)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", f.config.DatabaseType)
	}
}

// createMongoRepository creates a MongoDB repository instance
func (f *RepositoryFactory) createMongoRepository(ctx context.Context) (interfaces.Repository, error) {
	if f.config.MongoConfig == nil {
		return nil, fmt.Errorf("MongoDB configuration is missing")
	}

	mongoRepo, err := mongodb.NewMongoRepository(ctx, f.config.MongoConfig, f.config.DatabaseName)
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB repository: %w", err)
	}

	return mongoRepo, nil
}
