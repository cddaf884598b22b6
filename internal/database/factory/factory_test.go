package factory

import (
	"context"
	"testing"

	"github.com/qolzam/bookstore/internal/database/interfaces"
	platformconfig "github.com/qolzam/bookstore/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory(config *interfaces.RepositoryConfig) *RepositoryFactory {
	return &RepositoryFactory{config: config}
}

func TestRepositoryFactory_ValidateConfigErrors(t *testing.T) {
	var nilFactory RepositoryFactory
	assert.Error(t, nilFactory.ValidateConfig())

	f := newFactory(&interfaces.RepositoryConfig{})
	assert.Error(t, f.ValidateConfig(), "expected error for empty config")

	f = newFactory(&interfaces.RepositoryConfig{DatabaseType: interfaces.DatabaseTypeMongoDB})
	assert.Error(t, f.ValidateConfig(), "expected error for missing mongo config")

	f = newFactory(&interfaces.RepositoryConfig{
		DatabaseType: interfaces.DatabaseTypeMongoDB,
		MongoConfig:  &interfaces.MongoDBConfig{URI: "mongodb://localhost:27017"},
	})
	assert.Error(t, f.ValidateConfig(), "expected error for missing database name")

	f = newFactory(&interfaces.RepositoryConfig{
		DatabaseType: interfaces.DatabaseTypeMongoDB,
		DatabaseName: "plp_bookstore",
		MongoConfig:  &interfaces.MongoDBConfig{},
	})
	assert.Error(t, f.ValidateConfig(), "expected error for missing URI and host")
}

func TestRepositoryFactory_CreateUnsupported(t *testing.T) {
	f := newFactory(&interfaces.RepositoryConfig{DatabaseType: "postgresql"})
	_, err := f.CreateRepository(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestNewRepositoryFactoryFromPlatformConfig(t *testing.T) {
	cfg, err := platformconfig.LoadFromMap(map[string]string{
		"MONGODB_URI":             "mongodb://db:27017",
		"MONGODB_DATABASE":        "plp_bookstore",
		"MONGODB_CONNECT_TIMEOUT": "2",
	})
	require.NoError(t, err)

	f := NewRepositoryFactoryFromPlatformConfig(cfg.Database)
	require.NoError(t, f.ValidateConfig())

	assert.Equal(t, interfaces.DatabaseTypeMongoDB, f.config.DatabaseType)
	assert.Equal(t, "plp_bookstore", f.config.DatabaseName)
	assert.Equal(t, "mongodb://db:27017", f.config.MongoConfig.URI)
	assert.Equal(t, 2, f.config.MongoConfig.ConnectTimeout)
}
