package services

import (
	"context"

	bookErrors "github.com/qolzam/bookstore/books/errors"
	"github.com/qolzam/bookstore/internal/database/factory"
	"github.com/qolzam/bookstore/internal/database/interfaces"
	platformconfig "github.com/qolzam/bookstore/internal/platform/config"
	"github.com/qolzam/bookstore/internal/pkg/log"
)

// ConnectFunc opens the repository the runner works against
type ConnectFunc func(ctx context.Context, cfg *platformconfig.Config) (interfaces.Repository, error)

// Connect opens a repository through the repository factory
func Connect(ctx context.Context, cfg *platformconfig.Config) (interfaces.Repository, error) {
	repositoryFactory := factory.NewRepositoryFactoryFromPlatformConfig(cfg.Database)
	if err := repositoryFactory.ValidateConfig(); err != nil {
		return nil, bookErrors.WrapValidationError(err, "invalid repository configuration")
	}
	return repositoryFactory.CreateRepository(ctx)
}

// Execute connects, runs the full query sequence and releases the connection
// on every path once it has been acquired. A close failure is returned only
// when the run itself succeeded.
func Execute(ctx context.Context, cfg *platformconfig.Config, connect ConnectFunc) (err error) {
	if cfg == nil {
		return bookErrors.WrapValidationError(nil, "configuration is required")
	}
	if validateErr := cfg.Validate(); validateErr != nil {
		return bookErrors.WrapValidationError(validateErr, "invalid configuration")
	}
	if connect == nil {
		connect = Connect
	}

	repo, connectErr := connect(ctx, cfg)
	if connectErr != nil {
		if bookErrors.IsValidationError(connectErr) {
			return connectErr
		}
		return bookErrors.WrapConnectionError(connectErr)
	}
	log.InfoWithContext(ctx, "Connected to %s.%s", cfg.Database.Name, cfg.Database.Collection)

	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			log.ErrorWithContext(ctx, "Failed to close connection: %s", closeErr.Error())
			if err == nil {
				err = bookErrors.WrapConnectionError(closeErr)
			}
			return
		}
		log.InfoWithContext(ctx, "Connection closed")
	}()

	return NewQueryRunner(repo, cfg.Database.Collection).Run(ctx)
}
