package main

import (
	"context"
	"os"
	"strings"

	"github.com/qolzam/bookstore/books/models"
	"github.com/qolzam/bookstore/books/services"
	"github.com/qolzam/bookstore/internal/database/interfaces"
	platformconfig "github.com/qolzam/bookstore/internal/platform/config"
	"github.com/qolzam/bookstore/internal/pkg/log"
	"go.mongodb.org/mongo-driver/bson"
)

func main() {
	ctx := context.Background()

	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		log.Error("Failed to load platform config: %s", err.Error())
		os.Exit(1)
	}

	log.SetDebug(cfg.App.Debug)

	repo, err := services.Connect(ctx, cfg)
	if err != nil {
		log.Error("Failed to connect: %s", err.Error())
		os.Exit(1)
	}

	seedErr := seed(ctx, repo, cfg.Database.Collection)
	if closeErr := repo.Close(); closeErr != nil {
		log.Warn("Failed to close connection: %s", closeErr.Error())
	}
	if seedErr != nil {
		log.Error("Failed to seed books: %s", seedErr.Error())
		os.Exit(1)
	}
}

// seed replaces the collection contents with the sample books
func seed(ctx context.Context, repo interfaces.Repository, collection string) error {
	cleared := <-repo.DeleteMany(ctx, collection, bson.D{})
	if cleared.Error != nil {
		return cleared.Error
	}
	log.Info("Removed %d existing books from %s", cleared.DeletedCount, collection)

	books := models.SampleBooks()
	saved := <-repo.SaveMany(ctx, collection, models.Documents(books))
	if saved.Error != nil {
		return saved.Error
	}
	log.Info("Inserted %d books", len(books))

	total := <-repo.Count(ctx, collection, bson.D{})
	if total.Error != nil {
		return total.Error
	}
	log.Info("Total books in collection: %d", total.Count)

	indexes := <-repo.ListIndexes(ctx, collection)
	if indexes.Error != nil {
		return indexes.Error
	}
	names := make([]string, 0, len(indexes.Indexes))
	for _, index := range indexes.Indexes {
		names = append(names, index.Name)
	}
	log.Info("Indexes on %s: %s", collection, strings.Join(names, ", "))
	return nil
}
