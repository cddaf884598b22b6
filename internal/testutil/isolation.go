package testutil

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	dbi "github.com/qolzam/bookstore/internal/database/interfaces"
	"github.com/qolzam/bookstore/internal/database/mongodb"
	platformconfig "github.com/qolzam/bookstore/internal/platform/config"
)

// IsolatedTest is a seeded, throwaway database owned by a single test.
type IsolatedTest struct {
	t      *testing.T
	Repo   *mongodb.MongoRepository
	Config *platformconfig.Config
}

// NewIsolatedTest connects to the server from the environment configuration and
// selects a database unique to t. The database is dropped on cleanup.
// Tests are skipped unless RUN_DB_TESTS=1.
func NewIsolatedTest(t *testing.T) *IsolatedTest {
	t.Helper()

	if os.Getenv("RUN_DB_TESTS") != "1" {
		t.Skip("RUN_DB_TESTS not set, skipping database test")
	}

	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		t.Fatalf("Failed to load platform config: %v", err)
	}

	uniqueName := fmt.Sprintf("test_%s_%s", SanitizeTestName(t.Name()), uuid.Must(uuid.NewV4()).String()[:8])
	cfg.Database.Name = uniqueName

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := mongodb.NewMongoRepository(ctx, &dbi.MongoDBConfig{
		URI:                    cfg.Database.MongoDB.URI,
		Host:                   cfg.Database.MongoDB.Host,
		Port:                   cfg.Database.MongoDB.Port,
		Username:               cfg.Database.MongoDB.Username,
		Password:               cfg.Database.MongoDB.Password,
		AuthDatabase:           cfg.Database.MongoDB.AuthDatabase,
		ReplicaSet:             cfg.Database.MongoDB.ReplicaSet,
		SSL:                    cfg.Database.MongoDB.SSL,
		ConnectTimeout:         cfg.Database.MongoDB.ConnectTimeout,
		ServerSelectionTimeout: cfg.Database.MongoDB.ServerSelectionTimeout,
	}, uniqueName)
	if err != nil {
		t.Fatalf("Failed to create isolated MongoDB repository for database %s: %v", uniqueName, err)
	}

	t.Cleanup(func() {
		if dropErr := repo.Client().Database(uniqueName).Drop(context.Background()); dropErr != nil {
			t.Logf("Failed to drop test database %s: %v", uniqueName, dropErr)
		}
		_ = repo.Close()
	})

	return &IsolatedTest{t: t, Repo: repo, Config: cfg}
}

// Seed inserts docs into the configured collection
func (it *IsolatedTest) Seed(docs []interface{}) {
	it.t.Helper()
	res := <-it.Repo.SaveMany(context.Background(), it.Config.Database.Collection, docs)
	if res.Error != nil {
		it.t.Fatalf("Failed to seed %s: %v", it.Config.Database.Collection, res.Error)
	}
}

// SanitizeTestName turns a test name into a valid database name fragment
func SanitizeTestName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, " ", "_")
	reg := regexp.MustCompile(`[^a-zA-Z0-9_]+`)
	name = strings.ToLower(reg.ReplaceAllString(name, ""))

	// 63 bytes max for a database name; keep room for "test_" and the suffix.
	const maxTestNameLength = 41
	if len(name) > maxTestNameLength {
		name = name[:maxTestNameLength]
	}

	return name
}
