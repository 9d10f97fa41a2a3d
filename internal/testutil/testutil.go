// internal/testutil/testutil.go
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// TestContext returns a context with a generous timeout for test DB work.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// SetupTestDB connects to the MongoDB instance named by
// ACADEMYHUB_TEST_MONGO_URI and returns a uniquely-named throwaway
// database that is dropped on cleanup. Tests that need real storage are
// skipped when the variable is unset so the rest of the suite runs
// anywhere.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("ACADEMYHUB_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ACADEMYHUB_TEST_MONGO_URI not set; skipping MongoDB-backed test")
	}

	ctx, cancel := TestContext()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect to test MongoDB: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		t.Fatalf("ping test MongoDB: %v", err)
	}

	db := client.Database(fmt.Sprintf("academyhub_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}
