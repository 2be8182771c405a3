package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/mickael234/projet-psah-sub003/testutil"
)

// TestMain migrates the integration database once for the whole package.
// Without TEST_DATABASE_URL every test skips itself through testutil.
func TestMain(m *testing.M) {
	dsn := os.Getenv(testutil.DSNEnv)
	if dsn == "" {
		os.Exit(m.Run())
	}

	db := testutil.MustOpenSQLDB(dsn)
	if err := testutil.MigrateUp(context.Background(), db); err != nil {
		db.Close()
		log.Fatalf("TestMain: %v", err)
	}
	db.Close()

	os.Exit(m.Run())
}
