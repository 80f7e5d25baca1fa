package testutil

import (
	"testing"

	"github.com/oox/furniture-console/internal/analytics"
)

// NewTestDB creates an analytics database with all migrations applied.
// It automatically closes the database when the test completes.
func NewTestDB(t *testing.T) *analytics.DB {
	t.Helper()

	db, err := analytics.Open()
	if err != nil {
		t.Fatalf("creating test db: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test db: %v", err)
		}
	})

	return db
}
