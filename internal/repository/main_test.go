package repository

import (
	"os"
	"testing"

	"hikari/internal/database"

	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// setupTestDB opens a fresh in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectTest()
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	return db
}
