// Package testdb provides a throwaway sqlite database for unit tests.
package testdb

import (
	"path/filepath"
	"testing"

	"github.com/recipehub/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens a file-backed sqlite database in a per-test temp directory
// and migrates the full schema.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Recipe{},
		&models.RecipeLike{},
		&models.RecipeComment{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
