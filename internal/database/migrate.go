package database

import (
	"log"

	"github.com/recipehub/backend/internal/models"
	"gorm.io/gorm"
)

// RunMigrations brings the schema up to date for every model the
// application persists.
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running migrations (%s)", db.Dialector.Name())
	return db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Recipe{},
		&models.RecipeLike{},
		&models.RecipeComment{},
	)
}
