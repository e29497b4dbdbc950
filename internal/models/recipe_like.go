package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeLike is one membership in a recipe's like set. The unique index keeps
// the pair a set: toggling twice always returns to the original state.
type RecipeLike struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_recipe_like_user" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_recipe_like_user" json:"user_id"`
}

func (RecipeLike) TableName() string {
	return "recipe_likes"
}

func (l *RecipeLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
