package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeComment is a comment on a published recipe, ordered by creation time.
// Username is denormalized so comment lists render without a user join.
type RecipeComment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Username  string    `gorm:"size:50;not null" json:"username"`
	Text      string    `gorm:"type:text;not null" json:"text"`
}

func (RecipeComment) TableName() string {
	return "recipe_comments"
}

func (c *RecipeComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
