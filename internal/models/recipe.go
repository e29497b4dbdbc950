package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Ingredient is a single row of a recipe's ingredient list. Rows flagged
// IsLeftover come from the authoring wizard's leftover selection and keep
// their item name fixed.
type Ingredient struct {
	Item       string `json:"item"`
	Amount     string `json:"amount"`
	IsLeftover bool   `json:"is_leftover"`
}

// JSONBIngredients stores the ingredient rows as a JSONB column
type JSONBIngredients []Ingredient

// Value implements the driver.Valuer interface
func (a JSONBIngredients) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBIngredients) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBIngredients{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

type Recipe struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	Title               string           `gorm:"size:255;not null" json:"title"`
	Description         string           `gorm:"type:text;not null" json:"description"`
	ImageURL            string           `gorm:"size:512" json:"image_url"`
	Ingredients         JSONBIngredients `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps               JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	Tags                JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	LeftoverIngredients JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"leftover_ingredients"`
	AuthorID            uuid.UUID        `gorm:"type:uuid;not null;index" json:"author_id"`
	Published           bool             `gorm:"not null;default:false" json:"published"`
	Likes               []RecipeLike     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"likes"`
	Comments            []RecipeComment  `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"comments"`
}

// BeforeCreate assigns the recipe ID so inserts work on both postgres and
// the sqlite test database.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// LikedBy reports whether userID is a member of the recipe's like set.
func (r *Recipe) LikedBy(userID uuid.UUID) bool {
	for _, l := range r.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// LikeCount is the size of the like set.
func (r *Recipe) LikeCount() int {
	return len(r.Likes)
}
