package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/recipehub/backend/internal/models"
	"gorm.io/gorm"
)

// RecipeService handles recipe operations against the store. The store is
// the single source of truth: every confirmed write notifies the broker so
// subscribers receive a fresh snapshot instead of an optimistic local copy.
type RecipeService struct {
	db     *gorm.DB
	broker *RecipeBroker
}

// NewRecipeService creates a new RecipeService instance. broker may be nil
// when no subscribers exist (migrations, seeds, tests).
func NewRecipeService(db *gorm.DB, broker *RecipeBroker) *RecipeService {
	return &RecipeService{
		db:     db,
		broker: broker,
	}
}

func (s *RecipeService) notify(ctx context.Context) {
	if s.broker != nil {
		s.broker.Notify(ctx)
	}
}

func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Likes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

// CreateRecipe inserts a new recipe authored by viewer. Recipes are always
// created as drafts with empty like and comment sets.
func (s *RecipeService) CreateRecipe(ctx context.Context, viewer *Viewer, recipe *models.Recipe) (*models.Recipe, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	recipe.ID = uuid.Nil
	recipe.AuthorID = viewer.ID
	recipe.Published = false
	recipe.Likes = nil
	recipe.Comments = nil
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}
	s.notify(ctx)
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID with its likes and comments.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withAssociations(s.db.WithContext(ctx)).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns the full collection; this is the snapshot the broker
// fans out to subscribers.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := withAssociations(s.db.WithContext(ctx)).Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Feed returns published recipes, optionally narrowed by selected filter
// tags (AND-match, case-insensitive substring).
func (s *RecipeService) Feed(ctx context.Context, selectedTags []string) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := withAssociations(s.db.WithContext(ctx)).
		Where("published = ?", true).
		Order("created_at DESC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return FilterByTags(recipes, selectedTags), nil
}

// MyRecipes returns all recipes authored by the viewer, drafts included.
func (s *RecipeService) MyRecipes(ctx context.Context, viewer *Viewer) ([]models.Recipe, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	var recipes []models.Recipe
	if err := withAssociations(s.db.WithContext(ctx)).
		Where("author_id = ?", viewer.ID).
		Order("created_at DESC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// MyDrafts returns the viewer's unpublished recipes.
func (s *RecipeService) MyDrafts(ctx context.Context, viewer *Viewer) ([]models.Recipe, error) {
	recipes, err := s.MyRecipes(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return MyDrafts(recipes, viewer), nil
}

// MyPublished returns the viewer's published recipes.
func (s *RecipeService) MyPublished(ctx context.Context, viewer *Viewer) ([]models.Recipe, error) {
	recipes, err := s.MyRecipes(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return MyPublished(recipes, viewer), nil
}

// LikedRecipes returns published recipes whose like set contains the viewer.
func (s *RecipeService) LikedRecipes(ctx context.Context, viewer *Viewer) ([]models.Recipe, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	var recipes []models.Recipe
	if err := withAssociations(s.db.WithContext(ctx)).
		Joins("JOIN recipe_likes ON recipe_likes.recipe_id = recipes.id").
		Where("recipe_likes.user_id = ? AND recipes.published = ?", viewer.ID, true).
		Order("recipes.created_at DESC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// UpdateAuthoredFields replaces the owner-editable fields of a recipe. The
// id, author, published flag, likes and comments are preserved.
func (s *RecipeService) UpdateAuthoredFields(ctx context.Context, id uuid.UUID, viewer *Viewer, fields *models.Recipe) (*models.Recipe, error) {
	recipe, err := s.requireOwner(ctx, id, viewer)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":                fields.Title,
		"description":          fields.Description,
		"image_url":            fields.ImageURL,
		"ingredients":          fields.Ingredients,
		"steps":                fields.Steps,
		"tags":                 fields.Tags,
		"leftover_ingredients": fields.LeftoverIngredients,
	}
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	s.notify(ctx)
	return s.GetRecipe(ctx, id)
}

// SetPublished publishes or unpublishes an owned recipe.
func (s *RecipeService) SetPublished(ctx context.Context, id uuid.UUID, viewer *Viewer, published bool) (*models.Recipe, error) {
	recipe, err := s.requireOwner(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", recipe.ID).
		Update("published", published).Error; err != nil {
		return nil, err
	}
	s.notify(ctx)
	return s.GetRecipe(ctx, id)
}

// DeleteRecipe permanently removes an owned recipe with its likes and
// comments. There is no soft delete.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID, viewer *Viewer) error {
	recipe, err := s.requireOwner(ctx, id, viewer)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.RecipeLike{}, "recipe_id = ?", recipe.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.RecipeComment{}, "recipe_id = ?", recipe.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error
	})
	if err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

// ToggleLike flips the viewer's membership in a published recipe's like set.
// It returns the state after the toggle. Applying it twice restores the
// original set.
func (s *RecipeService) ToggleLike(ctx context.Context, id uuid.UUID, viewer *Viewer) (liked bool, err error) {
	if viewer == nil {
		return false, ErrUnauthenticated
	}
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return false, err
	}
	if !recipe.Published {
		return false, ErrNotPublished
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.RecipeLike
		findErr := tx.Where("recipe_id = ? AND user_id = ?", recipe.ID, viewer.ID).First(&existing).Error
		switch {
		case findErr == nil:
			liked = false
			return tx.Delete(&models.RecipeLike{}, "recipe_id = ? AND user_id = ?", recipe.ID, viewer.ID).Error
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			liked = true
			return tx.Create(&models.RecipeLike{RecipeID: recipe.ID, UserID: viewer.ID}).Error
		default:
			return findErr
		}
	})
	if err != nil {
		return false, err
	}
	s.notify(ctx)
	return liked, nil
}

// AddComment appends a comment to a published recipe. Blank comments are
// rejected.
func (s *RecipeService) AddComment(ctx context.Context, id uuid.UUID, viewer *Viewer, text string) (*models.RecipeComment, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, newValidationError("comment text cannot be empty")
	}
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if !recipe.Published {
		return nil, ErrNotPublished
	}

	comment := models.RecipeComment{
		RecipeID: recipe.ID,
		UserID:   viewer.ID,
		Username: viewer.Username,
		Text:     trimmed,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}
	s.notify(ctx)
	return &comment, nil
}

func (s *RecipeService) requireOwner(ctx context.Context, id uuid.UUID, viewer *Viewer) (*models.Recipe, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != viewer.ID {
		return nil, ErrPermissionDenied
	}
	return recipe, nil
}
