package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, email, password, username string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, *models.UserProfile, string, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, viewer *Viewer, recipe *models.Recipe) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	Feed(ctx context.Context, selectedTags []string) ([]models.Recipe, error)
	MyRecipes(ctx context.Context, viewer *Viewer) ([]models.Recipe, error)
	MyDrafts(ctx context.Context, viewer *Viewer) ([]models.Recipe, error)
	MyPublished(ctx context.Context, viewer *Viewer) ([]models.Recipe, error)
	LikedRecipes(ctx context.Context, viewer *Viewer) ([]models.Recipe, error)
	UpdateAuthoredFields(ctx context.Context, id uuid.UUID, viewer *Viewer, fields *models.Recipe) (*models.Recipe, error)
	SetPublished(ctx context.Context, id uuid.UUID, viewer *Viewer, published bool) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID, viewer *Viewer) error
	ToggleLike(ctx context.Context, id uuid.UUID, viewer *Viewer) (bool, error)
	AddComment(ctx context.Context, id uuid.UUID, viewer *Viewer, text string) (*models.RecipeComment, error)
}

var (
	_ IAuthService   = (*AuthService)(nil)
	_ IRecipeService = (*RecipeService)(nil)
)
