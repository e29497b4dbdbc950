package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/service"
)

// IngredientResponse is one ingredient row of a recipe
type IngredientResponse struct {
	Item       string `json:"item"`
	Amount     string `json:"amount"`
	IsLeftover bool   `json:"is_leftover"`
}

// CommentResponse represents a single comment on a recipe
type CommentResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// RecipeResponse represents the response structure for recipe-related API endpoints
type RecipeResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	ImageURL    string               `json:"image_url,omitempty"`
	Ingredients []IngredientResponse `json:"ingredients"`
	Steps       []string             `json:"steps"`
	Tags        []string             `json:"tags"`
	Leftovers   []string             `json:"leftover_ingredients"`
	AuthorID    string               `json:"author_id"`
	Published   bool                 `json:"published"`
	LikeCount   int                  `json:"like_count"`
	LikedByMe   bool                 `json:"liked_by_me"`
	Comments    []CommentResponse    `json:"comments"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func toRecipeResponse(r models.Recipe, viewer *service.Viewer) RecipeResponse {
	ingredients := make([]IngredientResponse, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, IngredientResponse{
			Item:       ing.Item,
			Amount:     ing.Amount,
			IsLeftover: ing.IsLeftover,
		})
	}

	comments := make([]CommentResponse, 0, len(r.Comments))
	for _, c := range r.Comments {
		comments = append(comments, CommentResponse{
			ID:        c.ID.String(),
			Username:  c.Username,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}

	likedByMe := false
	if viewer != nil {
		likedByMe = r.LikedBy(viewer.ID)
	}

	return RecipeResponse{
		ID:          r.ID.String(),
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Ingredients: ingredients,
		Steps:       r.Steps,
		Tags:        r.Tags,
		Leftovers:   r.LeftoverIngredients,
		AuthorID:    r.AuthorID.String(),
		Published:   r.Published,
		LikeCount:   r.LikeCount(),
		LikedByMe:   likedByMe,
		Comments:    comments,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRecipeResponses(recipes []models.Recipe, viewer *service.Viewer) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, toRecipeResponse(r, viewer))
	}
	return out
}

// currentViewer pulls the authenticated user out of the request context.
// Returns nil when the request carries no valid token.
func currentViewer(c *gin.Context) *service.Viewer {
	userID, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		return nil
	}
	username, _ := c.Get("username")
	name, _ := username.(string)
	return &service.Viewer{ID: id, Username: name}
}
