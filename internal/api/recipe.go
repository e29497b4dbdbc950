package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recipehub/backend/internal/middleware"
	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/service"
	"github.com/recipehub/backend/internal/types"
)

// RecipeHandler handles the recipe endpoints
type RecipeHandler struct {
	recipeService service.IRecipeService
	uploader      service.ImageUploader
	authService   service.IAuthService

	creationLimiter     *middleware.RateLimiter
	modificationLimiter *middleware.RateLimiter
}

func NewRecipeHandler(
	recipeService service.IRecipeService,
	uploader service.ImageUploader,
	authService service.IAuthService,
	creationLimiter *middleware.RateLimiter,
	modificationLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		uploader:            uploader,
		authService:         authService,
		creationLimiter:     creationLimiter,
		modificationLimiter: modificationLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/feed", middleware.OptionalAuthMiddleware(h.authService), h.Feed)
		recipes.GET("/leftovers", h.CommonLeftovers)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetRecipe)

		// Rate limiting is skipped when Redis is unavailable.
		createHandlers := []gin.HandlerFunc{h.CreateRecipe}
		if h.creationLimiter != nil {
			createHandlers = append([]gin.HandlerFunc{h.creationLimiter.RateLimitMiddleware()}, createHandlers...)
		}
		updateHandlers := []gin.HandlerFunc{h.UpdateRecipe}
		if h.modificationLimiter != nil {
			updateHandlers = append([]gin.HandlerFunc{h.modificationLimiter.PerRecipeRateLimitMiddleware()}, updateHandlers...)
		}

		authed := recipes.Group("", middleware.AuthMiddleware(h.authService))
		{
			authed.GET("/mine", h.MyRecipes)
			authed.GET("/mine/drafts", h.MyDrafts)
			authed.GET("/mine/published", h.MyPublished)
			authed.GET("/liked", h.LikedRecipes)
			authed.POST("", createHandlers...)
			authed.PUT("/:id", updateHandlers...)
			authed.DELETE("/:id", h.DeleteRecipe)
			authed.POST("/:id/publish", h.PublishRecipe)
			authed.POST("/:id/unpublish", h.UnpublishRecipe)
			authed.POST("/:id/like", h.ToggleLike)
			authed.POST("/:id/comments", h.AddComment)
		}
	}
}

// Feed returns published recipes, newest first, optionally narrowed by a
// comma-separated tags query. Every selected tag must match.
func (h *RecipeHandler) Feed(c *gin.Context) {
	var selected []string
	if raw := c.Query("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if tag := service.NormalizeTag(t); tag != "" {
				selected = append(selected, tag)
			}
		}
	}

	recipes, err := h.recipeService.Feed(c.Request.Context(), selected)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": toRecipeResponses(recipes, currentViewer(c))})
}

// CommonLeftovers returns the quick-select leftover ingredient list.
func (h *RecipeHandler) CommonLeftovers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"leftovers": service.CommonLeftovers})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecipeResponse(*recipe, currentViewer(c)))
}

func (h *RecipeHandler) MyRecipes(c *gin.Context) {
	h.listForViewer(c, h.recipeService.MyRecipes)
}

func (h *RecipeHandler) MyDrafts(c *gin.Context) {
	h.listForViewer(c, h.recipeService.MyDrafts)
}

func (h *RecipeHandler) MyPublished(c *gin.Context) {
	h.listForViewer(c, h.recipeService.MyPublished)
}

func (h *RecipeHandler) LikedRecipes(c *gin.Context) {
	h.listForViewer(c, h.recipeService.LikedRecipes)
}

func (h *RecipeHandler) listForViewer(c *gin.Context, list func(ctx context.Context, viewer *service.Viewer) ([]models.Recipe, error)) {
	viewer := currentViewer(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipes, err := list(c.Request.Context(), viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": toRecipeResponses(recipes, viewer)})
}

// CreateRecipe runs a submitted form through the authoring workflow and
// stores the result as a draft.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.SubmitRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session := service.NewAuthoringSession(h.recipeService, h.uploader)
	session.RestoreForm(formFromRequest(req))

	recipe, err := session.Submit(c.Request.Context(), currentViewer(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRecipeResponse(*recipe, currentViewer(c)))
}

// UpdateRecipe edits an existing recipe through the same authoring
// workflow. Only the author may edit; published state, likes and
// comments are preserved.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	var req types.SubmitRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	existing, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	session := service.NewAuthoringSession(h.recipeService, h.uploader)
	session.BeginEdit(existing)
	session.RestoreForm(formFromRequest(req))

	recipe, err := session.Submit(c.Request.Context(), currentViewer(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecipeResponse(*recipe, currentViewer(c)))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id, currentViewer(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}

func (h *RecipeHandler) PublishRecipe(c *gin.Context) {
	h.setPublished(c, true)
}

func (h *RecipeHandler) UnpublishRecipe(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *RecipeHandler) setPublished(c *gin.Context, published bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	recipe, err := h.recipeService.SetPublished(c.Request.Context(), id, currentViewer(c), published)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecipeResponse(*recipe, currentViewer(c)))
}

// ToggleLike flips the viewer's like on a published recipe.
func (h *RecipeHandler) ToggleLike(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	liked, err := h.recipeService.ToggleLike(c.Request.Context(), id, currentViewer(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (h *RecipeHandler) AddComment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	var req types.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.recipeService.AddComment(c.Request.Context(), id, currentViewer(c), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CommentResponse{
		ID:        comment.ID.String(),
		Username:  comment.Username,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	})
}

func formFromRequest(req types.SubmitRecipeRequest) service.RecipeForm {
	ingredients := make([]models.Ingredient, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		ingredients = append(ingredients, models.Ingredient{
			Item:       ing.Item,
			Amount:     ing.Amount,
			IsLeftover: ing.IsLeftover,
		})
	}

	return service.RecipeForm{
		Title:        req.Title,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		ImageData:    req.ImageData,
		ImageName:    req.ImageName,
		CategoryTags: req.CategoryTags,
		Ingredients:  ingredients,
		Steps:        req.Steps,
	}
}
