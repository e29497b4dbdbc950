package api_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/recipehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recipeJSON struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags"`
	Leftovers []string `json:"leftover_ingredients"`
	Published bool     `json:"published"`
	LikeCount int      `json:"like_count"`
	LikedByMe bool     `json:"liked_by_me"`
	Comments  []struct {
		Username string `json:"username"`
		Text     string `json:"text"`
	} `json:"comments"`
}

type recipeListJSON struct {
	Recipes []recipeJSON `json:"recipes"`
}

func TestCreateRecipeDerivesTags(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "cook")

	rr := env.do(t, http.MethodPost, "/api/v1/recipes", token, validRecipeBody)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp recipeJSON
	decodeJSON(t, rr, &resp)
	assert.False(t, resp.Published)
	assert.Equal(t, []string{"rice", "egg", "scallion", "quick"}, resp.Tags)
	assert.Equal(t, []string{"rice", "egg"}, resp.Leftovers)
}

func TestCreateRecipeValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "cook")

	// Missing required fields.
	rr := env.do(t, http.MethodPost, "/api/v1/recipes", token, gin.H{
		"title": "no description or image",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp struct {
		Error string `json:"error"`
	}
	decodeJSON(t, rr, &resp)
	assert.Equal(t, "please fill in all required fields", resp.Error)

	// Ingredient missing an amount.
	rr = env.do(t, http.MethodPost, "/api/v1/recipes", token, gin.H{
		"title":       "t",
		"description": "d",
		"image_url":   "https://example.com/i.png",
		"ingredients": []gin.H{{"item": "rice"}},
		"steps":       []string{"cook"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	decodeJSON(t, rr, &resp)
	assert.Equal(t, "please complete all ingredient fields", resp.Error)

	var count int64
	require.NoError(t, env.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count, "rejected submissions create no recipe")

	// Blank step.
	rr = env.do(t, http.MethodPost, "/api/v1/recipes", token, gin.H{
		"title":       "t",
		"description": "d",
		"image_url":   "https://example.com/i.png",
		"ingredients": []gin.H{{"item": "rice", "amount": "1 cup"}},
		"steps":       []string{"  "},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	decodeJSON(t, rr, &resp)
	assert.Equal(t, "please complete all cooking steps", resp.Error)

	// Unauthenticated.
	rr = env.do(t, http.MethodPost, "/api/v1/recipes", "", validRecipeBody)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestFeedLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "cook")
	id := env.createRecipe(t, token)

	// Drafts stay out of the feed.
	rr := env.do(t, http.MethodGet, "/api/v1/recipes/feed", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var feed recipeListJSON
	decodeJSON(t, rr, &feed)
	assert.Empty(t, feed.Recipes)

	env.publish(t, token, id)

	rr = env.do(t, http.MethodGet, "/api/v1/recipes/feed", "", nil)
	decodeJSON(t, rr, &feed)
	require.Len(t, feed.Recipes, 1)
	assert.Equal(t, id, feed.Recipes[0].ID)

	// Unpublish removes it again.
	rr = env.do(t, http.MethodPost, "/api/v1/recipes/"+id+"/unpublish", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/v1/recipes/feed", "", nil)
	decodeJSON(t, rr, &feed)
	assert.Empty(t, feed.Recipes)
}

func TestFeedTagFiltering(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "cook")

	id := env.createRecipe(t, token) // tags: rice, egg, scallion, quick
	env.publish(t, token, id)

	other := gin.H{
		"title":       "Carbonara",
		"description": "pasta night",
		"image_url":   "https://example.com/c.png",
		"ingredients": []gin.H{
			{"item": "pasta", "amount": "200 g", "is_leftover": true},
			{"item": "egg", "amount": "2"},
		},
		"steps": []string{"boil", "toss"},
	}
	rr := env.do(t, http.MethodPost, "/api/v1/recipes", token, other)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created recipeJSON
	decodeJSON(t, rr, &created)
	env.publish(t, token, created.ID)

	var feed recipeListJSON

	rr = env.do(t, http.MethodGet, "/api/v1/recipes/feed?tags=egg", "", nil)
	decodeJSON(t, rr, &feed)
	assert.Len(t, feed.Recipes, 2)

	rr = env.do(t, http.MethodGet, "/api/v1/recipes/feed?tags=rice,egg", "", nil)
	decodeJSON(t, rr, &feed)
	require.Len(t, feed.Recipes, 1)
	assert.Equal(t, id, feed.Recipes[0].ID)

	rr = env.do(t, http.MethodGet, "/api/v1/recipes/feed?tags=truffle", "", nil)
	decodeJSON(t, rr, &feed)
	assert.Empty(t, feed.Recipes)
}

func TestOwnerOnlyMutations(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner")
	stranger := env.register(t, "stranger")

	id := env.createRecipe(t, owner)

	rr := env.do(t, http.MethodPost, "/api/v1/recipes/"+id+"/publish", stranger, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodPut, "/api/v1/recipes/"+id, stranger, validRecipeBody)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodDelete, "/api/v1/recipes/"+id, stranger, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodDelete, "/api/v1/recipes/"+id, owner, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/v1/recipes/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLikeToggleAndViews(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner")
	fan := env.register(t, "fan")

	id := env.createRecipe(t, owner)

	// Liking a draft conflicts.
	rr := env.do(t, http.MethodPost, "/api/v1/recipes/"+id+"/like", fan, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	env.publish(t, owner, id)

	rr = env.do(t, http.MethodPost, "/api/v1/recipes/"+id+"/like", fan, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var likeResp struct {
		Liked bool `json:"liked"`
	}
	decodeJSON(t, rr, &likeResp)
	assert.True(t, likeResp.Liked)

	// Feed personalizes liked_by_me per viewer.
	var feed recipeListJSON
	rr = env.do(t, http.MethodGet, "/api/v1/recipes/feed", fan, nil)
	decodeJSON(t, rr, &feed)
	require.Len(t, feed.Recipes, 1)
	assert.True(t, feed.Recipes[0].LikedByMe)
	assert.Equal(t, 1, feed.Recipes[0].LikeCount)

	rr = env.do(t, http.MethodGet, "/api/v1/recipes/feed", owner, nil)
	decodeJSON(t, rr, &feed)
	assert.False(t, feed.Recipes[0].LikedByMe)
	assert.Equal(t, 1, feed.Recipes[0].LikeCount)

	rr = env.do(t, http.MethodGet, "/api/v1/recipes/liked", fan, nil)
	decodeJSON(t, rr, &feed)
	assert.Len(t, feed.Recipes, 1)

	// Toggle back off.
	rr = env.do(t, http.MethodPost, "/api/v1/recipes/"+id+"/like", fan, nil)
	decodeJSON(t, rr, &likeResp)
	assert.False(t, likeResp.Liked)

	rr = env.do(t, http.MethodGet, "/api/v1/recipes/liked", fan, nil)
	decodeJSON(t, rr, &feed)
	assert.Empty(t, feed.Recipes)
}

func TestComments(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner")
	reader := env.register(t, "reader")

	id := env.createRecipe(t, owner)
	env.publish(t, owner, id)

	rr := env.do(t, http.MethodPost, "/api/v1/recipes/"+id+"/comments", reader, gin.H{"text": "  tasty  "})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodPost, "/api/v1/recipes/"+id+"/comments", reader, gin.H{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/v1/recipes/"+id, "", nil)
	var recipe recipeJSON
	decodeJSON(t, rr, &recipe)
	require.Len(t, recipe.Comments, 1)
	assert.Equal(t, "reader", recipe.Comments[0].Username)
	assert.Equal(t, "tasty", recipe.Comments[0].Text)
}

func TestMyRecipeViews(t *testing.T) {
	env := newTestEnv(t)
	cook := env.register(t, "cook")
	other := env.register(t, "other")

	draftID := env.createRecipe(t, cook)
	publishedID := env.createRecipe(t, cook)
	env.publish(t, cook, publishedID)
	env.createRecipe(t, other)

	var list recipeListJSON

	rr := env.do(t, http.MethodGet, "/api/v1/recipes/mine", cook, nil)
	decodeJSON(t, rr, &list)
	assert.Len(t, list.Recipes, 2)

	rr = env.do(t, http.MethodGet, "/api/v1/recipes/mine/drafts", cook, nil)
	decodeJSON(t, rr, &list)
	require.Len(t, list.Recipes, 1)
	assert.Equal(t, draftID, list.Recipes[0].ID)

	rr = env.do(t, http.MethodGet, "/api/v1/recipes/mine/published", cook, nil)
	decodeJSON(t, rr, &list)
	require.Len(t, list.Recipes, 1)
	assert.Equal(t, publishedID, list.Recipes[0].ID)

	rr = env.do(t, http.MethodGet, "/api/v1/recipes/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUpdatePreservesPublishedState(t *testing.T) {
	env := newTestEnv(t)
	cook := env.register(t, "cook")

	id := env.createRecipe(t, cook)
	env.publish(t, cook, id)

	body := gin.H{
		"title":       "Egg Fried Rice v2",
		"description": "improved",
		"image_url":   "https://images.example.com/v2.jpg",
		"ingredients": []gin.H{
			{"item": "rice", "amount": "3 cups", "is_leftover": true},
		},
		"steps": []string{"fry better"},
	}
	rr := env.do(t, http.MethodPut, "/api/v1/recipes/"+id, cook, body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp recipeJSON
	decodeJSON(t, rr, &resp)
	assert.Equal(t, "Egg Fried Rice v2", resp.Title)
	assert.True(t, resp.Published)
}

func TestCommonLeftoversEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/recipes/leftovers", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Leftovers []string `json:"leftovers"`
	}
	decodeJSON(t, rr, &resp)
	assert.Contains(t, resp.Leftovers, "rice")
	assert.Contains(t, resp.Leftovers, "egg")
}
