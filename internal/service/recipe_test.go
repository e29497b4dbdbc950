package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecipeService(t *testing.T) *RecipeService {
	return NewRecipeService(testdb.New(t), nil)
}

func testViewer(name string) *Viewer {
	return &Viewer{ID: uuid.New(), Username: name}
}

func draftRecipe(title string) *models.Recipe {
	return &models.Recipe{
		Title:       title,
		Description: "desc",
		ImageURL:    "https://example.com/img.png",
		Ingredients: models.JSONBIngredients{
			{Item: "rice", Amount: "1 cup", IsLeftover: true},
		},
		Steps:               models.JSONBStringArray{"cook"},
		Tags:                models.JSONBStringArray{"rice"},
		LeftoverIngredients: models.JSONBStringArray{"rice"},
	}
}

func TestCreateRecipeStartsAsDraft(t *testing.T) {
	svc := newTestRecipeService(t)
	ctx := context.Background()
	author := testViewer("author")

	recipe := draftRecipe("fried rice")
	recipe.Published = true // callers cannot create pre-published recipes

	created, err := svc.CreateRecipe(ctx, author, recipe)
	require.NoError(t, err)
	assert.False(t, created.Published)
	assert.Equal(t, author.ID, created.AuthorID)
	assert.NotEqual(t, uuid.Nil, created.ID)

	_, err = svc.CreateRecipe(ctx, nil, draftRecipe("anon"))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGetRecipeNotFound(t *testing.T) {
	svc := newTestRecipeService(t)

	_, err := svc.GetRecipe(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedExcludesDrafts(t *testing.T) {
	svc := newTestRecipeService(t)
	ctx := context.Background()
	author := testViewer("author")

	draft, err := svc.CreateRecipe(ctx, author, draftRecipe("draft"))
	require.NoError(t, err)

	published, err := svc.CreateRecipe(ctx, author, draftRecipe("published"))
	require.NoError(t, err)
	_, err = svc.SetPublished(ctx, published.ID, author, true)
	require.NoError(t, err)

	feed, err := svc.Feed(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, feed, 1)
	assert.Equal(t, published.ID, feed[0].ID)

	drafts, err := svc.MyDrafts(ctx, author)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
	assert.Equal(t, draft.ID, drafts[0].ID)
}

func TestFeedTagFilter(t *testing.T) {
	svc := newTestRecipeService(t)
	ctx := context.Background()
	author := testViewer("author")

	mk := func(title string, tags ...string) {
		r := draftRecipe(title)
		r.Tags = models.JSONBStringArray(tags)
		created, err := svc.CreateRecipe(ctx, author, r)
		require.NoError(t, err)
		_, err = svc.SetPublished(ctx, created.ID, author, true)
		require.NoError(t, err)
	}

	mk("fried rice", "rice", "chicken", "garlic")
	mk("egg rice", "rice", "egg")

	feed, err := svc.Feed(ctx, []string{"rice", "egg"})
	require.NoError(t, err)
	assert.Len(t, feed, 1)
	assert.Equal(t, "egg rice", feed[0].Title)
}

func TestPublishRequiresOwner(t *testing.T) {
	svc := newTestRecipeService(t)
	ctx := context.Background()
	author := testViewer("author")
	stranger := testViewer("stranger")

	created, err := svc.CreateRecipe(ctx, author, draftRecipe("mine"))
	require.NoError(t, err)

	_, err = svc.SetPublished(ctx, created.ID, stranger, true)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.SetPublished(ctx, created.ID, nil, true)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	got, err := svc.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Published, "denied publish must not change state")

	published, err := svc.SetPublished(ctx, created.ID, author, true)
	require.NoError(t, err)
	assert.True(t, published.Published)

	unpublished, err := svc.SetPublished(ctx, created.ID, author, false)
	require.NoError(t, err)
	assert.False(t, unpublished.Published)
}

func TestUpdateAuthoredFieldsPreservesOwnershipAndState(t *testing.T) {
	svc := newTestRecipeService(t)
	ctx := context.Background()
	author := testViewer("author")
	stranger := testViewer("stranger")

	created, err := svc.CreateRecipe(ctx, author, draftRecipe("v1"))
	require.NoError(t, err)
	_, err = svc.SetPublished(ctx, created.ID, author, true)
	require.NoError(t, err)

	_, err = svc.UpdateAuthoredFields(ctx, created.ID, stranger, draftRecipe("hacked"))
	assert.ErrorIs(t, err, ErrPermissionDenied)

	fields := draftRecipe("v2")
	fields.Published = false // must not be applied
	updated, err := svc.UpdateAuthoredFields(ctx, created.ID, author, fields)
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Title)
	assert.True(t, updated.Published, "edit preserves published flag")
	assert.Equal(t, author.ID, updated.AuthorID)
	assert.Equal(t, created.ID, updated.ID)
}

func TestToggleLikeInvolution(t *testing.T) {
	svc := newTestRecipeService(t)
	ctx := context.Background()
	author := testViewer("author")
	fan := testViewer("fan")

	created, err := svc.CreateRecipe(ctx, author, draftRecipe("likable"))
	require.NoError(t, err)

	// Drafts cannot be liked.
	_, err = svc.ToggleLike(ctx, created.ID, fan)
	assert.ErrorIs(t, err, ErrNotPublished)

	_, err = svc.SetPublished(ctx, created.ID, author, true)
	require.NoError(t, err)

	_, err = svc.ToggleLike(ctx, created.ID, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	liked, err := svc.ToggleLike(ctx, created.ID, fan)
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := svc.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount())
	assert.True(t, got.LikedBy(fan.ID))

	liked, err = svc.ToggleLike(ctx, created.ID, fan)
	require.NoError(t, err)
	assert.False(t, liked)

	got, err = svc.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikeCount())
}

func TestLikedRecipes(t *testing.T) {
	svc := newTestRecipeService(t)
	ctx := context.Background()
	author := testViewer("author")
	fan := testViewer("fan")

	created, err := svc.CreateRecipe(ctx, author, draftRecipe("likable"))
	require.NoError(t, err)
	_, err = svc.SetPublished(ctx, created.ID, author, true)
	require.NoError(t, err)

	liked, err := svc.LikedRecipes(ctx, fan)
	require.NoError(t, err)
	assert.Empty(t, liked)

	_, err = svc.ToggleLike(ctx, created.ID, fan)
	require.NoError(t, err)

	liked, err = svc.LikedRecipes(ctx, fan)
	require.NoError(t, err)
	assert.Len(t, liked, 1)
	assert.Equal(t, created.ID, liked[0].ID)
}

func TestAddComment(t *testing.T) {
	svc := newTestRecipeService(t)
	ctx := context.Background()
	author := testViewer("author")
	reader := testViewer("reader")

	created, err := svc.CreateRecipe(ctx, author, draftRecipe("commented"))
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, created.ID, reader, "early!")
	assert.ErrorIs(t, err, ErrNotPublished)

	_, err = svc.SetPublished(ctx, created.ID, author, true)
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, created.ID, reader, "   ")
	assert.True(t, IsValidationError(err))

	comment, err := svc.AddComment(ctx, created.ID, reader, "  tasty  ")
	require.NoError(t, err)
	assert.Equal(t, "tasty", comment.Text)
	assert.Equal(t, "reader", comment.Username)

	got, err := svc.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Comments, 1)
}

func TestDeleteRecipe(t *testing.T) {
	svc := newTestRecipeService(t)
	ctx := context.Background()
	author := testViewer("author")
	stranger := testViewer("stranger")

	created, err := svc.CreateRecipe(ctx, author, draftRecipe("doomed"))
	require.NoError(t, err)
	_, err = svc.SetPublished(ctx, created.ID, author, true)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, created.ID, stranger)
	require.NoError(t, err)

	err = svc.DeleteRecipe(ctx, created.ID, stranger)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = svc.DeleteRecipe(ctx, created.ID, author)
	require.NoError(t, err)

	_, err = svc.GetRecipe(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var likes int64
	require.NoError(t, svc.db.Model(&models.RecipeLike{}).Where("recipe_id = ?", created.ID).Count(&likes).Error)
	assert.Zero(t, likes)
}
