package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/recipehub/backend/internal/api"
	"github.com/recipehub/backend/internal/router"
	"github.com/recipehub/backend/internal/service"
	"github.com/recipehub/backend/internal/testdb"
)

type fakeUploader struct{}

func (fakeUploader) Upload(ctx context.Context, data []byte, fileName string) (string, error) {
	return "https://images.example.com/" + fileName, nil
}

type testEnv struct {
	db      *gorm.DB
	engine  *gin.Engine
	broker  *service.RecipeBroker
	recipes *service.RecipeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.New(t)
	authService := service.NewAuthService(db, "test-secret")
	broker := service.NewRecipeBroker(db, nil)
	recipeService := service.NewRecipeService(db, broker)
	uploader := fakeUploader{}

	authHandler := api.NewAuthHandler(authService)
	recipeHandler := api.NewRecipeHandler(recipeService, uploader, authService, nil, nil)
	streamHandler := api.NewStreamHandler(broker, authService)
	imageHandler := api.NewImageHandler(uploader)

	engine := router.SetupRouter(authHandler, recipeHandler, streamHandler, imageHandler, authService)

	return &testEnv{
		db:      db,
		engine:  engine,
		broker:  broker,
		recipes: recipeService,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.engine.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    fmt.Sprintf("%s@example.com", username),
		"password": "hunter2hunter2",
		"username": username,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out), rr.Body.String())
}

var validRecipeBody = gin.H{
	"title":       "Egg Fried Rice",
	"description": "weeknight standby",
	"image_url":   "https://images.example.com/fried-rice.jpg",
	"ingredients": []gin.H{
		{"item": "rice", "amount": "2 cups", "is_leftover": true},
		{"item": "egg", "amount": "2", "is_leftover": true},
		{"item": "scallion", "amount": "2 stalks"},
	},
	"steps":         []string{"fry everything"},
	"category_tags": []string{"quick"},
}

func (e *testEnv) createRecipe(t *testing.T, token string) string {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/v1/recipes", token, validRecipeBody)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	decodeJSON(t, rr, &resp)
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func (e *testEnv) publish(t *testing.T, token, id string) {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/v1/recipes/"+id+"/publish", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}
