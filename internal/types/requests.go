package types

// RegisterRequest represents the request body for registering an account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username" binding:"required,min=3,max=30"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IngredientInput is one ingredient row of a recipe submission
type IngredientInput struct {
	Item       string `json:"item"`
	Amount     string `json:"amount"`
	IsLeftover bool   `json:"is_leftover"`
}

// SubmitRecipeRequest represents the request body for creating or
// updating a recipe draft
type SubmitRecipeRequest struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	ImageURL     string            `json:"image_url"`
	ImageData    []byte            `json:"image_data,omitempty"`
	ImageName    string            `json:"image_name,omitempty"`
	CategoryTags []string          `json:"category_tags"`
	Ingredients  []IngredientInput `json:"ingredients"`
	Steps        []string          `json:"steps"`
}

// AddCommentRequest represents the request body for commenting on a recipe
type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}
