package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/recipehub/backend/internal/models"
)

// WorkflowState is the authoring wizard's current step.
type WorkflowState int

const (
	// StateSelectingLeftovers is the initial step: pick the leftover
	// ingredients the recipe is built around.
	StateSelectingLeftovers WorkflowState = iota
	// StateEditing is the full recipe form.
	StateEditing
)

// CommonLeftovers is the fixed quick-select list offered in the first step.
var CommonLeftovers = []string{
	"rice", "pasta", "chicken", "beef", "pork", "fish", "salmon",
	"carrot", "onion", "garlic", "tomato", "potato", "spinach",
	"broccoli", "bell pepper", "mushroom", "zucchini", "lettuce",
	"egg", "cheese", "milk", "butter", "bread", "tofu",
	"beans", "lentils", "chickpeas", "corn", "peas",
}

// RecipeForm is the editable draft held by the Editing state. ImageURL is an
// already-uploaded asset; ImageData is a newly chosen upload that replaces it
// on submit.
type RecipeForm struct {
	Title        string
	Description  string
	ImageURL     string
	ImageData    []byte
	ImageName    string
	CategoryTags []string
	Ingredients  []models.Ingredient
	Steps        []string
}

// AuthoringStore is the slice of the recipe store the wizard writes through.
type AuthoringStore interface {
	CreateRecipe(ctx context.Context, viewer *Viewer, recipe *models.Recipe) (*models.Recipe, error)
	UpdateAuthoredFields(ctx context.Context, id uuid.UUID, viewer *Viewer, fields *models.Recipe) (*models.Recipe, error)
}

// AuthoringSession is the two-step recipe creation wizard. It starts in
// StateSelectingLeftovers; moving to StateEditing seeds one ingredient row
// per selected leftover. Editing an existing recipe enters StateEditing
// directly with the leftover set taken from the stored recipe.
type AuthoringSession struct {
	store    AuthoringStore
	uploader ImageUploader

	state     WorkflowState
	leftovers *TagSelection
	form      RecipeForm
	editing   *models.Recipe
}

// NewAuthoringSession creates a wizard in its initial state.
func NewAuthoringSession(store AuthoringStore, uploader ImageUploader) *AuthoringSession {
	return &AuthoringSession{
		store:     store,
		uploader:  uploader,
		state:     StateSelectingLeftovers,
		leftovers: NewTagSelection(),
	}
}

func (s *AuthoringSession) State() WorkflowState {
	return s.state
}

// ToggleLeftover flips a quick-select leftover in the first step.
func (s *AuthoringSession) ToggleLeftover(name string) {
	s.leftovers.Toggle(name)
}

// AddCustomLeftover inserts a free-text leftover. The name is trimmed and
// lowercased; empty or duplicate entries are rejected.
func (s *AuthoringSession) AddCustomLeftover(raw string) bool {
	return s.leftovers.Add(raw)
}

// Leftovers returns the selected leftover names in insertion order.
func (s *AuthoringSession) Leftovers() []string {
	return s.leftovers.Tags()
}

// ProceedToEditor moves from leftover selection to the recipe form. The
// ingredient list is re-seeded from the leftover set: one row per leftover
// with an empty amount. At least one leftover is required.
func (s *AuthoringSession) ProceedToEditor() error {
	if s.state != StateSelectingLeftovers {
		return nil
	}
	if s.leftovers.Len() == 0 {
		return newValidationError("select at least one leftover ingredient")
	}

	rows := make([]models.Ingredient, 0, s.leftovers.Len())
	for _, item := range s.leftovers.Tags() {
		rows = append(rows, models.Ingredient{Item: item, Amount: "", IsLeftover: true})
	}
	s.form.Ingredients = rows
	if len(s.form.Steps) == 0 {
		s.form.Steps = []string{""}
	}
	s.state = StateEditing
	return nil
}

// Back returns to leftover selection, keeping the leftover set and the rest
// of the form intact.
func (s *AuthoringSession) Back() {
	s.state = StateSelectingLeftovers
}

// BeginEdit enters the Editing state directly for an existing recipe. The
// leftover set comes from the recipe's stored leftover ingredients.
func (s *AuthoringSession) BeginEdit(recipe *models.Recipe) {
	s.editing = recipe
	s.state = StateEditing
	s.leftovers = NewTagSelection()
	for _, name := range recipe.LeftoverIngredients {
		s.leftovers.Add(name)
	}
	s.form = RecipeForm{
		Title:       recipe.Title,
		Description: recipe.Description,
		ImageURL:    recipe.ImageURL,
		Ingredients: append([]models.Ingredient(nil), recipe.Ingredients...),
		Steps:       append([]string(nil), recipe.Steps...),
	}
	if len(s.form.Steps) == 0 {
		s.form.Steps = []string{""}
	}
}

// Editing reports whether the session updates an existing recipe.
func (s *AuthoringSession) Editing() bool {
	return s.editing != nil
}

// RestoreForm replaces the form with client-assembled state and enters the
// Editing state. The HTTP API uses this where wizard state lives on the
// client; validation still runs once, in Submit.
func (s *AuthoringSession) RestoreForm(form RecipeForm) {
	s.form = form
	s.state = StateEditing
	s.leftovers = NewTagSelection()
	for _, ing := range form.Ingredients {
		if ing.IsLeftover {
			s.leftovers.Add(ing.Item)
		}
	}
}

func (s *AuthoringSession) Form() RecipeForm {
	return s.form
}

func (s *AuthoringSession) SetTitle(title string) {
	s.form.Title = title
}

func (s *AuthoringSession) SetDescription(description string) {
	s.form.Description = description
}

// SetImage attaches a newly chosen upload, replacing any existing image on
// submit.
func (s *AuthoringSession) SetImage(data []byte, name string) {
	s.form.ImageData = data
	s.form.ImageName = name
}

// RemoveImage clears both the pending upload and the existing URL.
func (s *AuthoringSession) RemoveImage() {
	s.form.ImageData = nil
	s.form.ImageName = ""
	s.form.ImageURL = ""
}

// ToggleCategoryTag flips an explicit category tag; these join the derived
// ingredient tags on submit.
func (s *AuthoringSession) ToggleCategoryTag(tag string) {
	normalized := NormalizeTag(tag)
	if normalized == "" {
		return
	}
	for i, t := range s.form.CategoryTags {
		if t == normalized {
			s.form.CategoryTags = append(s.form.CategoryTags[:i], s.form.CategoryTags[i+1:]...)
			return
		}
	}
	s.form.CategoryTags = append(s.form.CategoryTags, normalized)
}

// AddIngredient appends an empty non-leftover row.
func (s *AuthoringSession) AddIngredient() {
	s.form.Ingredients = append(s.form.Ingredients, models.Ingredient{})
}

// UpdateIngredientItem renames an ingredient row. Seeded leftover rows keep
// their item name; only the amount is editable for those.
func (s *AuthoringSession) UpdateIngredientItem(index int, item string) error {
	if index < 0 || index >= len(s.form.Ingredients) {
		return newValidationError("no such ingredient row")
	}
	if s.form.Ingredients[index].IsLeftover {
		return newValidationError("leftover ingredient names cannot be changed")
	}
	s.form.Ingredients[index].Item = item
	return nil
}

// UpdateIngredientAmount sets the amount of any ingredient row.
func (s *AuthoringSession) UpdateIngredientAmount(index int, amount string) error {
	if index < 0 || index >= len(s.form.Ingredients) {
		return newValidationError("no such ingredient row")
	}
	s.form.Ingredients[index].Amount = amount
	return nil
}

// RemoveIngredient deletes a non-leftover row.
func (s *AuthoringSession) RemoveIngredient(index int) error {
	if index < 0 || index >= len(s.form.Ingredients) {
		return newValidationError("no such ingredient row")
	}
	if s.form.Ingredients[index].IsLeftover {
		return newValidationError("leftover ingredients cannot be removed here")
	}
	s.form.Ingredients = append(s.form.Ingredients[:index], s.form.Ingredients[index+1:]...)
	return nil
}

// AddStep appends an empty step.
func (s *AuthoringSession) AddStep() {
	s.form.Steps = append(s.form.Steps, "")
}

// UpdateStep replaces a step's text.
func (s *AuthoringSession) UpdateStep(index int, text string) error {
	if index < 0 || index >= len(s.form.Steps) {
		return newValidationError("no such step")
	}
	s.form.Steps[index] = text
	return nil
}

// RemoveStep deletes a step; the last remaining step cannot be removed.
func (s *AuthoringSession) RemoveStep(index int) error {
	if index < 0 || index >= len(s.form.Steps) {
		return newValidationError("no such step")
	}
	if len(s.form.Steps) == 1 {
		return newValidationError("a recipe needs at least one step")
	}
	s.form.Steps = append(s.form.Steps[:index], s.form.Steps[index+1:]...)
	return nil
}

// Submit validates the form, uploads a newly chosen image, recomputes the
// derived tag and leftover sets, and writes the recipe through the store.
// New recipes are created as drafts owned by the viewer; edits preserve the
// recipe's id, author, published flag, likes and comments. On success the
// session resets to its initial state; on failure the form is untouched so
// the user can correct and resubmit.
func (s *AuthoringSession) Submit(ctx context.Context, viewer *Viewer) (*models.Recipe, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	imageURL := s.form.ImageURL
	if len(s.form.ImageData) > 0 {
		uploaded, err := s.uploadImage(ctx)
		if err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		imageURL = uploaded
	}

	recipe := &models.Recipe{
		Title:               s.form.Title,
		Description:         s.form.Description,
		ImageURL:            imageURL,
		Ingredients:         append(models.JSONBIngredients(nil), s.form.Ingredients...),
		Steps:               append(models.JSONBStringArray(nil), s.form.Steps...),
		Tags:                deriveTags(s.form.Ingredients, s.form.CategoryTags),
		LeftoverIngredients: deriveLeftovers(s.form.Ingredients),
	}

	var saved *models.Recipe
	var err error
	if s.editing != nil {
		saved, err = s.store.UpdateAuthoredFields(ctx, s.editing.ID, viewer, recipe)
	} else {
		saved, err = s.store.CreateRecipe(ctx, viewer, recipe)
	}
	if err != nil {
		return nil, err
	}

	s.Reset()
	return saved, nil
}

// Reset returns the wizard to its initial state with a blank form.
func (s *AuthoringSession) Reset() {
	s.state = StateSelectingLeftovers
	s.leftovers = NewTagSelection()
	s.form = RecipeForm{}
	s.editing = nil
}

// validate checks the form in fixed order, stopping at the first failure so
// each failure surfaces a single distinct message.
func (s *AuthoringSession) validate() error {
	hasImage := len(s.form.ImageData) > 0 || s.form.ImageURL != ""
	if s.form.Title == "" || s.form.Description == "" || !hasImage {
		return newValidationError("please fill in all required fields")
	}
	if len(s.form.Ingredients) == 0 {
		return newValidationError("please complete all ingredient fields")
	}
	for _, ing := range s.form.Ingredients {
		if ing.Item == "" || ing.Amount == "" {
			return newValidationError("please complete all ingredient fields")
		}
	}
	if len(s.form.Steps) == 0 {
		return newValidationError("please complete all cooking steps")
	}
	for _, step := range s.form.Steps {
		if strings.TrimSpace(step) == "" {
			return newValidationError("please complete all cooking steps")
		}
	}
	return nil
}

func (s *AuthoringSession) uploadImage(ctx context.Context) (string, error) {
	ext := filepath.Ext(s.form.ImageName)
	if ext == "" {
		ext = ".png"
	}
	fileName := fmt.Sprintf("recipe-images/%s%s", uuid.New().String(), ext)
	return s.uploader.Upload(ctx, s.form.ImageData, fileName)
}

// deriveTags computes the stored tag set: the lowercased item name of every
// ingredient plus any explicit category tags, deduplicated, insertion order.
func deriveTags(ingredients []models.Ingredient, categoryTags []string) models.JSONBStringArray {
	seen := make(map[string]struct{})
	tags := make(models.JSONBStringArray, 0, len(ingredients)+len(categoryTags))
	add := func(raw string) {
		tag := NormalizeTag(raw)
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	for _, ing := range ingredients {
		add(ing.Item)
	}
	for _, t := range categoryTags {
		add(t)
	}
	return tags
}

// deriveLeftovers computes the stored leftover set: lowercased item names of
// rows flagged as leftovers. Always a subset of the ingredient item names.
func deriveLeftovers(ingredients []models.Ingredient) models.JSONBStringArray {
	out := make(models.JSONBStringArray, 0)
	for _, ing := range ingredients {
		if ing.IsLeftover {
			out = append(out, strings.ToLower(ing.Item))
		}
	}
	return out
}
