package service

import (
	"github.com/google/uuid"
	"github.com/recipehub/backend/internal/models"
)

// Viewer is the authenticated identity an operation or view is computed for.
// A nil *Viewer means anonymous.
type Viewer struct {
	ID       uuid.UUID
	Username string
}

// The derived views below are pure functions of (recipes, viewer). They are
// recomputed from each full snapshot delivered by the recipe subscription;
// callers must not cache results across snapshots.

// Feed returns the recipes visible to everyone: published only.
func Feed(recipes []models.Recipe) []models.Recipe {
	out := make([]models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.Published {
			out = append(out, r)
		}
	}
	return out
}

// MyRecipes returns the recipes authored by the viewer, drafts included.
// Anonymous viewers own nothing.
func MyRecipes(recipes []models.Recipe, viewer *Viewer) []models.Recipe {
	out := make([]models.Recipe, 0)
	if viewer == nil {
		return out
	}
	for _, r := range recipes {
		if r.AuthorID == viewer.ID {
			out = append(out, r)
		}
	}
	return out
}

// MyDrafts is MyRecipes restricted to unpublished recipes.
func MyDrafts(recipes []models.Recipe, viewer *Viewer) []models.Recipe {
	out := make([]models.Recipe, 0)
	for _, r := range MyRecipes(recipes, viewer) {
		if !r.Published {
			out = append(out, r)
		}
	}
	return out
}

// MyPublished is MyRecipes restricted to published recipes.
func MyPublished(recipes []models.Recipe, viewer *Viewer) []models.Recipe {
	out := make([]models.Recipe, 0)
	for _, r := range MyRecipes(recipes, viewer) {
		if r.Published {
			out = append(out, r)
		}
	}
	return out
}

// LikedByMe returns the feed recipes whose like set contains the viewer.
func LikedByMe(recipes []models.Recipe, viewer *Viewer) []models.Recipe {
	out := make([]models.Recipe, 0)
	if viewer == nil {
		return out
	}
	for _, r := range Feed(recipes) {
		if r.LikedBy(viewer.ID) {
			out = append(out, r)
		}
	}
	return out
}
