package service

import (
	"strings"

	"github.com/recipehub/backend/internal/models"
)

// NormalizeTag trims and lowercases a raw tag. Callers reject the empty
// result; normalization is the same for filter tags and leftover names.
func NormalizeTag(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// FilterByTags returns the recipes matching every selected tag. A recipe
// matches tag t when at least one of its tags contains t as a
// case-insensitive substring; "bell pepper" matches a "pepper" filter.
// An empty selection is the identity filter.
func FilterByTags(recipes []models.Recipe, selected []string) []models.Recipe {
	if len(selected) == 0 {
		return recipes
	}

	out := make([]models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if recipeMatchesAll(r, selected) {
			out = append(out, r)
		}
	}
	return out
}

func recipeMatchesAll(r models.Recipe, selected []string) bool {
	for _, t := range selected {
		want := strings.ToLower(t)
		found := false
		for _, rt := range r.Tags {
			if strings.Contains(strings.ToLower(rt), want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// TagSelection is an insertion-ordered set of filter tags. It is the single
// source of truth for which tags are active: quick-select entries and
// free-text entries live in the same set, so removing a tag also reverts its
// quick-select highlight.
type TagSelection struct {
	tags []string
}

func NewTagSelection() *TagSelection {
	return &TagSelection{}
}

// Has reports membership of an already-normalized tag.
func (s *TagSelection) Has(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Add normalizes raw and inserts it. It returns false without changing the
// selection when the normalized tag is empty or already present.
func (s *TagSelection) Add(raw string) bool {
	tag := NormalizeTag(raw)
	if tag == "" || s.Has(tag) {
		return false
	}
	s.tags = append(s.tags, tag)
	return true
}

// Toggle flips membership of a tag from the quick-select list.
func (s *TagSelection) Toggle(raw string) {
	tag := NormalizeTag(raw)
	if tag == "" {
		return
	}
	if s.Has(tag) {
		s.Remove(tag)
		return
	}
	s.tags = append(s.tags, tag)
}

// Remove drops a tag from the selection; unknown tags are a no-op.
func (s *TagSelection) Remove(raw string) {
	tag := NormalizeTag(raw)
	for i, t := range s.tags {
		if t == tag {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			return
		}
	}
}

// Clear empties the selection.
func (s *TagSelection) Clear() {
	s.tags = nil
}

// Tags returns the selection in insertion order.
func (s *TagSelection) Tags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

func (s *TagSelection) Len() int {
	return len(s.tags)
}
