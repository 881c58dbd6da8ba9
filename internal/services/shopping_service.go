package services

import (
	"fmt"
	"strings"

	"github.com/EvgeniyKrainov/foodgram/internal/models"
	"github.com/EvgeniyKrainov/foodgram/internal/repositories"
)

// ShoppingListFilename is the download attachment name.
const ShoppingListFilename = "shopping_list.txt"

// ShoppingService aggregates a user's shopping cart into a purchase list.
// It is a pure read path; nothing here mutates persisted state.
type ShoppingService struct {
	relationRepo repositories.RelationRepository
}

// NewShoppingService creates a new ShoppingService.
func NewShoppingService(relationRepo repositories.RelationRepository) *ShoppingService {
	return &ShoppingService{relationRepo: relationRepo}
}

// BuildShoppingList returns the summed ingredient amounts across every
// recipe in the user's cart, grouped by ingredient and sorted by name.
// An empty cart yields an empty slice, not an error.
func (s *ShoppingService) BuildShoppingList(userID uint) ([]models.ShoppingItem, error) {
	return s.relationRepo.AggregateCart(userID)
}

// RenderShoppingList formats aggregated items as the downloadable text
// document: a header line followed by one "- name: amount unit" row per
// ingredient. An empty item list produces a header-only document.
func (s *ShoppingService) RenderShoppingList(items []models.ShoppingItem) string {
	var b strings.Builder
	b.WriteString("Shopping list:\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- %s: %d %s\n", item.Name, item.Amount, item.MeasurementUnit)
	}
	return b.String()
}
