package services

import (
	"github.com/EvgeniyKrainov/foodgram/internal/models"
	"github.com/EvgeniyKrainov/foodgram/internal/repositories"
)

// CatalogService exposes the read-only ingredient and tag catalogs.
type CatalogService struct {
	repo repositories.CatalogRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Ingredients lists ingredients, optionally filtered by name prefix.
func (s *CatalogService) Ingredients(namePrefix string) ([]models.Ingredient, error) {
	return s.repo.Ingredients(namePrefix)
}

// Ingredient returns one catalog ingredient.
func (s *CatalogService) Ingredient(id uint) (*models.Ingredient, error) {
	return s.repo.IngredientByID(id)
}

// Tags lists the tag catalog.
func (s *CatalogService) Tags() ([]models.Tag, error) {
	return s.repo.Tags()
}

// Tag returns one tag.
func (s *CatalogService) Tag(id uint) (*models.Tag, error) {
	return s.repo.TagByID(id)
}
