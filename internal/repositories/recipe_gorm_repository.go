package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EvgeniyKrainov/foodgram/internal/apperrors"
	"github.com/EvgeniyKrainov/foodgram/internal/models"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{db: db}
}

// Create persists the recipe row, its ingredient lines and its tag
// association in one transaction.
func (r *GORMRecipeRepository) Create(recipe *models.Recipe) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		lines := recipe.Ingredients
		tags := recipe.Tags
		recipe.Ingredients = nil
		recipe.Tags = nil

		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		if err := insertLines(tx, recipe.ID, lines); err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}

		recipe.Ingredients = lines
		recipe.Tags = tags
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// Update saves the recipe fields and replaces the entire ingredient line set
// and tag association. Lines are deleted and re-inserted, not diffed.
func (r *GORMRecipeRepository) Update(recipe *models.Recipe) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		lines := recipe.Ingredients
		tags := recipe.Tags
		recipe.Ingredients = nil
		recipe.Tags = nil

		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := insertLines(tx, recipe.ID, lines); err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}

		recipe.Ingredients = lines
		recipe.Tags = tags
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update recipe %d: %w", recipe.ID, err)
	}
	return nil
}

func insertLines(tx *gorm.DB, recipeID uint, lines []models.RecipeIngredient) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = 0
		lines[i].RecipeID = recipeID
	}
	return tx.Create(&lines).Error
}

// GetByID returns a recipe with its author, tags and resolved ingredient
// lines preloaded.
func (r *GORMRecipeRepository) GetByID(id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// List returns one page of recipes matching the filter, newest first, and
// the total match count.
func (r *GORMRecipeRepository) List(filter RecipeFilter) ([]models.Recipe, int64, error) {
	q := r.db.Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		q = q.Where("recipes.id IN (?)",
			r.db.Table("recipe_tags").Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if filter.FavoritedBy != 0 {
		q = q.Where("recipes.id IN (?)",
			r.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", filter.FavoritedBy))
	}
	if filter.InCartOf != 0 {
		q = q.Where("recipes.id IN (?)",
			r.db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", filter.InCartOf))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var recipes []models.Recipe
	err := q.Order("recipes.pub_date DESC").
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

// Delete removes the recipe, its owned ingredient lines, its tag links and
// any favorite/cart rows referencing it.
func (r *GORMRecipeRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to delete recipe %d: %w", id, err)
	}
	return nil
}

// ByAuthor returns the author's newest recipes, capped by limit when > 0.
func (r *GORMRecipeRepository) ByAuthor(authorID uint, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	q := r.db.Where("author_id = ?", authorID).Order("pub_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes of author %d: %w", authorID, err)
	}
	return recipes, nil
}

// CountByAuthor returns the author's total recipe count.
func (r *GORMRecipeRepository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes of author %d: %w", authorID, err)
	}
	return count, nil
}
