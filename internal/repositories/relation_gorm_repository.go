package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/EvgeniyKrainov/foodgram/internal/apperrors"
	"github.com/EvgeniyKrainov/foodgram/internal/models"
)

// GORMRelationRepository is a GORM implementation of RelationRepository.
// Pair uniqueness is enforced by the unique composite indexes on the
// relation tables; a racing second insert is rejected by the database and
// surfaced as ErrDuplicateRelation.
type GORMRelationRepository struct {
	db *gorm.DB
}

// NewGORMRelationRepository creates a new instance of GORMRelationRepository.
func NewGORMRelationRepository(db *gorm.DB) *GORMRelationRepository {
	return &GORMRelationRepository{db: db}
}

func relationModel(kind RelationKind) interface{} {
	if kind == RelationFavorite {
		return &models.Favorite{}
	}
	return &models.ShoppingCart{}
}

// Add inserts a (user, recipe) membership row.
func (r *GORMRelationRepository) Add(kind RelationKind, userID, recipeID uint) error {
	var err error
	switch kind {
	case RelationFavorite:
		err = r.db.Create(&models.Favorite{UserID: userID, RecipeID: recipeID}).Error
	default:
		err = r.db.Create(&models.ShoppingCart{UserID: userID, RecipeID: recipeID}).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrDuplicateRelation
		}
		return fmt.Errorf("failed to add %s relation: %w", kind, err)
	}
	return nil
}

// Remove deletes a (user, recipe) membership row.
func (r *GORMRelationRepository) Remove(kind RelationKind, userID, recipeID uint) error {
	res := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(relationModel(kind))
	if res.Error != nil {
		return fmt.Errorf("failed to remove %s relation: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Exists reports whether the (user, recipe) pair is in the named set.
func (r *GORMRelationRepository) Exists(kind RelationKind, userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.Model(relationModel(kind)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check %s relation: %w", kind, err)
	}
	return count > 0, nil
}

// RecipeIDs lists all recipe ids in the user's named set.
func (r *GORMRelationRepository) RecipeIDs(kind RelationKind, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(relationModel(kind)).
		Where("user_id = ?", userID).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s recipe ids: %w", kind, err)
	}
	return ids, nil
}

// AggregateCart runs the grouped-sum query over the user's cart. Grouping is
// by ingredient id; name and unit come from the joined catalog row.
func (r *GORMRelationRepository) AggregateCart(userID uint) ([]models.ShoppingItem, error) {
	var items []models.ShoppingItem
	err := r.db.Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN (?)",
			r.db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", userID)).
		Group("recipe_ingredients.ingredient_id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping cart for user %d: %w", userID, err)
	}
	return items, nil
}

// GORMSubscriptionRepository is a GORM implementation of SubscriptionRepository.
type GORMSubscriptionRepository struct {
	db *gorm.DB
}

// NewGORMSubscriptionRepository creates a new instance of GORMSubscriptionRepository.
func NewGORMSubscriptionRepository(db *gorm.DB) *GORMSubscriptionRepository {
	return &GORMSubscriptionRepository{db: db}
}

// Add inserts a (subscriber, author) row.
func (r *GORMSubscriptionRepository) Add(userID, authorID uint) error {
	if err := r.db.Create(&models.Subscribe{UserID: userID, AuthorID: authorID}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrDuplicateRelation
		}
		return fmt.Errorf("failed to add subscription: %w", err)
	}
	return nil
}

// Remove deletes a (subscriber, author) row.
func (r *GORMSubscriptionRepository) Remove(userID, authorID uint) error {
	res := r.db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&models.Subscribe{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Exists reports whether the user is subscribed to the author.
func (r *GORMSubscriptionRepository) Exists(userID, authorID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Subscribe{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return count > 0, nil
}

// Authors returns the users the subscriber follows, ordered by username.
func (r *GORMSubscriptionRepository) Authors(userID uint) ([]models.User, error) {
	var authors []models.User
	err := r.db.Model(&models.User{}).
		Joins("JOIN subscribes ON subscribes.author_id = users.id").
		Where("subscribes.user_id = ?", userID).
		Order("users.username").
		Find(&authors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions of user %d: %w", userID, err)
	}
	return authors, nil
}
