package handlers

import (
	"github.com/EvgeniyKrainov/foodgram/internal/models"
	"github.com/EvgeniyKrainov/foodgram/internal/services"
)

// The API exposes two recipe shapes: RecipeSummary for embedded listings
// (favorites, carts, subscription previews) and RecipeDetail for full reads.
// Handlers pick the shape explicitly; nothing inspects the request to decide.

// UserProfile is the public representation of a user.
type UserProfile struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
	Avatar       string `json:"avatar"`
}

// NewUserProfile maps a user row to its public shape.
func NewUserProfile(user *models.User, isSubscribed bool) UserProfile {
	return UserProfile{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       user.Avatar,
	}
}

// RecipeSummary is the short recipe shape.
type RecipeSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// NewRecipeSummary maps a recipe row to its short shape.
func NewRecipeSummary(recipe *models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

// RecipeIngredientView is one resolved ingredient line in a detail response.
type RecipeIngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeDetail is the full recipe shape.
type RecipeDetail struct {
	ID               uint                   `json:"id"`
	Tags             []models.Tag           `json:"tags"`
	Author           UserProfile            `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

// NewRecipeDetail maps a preloaded recipe row to its full shape. The
// per-viewer flags are supplied by the caller.
func NewRecipeDetail(recipe *models.Recipe, author UserProfile, isFavorited, isInCart bool) RecipeDetail {
	ingredients := make([]RecipeIngredientView, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		ingredients = append(ingredients, RecipeIngredientView{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}
	tags := recipe.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return RecipeDetail{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

// AuthorWithRecipes is a subscriptions-listing entry: the author plus a
// capped preview of their recipes.
type AuthorWithRecipes struct {
	UserProfile
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

// NewAuthorWithRecipes maps a subscription preview to its output shape.
func NewAuthorWithRecipes(preview services.AuthorPreview, isSubscribed bool) AuthorWithRecipes {
	recipes := make([]RecipeSummary, 0, len(preview.Recipes))
	for i := range preview.Recipes {
		recipes = append(recipes, NewRecipeSummary(&preview.Recipes[i]))
	}
	return AuthorWithRecipes{
		UserProfile:  NewUserProfile(&preview.Author, isSubscribed),
		Recipes:      recipes,
		RecipesCount: preview.RecipesCount,
	}
}

// Page wraps a paginated listing.
type Page struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}
