package models

import "time"

// Recipe is a dish published by one author. It exclusively owns its
// RecipeIngredient rows and holds a shared many-to-many reference to tags.
type Recipe struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(256)" validate:"required,max=256"`
	Text        string    `json:"text" validate:"required"`
	CookingTime int       `json:"cooking_time"`
	Image       string    `json:"image" gorm:"type:varchar(255)"`
	PubDate     time.Time `json:"pub_date" gorm:"autoCreateTime"`
	AuthorID    uint      `json:"author_id" gorm:"not null;index"`

	Author      User               `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Tags        []Tag              `json:"-" gorm:"many2many:recipe_tags;"`
}

// RecipeIngredient binds one ingredient to one recipe with a quantity.
// An ingredient appears at most once per recipe.
type RecipeIngredient struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	RecipeID     uint `json:"recipe_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient_pair"`
	IngredientID uint `json:"ingredient_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient_pair"`
	Amount       int  `json:"amount"`

	Ingredient Ingredient `json:"-" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}
