package models

// Favorite is a user's bookmark on a recipe, unique per (user, recipe).
type Favorite struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_favorite_pair"`
	RecipeID uint `json:"recipe_id" gorm:"not null;uniqueIndex:idx_favorite_pair"`

	User   User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// ShoppingCart marks a recipe for shopping-list aggregation, unique per
// (user, recipe).
type ShoppingCart struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_pair"`
	RecipeID uint `json:"recipe_id" gorm:"not null;uniqueIndex:idx_cart_pair"`

	User   User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}
