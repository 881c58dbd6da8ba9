package models

// Ingredient is a catalog entry. The catalog is seeded out-of-band and
// read-only to the API; (name, measurement_unit) pairs are unique.
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"type:varchar(128);uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"type:varchar(64);uniqueIndex:idx_ingredient_name_unit"`
}

// Tag is a catalog entry with a unique slug, read-only to the API.
type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(32)"`
	Slug string `json:"slug" gorm:"uniqueIndex;type:varchar(32)"`
}
