package models

// ShoppingItem is one aggregated shopping-list row: the summed amount of an
// ingredient across every recipe in a user's cart. It is a query result,
// never persisted.
type ShoppingItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}
