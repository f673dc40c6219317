package model

// MenuItem is one orderable product in the catalog.
//
// Name is the exact-match lookup key the model must echo back when it
// places an order; the catalog is read-only from the agent's perspective.
type MenuItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}
