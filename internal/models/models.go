package models

// Customer is a top-level tenant ("outlet") representing one restaurant
// business unit.
type Customer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

// Location is a physical site belonging to one customer. CustomerID is a
// foreign-key style reference; the backend owns referential integrity.
type Location struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	City       string `json:"city"`
	Timezone   string `json:"timezone"`
	CustomerID int64  `json:"customer_id"`
}

// MenuItem is a sellable item belonging to one location, the unit forecasts
// are computed against.
type MenuItem struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	LocationID int64  `json:"location_id"`
}

// Datapoint is one historical sales observation for a menu item.
type Datapoint struct {
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
	MenuID int64   `json:"menu_id,omitempty"`
}
