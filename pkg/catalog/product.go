// Package catalog defines the product value type shared by the
// storefront stores. Products come from the catalog backend; the store
// layer copies them in and never mutates them.
package catalog

// Product is a catalog entry. It is treated as a value: stores identify
// it by ID only and carry the rest for presentation.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       float64  `json:"price"`
	Image       string   `json:"image,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
}
