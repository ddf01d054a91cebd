package domain

import "time"

// Product is a canonical catalog row. ID is catalog-assigned and stable;
// (Source, Reference) is the dedup key and the only join key shared with
// the vector index.
type Product struct {
	ID           int64     `json:"id"`
	Source       string    `json:"source"`
	Reference    string    `json:"reference"`
	Name         string    `json:"name"`
	Brand        string    `json:"brand"`
	Category     string    `json:"category"`
	Color        string    `json:"color"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	Availability string    `json:"availability"`
	Sizes        []string  `json:"sizes"`
	Styles       string    `json:"styles"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	ProductURL   string    `json:"product_url"`
	CreatedAt    time.Time `json:"created_at"`
}
