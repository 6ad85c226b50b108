package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products for storefront navigation.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	SortOrder   int        `json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Product is a sellable item in the LuxeFurniture catalog. All money values
// are integer minor units.
type Product struct {
	ID                uuid.UUID `json:"id"`
	CategoryID        uuid.UUID `json:"category_id"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	Description       string    `json:"description,omitempty"`
	PriceMinor        int64     `json:"price_minor"`
	SalePriceMinor    *int64    `json:"sale_price_minor,omitempty"`
	SKU               string    `json:"sku,omitempty"`
	StockQuantity     int       `json:"stock_quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	Material          string    `json:"material,omitempty"`
	Color             string    `json:"color,omitempty"`
	IsFeatured        bool      `json:"is_featured"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// EffectivePriceMinor returns the sale price when one is set, otherwise the
// regular price. Order items snapshot this value at checkout.
func (p *Product) EffectivePriceMinor() int64 {
	if p.SalePriceMinor != nil && *p.SalePriceMinor > 0 {
		return *p.SalePriceMinor
	}
	return p.PriceMinor
}

// Oversold reports whether concurrent demand has driven stock below zero.
func (p *Product) Oversold() bool { return p.StockQuantity < 0 }

// CreateProductRequest is the payload for adding a product to the catalog.
type CreateProductRequest struct {
	CategoryID        string `json:"category_id"`
	Name              string `json:"name"`
	Slug              string `json:"slug"`
	Description       string `json:"description,omitempty"`
	PriceMinor        int64  `json:"price_minor"`
	SalePriceMinor    *int64 `json:"sale_price_minor,omitempty"`
	SKU               string `json:"sku,omitempty"`
	StockQuantity     int    `json:"stock_quantity"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	Material          string `json:"material,omitempty"`
	Color             string `json:"color,omitempty"`
}
