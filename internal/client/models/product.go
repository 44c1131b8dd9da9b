package models

import (
	"net/url"
	"strconv"
	"time"
)

type ProductImage struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Alt       string `json:"alt,omitempty"`
	IsDefault bool   `json:"isDefault"`
}

type ProductVariant struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	SKU        string            `json:"sku"`
	Price      float64           `json:"price"`
	SalePrice  *float64          `json:"salePrice,omitempty"`
	Inventory  int               `json:"inventory"`
	IsActive   bool              `json:"isActive"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type ProductSpecification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Product struct {
	ID                    string                 `json:"id"`
	Name                  string                 `json:"name"`
	Slug                  string                 `json:"slug"`
	Description           string                 `json:"description"`
	ShortDescription      string                 `json:"shortDescription,omitempty"`
	Price                 float64                `json:"price"`
	SalePrice             *float64               `json:"salePrice,omitempty"`
	SKU                   string                 `json:"sku"`
	Barcode               string                 `json:"barcode,omitempty"`
	Inventory             int                    `json:"inventory"`
	LowInventoryThreshold *int                   `json:"lowInventoryThreshold,omitempty"`
	IsActive              bool                   `json:"isActive"`
	IsFeatured            bool                   `json:"isFeatured"`
	Images                []ProductImage         `json:"images"`
	CategoryID            string                 `json:"categoryId,omitempty"`
	Category              *Ref                   `json:"category,omitempty"`
	VendorID              string                 `json:"vendorId"`
	Vendor                *Ref                   `json:"vendor,omitempty"`
	Variants              []ProductVariant       `json:"variants,omitempty"`
	Specifications        []ProductSpecification `json:"specifications,omitempty"`
	Attributes            map[string]string      `json:"attributes,omitempty"`
	Tags                  []string               `json:"tags,omitempty"`
	CreatedAt             time.Time              `json:"createdAt"`
	UpdatedAt             time.Time              `json:"updatedAt"`
}

// LowOnStock reports whether inventory is at or under the product's
// threshold. Products without a threshold are never low.
func (p *Product) LowOnStock() bool {
	return p.LowInventoryThreshold != nil && p.Inventory <= *p.LowInventoryThreshold
}

// ApplyInventory sets the product inventory and, for every variant id
// present in variants, that variant's inventory.
func (p *Product) ApplyInventory(inventory int, variants map[string]int) {
	p.Inventory = inventory
	for i := range p.Variants {
		if v, ok := variants[p.Variants[i].ID]; ok {
			p.Variants[i].Inventory = v
		}
	}
}

type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortOldest    ProductSort = "oldest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortPopular   ProductSort = "popular"
	SortRating    ProductSort = "rating"
)

// ProductFilters are the list query parameters. Pointer fields are omitted
// from the query when nil.
type ProductFilters struct {
	Search     string
	CategoryID string
	MinPrice   *float64
	MaxPrice   *float64
	IsActive   *bool
	IsFeatured *bool
	SortBy     ProductSort
	Page       int
	Limit      int
}

// DefaultProductFilters returns page 1, 20 per page, newest first.
func DefaultProductFilters() ProductFilters {
	return ProductFilters{Page: 1, Limit: 20, SortBy: SortNewest}
}

// Merge overlays the non-zero fields of other onto f.
func (f ProductFilters) Merge(other ProductFilters) ProductFilters {
	if other.Search != "" {
		f.Search = other.Search
	}
	if other.CategoryID != "" {
		f.CategoryID = other.CategoryID
	}
	if other.MinPrice != nil {
		f.MinPrice = other.MinPrice
	}
	if other.MaxPrice != nil {
		f.MaxPrice = other.MaxPrice
	}
	if other.IsActive != nil {
		f.IsActive = other.IsActive
	}
	if other.IsFeatured != nil {
		f.IsFeatured = other.IsFeatured
	}
	if other.SortBy != "" {
		f.SortBy = other.SortBy
	}
	if other.Page > 0 {
		f.Page = other.Page
	}
	if other.Limit > 0 {
		f.Limit = other.Limit
	}
	return f
}

// Query encodes the filters as URL query values.
func (f ProductFilters) Query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.CategoryID != "" {
		q.Set("categoryId", f.CategoryID)
	}
	if f.MinPrice != nil {
		q.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.IsActive != nil {
		q.Set("isActive", strconv.FormatBool(*f.IsActive))
	}
	if f.IsFeatured != nil {
		q.Set("isFeatured", strconv.FormatBool(*f.IsFeatured))
	}
	if f.SortBy != "" {
		q.Set("sortBy", string(f.SortBy))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Pages    int       `json:"pages"`
	Page     int       `json:"page"`
}

// InventoryUpdate is the body of PUT /products/{id}/inventory.
type InventoryUpdate struct {
	Inventory        int            `json:"inventory"`
	VariantInventory map[string]int `json:"variantInventory,omitempty"`
}

// ProductInput is the create/edit payload. Nil fields are omitted so an edit
// only touches what was set.
type ProductInput struct {
	Name                  *string           `json:"name,omitempty"`
	Description           *string           `json:"description,omitempty"`
	ShortDescription      *string           `json:"shortDescription,omitempty"`
	Price                 *float64          `json:"price,omitempty"`
	SalePrice             *float64          `json:"salePrice,omitempty"`
	SKU                   *string           `json:"sku,omitempty"`
	Barcode               *string           `json:"barcode,omitempty"`
	Inventory             *int              `json:"inventory,omitempty"`
	LowInventoryThreshold *int              `json:"lowInventoryThreshold,omitempty"`
	IsActive              *bool             `json:"isActive,omitempty"`
	IsFeatured            *bool             `json:"isFeatured,omitempty"`
	CategoryID            *string           `json:"categoryId,omitempty"`
	Tags                  []string          `json:"tags,omitempty"`
	Attributes            map[string]string `json:"attributes,omitempty"`
}
