package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/vendordesk/internal/client/models"
)

// productList covers both listing shapes the backend produces:
// {"data": [...], "total": n, ...} and {"products": [...], ...}.
type productList struct {
	Data     json.RawMessage  `json:"data"`
	Products []models.Product `json:"products"`
	Total    int              `json:"total"`
	Pages    int              `json:"pages"`
	Page     int              `json:"page"`
}

func decodeProductPage(body []byte) (*models.ProductPage, error) {
	var l productList
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	page := &models.ProductPage{Products: l.Products, Total: l.Total, Pages: l.Pages, Page: l.Page}
	if len(l.Data) > 0 && string(l.Data) != "null" {
		if l.Data[0] == '[' {
			if err := json.Unmarshal(l.Data, &page.Products); err != nil {
				return nil, fmt.Errorf("decode products: %w", err)
			}
		} else {
			inner, err := decodeProductPage(l.Data)
			if err != nil {
				return nil, err
			}
			page = inner
		}
	}
	if page.Products == nil {
		page.Products = []models.Product{}
	}
	if page.Total == 0 {
		page.Total = len(page.Products)
	}
	return page, nil
}

func (a *API) productPage(ctx context.Context, r Request) (*models.ProductPage, error) {
	body, err := a.raw(ctx, r)
	if err != nil {
		return nil, err
	}
	return decodeProductPage(body)
}

func (a *API) ListProducts(ctx context.Context, f models.ProductFilters) (*models.ProductPage, error) {
	return a.productPage(ctx, Request{Method: http.MethodGet, Path: "/products", Query: f.Query()})
}

func (a *API) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	page, err := a.productPage(ctx, Request{Method: http.MethodGet, Path: "/products/featured", Query: limitQuery(limit)})
	if err != nil {
		return nil, err
	}
	return page.Products, nil
}

func (a *API) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return a.product(ctx, get("/products/"+url.PathEscape(id)))
}

// GetVendorDashboardProduct returns the vendor's own view of a product,
// including inactive ones.
func (a *API) GetVendorDashboardProduct(ctx context.Context, id string) (*models.Product, error) {
	return a.product(ctx, get("/products/get/"+url.PathEscape(id)))
}

func (a *API) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return a.product(ctx, get("/products/slug/"+url.PathEscape(slug)))
}

func (a *API) RelatedProducts(ctx context.Context, id string, limit int) ([]models.Product, error) {
	page, err := a.productPage(ctx, Request{
		Method: http.MethodGet,
		Path:   "/products/" + url.PathEscape(id) + "/related",
		Query:  limitQuery(limit),
	})
	if err != nil {
		return nil, err
	}
	return page.Products, nil
}

func (a *API) VendorProducts(ctx context.Context, vendorID string, f models.ProductFilters) (*models.ProductPage, error) {
	return a.productPage(ctx, Request{
		Method: http.MethodGet,
		Path:   "/products/vendor/" + url.PathEscape(vendorID),
		Query:  f.Query(),
	})
}

func (a *API) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	page, err := a.productPage(ctx, Request{
		Method: http.MethodGet,
		Path:   "/products/search",
		Query:  url.Values{"query": {query}},
	})
	if err != nil {
		return nil, err
	}
	return page.Products, nil
}

func (a *API) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	return a.product(ctx, post("/products", in))
}

func (a *API) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	return a.product(ctx, put("/products/edit/"+url.PathEscape(id), in))
}

func (a *API) DeleteProduct(ctx context.Context, id string) error {
	return a.call(ctx, del("/products/delete/"+url.PathEscape(id)), nil)
}

func (a *API) UpdateInventory(ctx context.Context, id string, in models.InventoryUpdate) error {
	return a.call(ctx, put("/products/"+url.PathEscape(id)+"/inventory", in), nil)
}

func (a *API) product(ctx context.Context, r Request) (*models.Product, error) {
	body, err := a.raw(ctx, r)
	if err != nil {
		return nil, err
	}
	var p models.Product
	if err := decodeField(body, "product", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}
