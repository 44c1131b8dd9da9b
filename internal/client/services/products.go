package services

import (
	"context"

	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/client/state"
	"github.com/dmitrijs2005/vendordesk/internal/common"
	"github.com/dmitrijs2005/vendordesk/internal/logging"
)

const (
	DefaultFeaturedLimit = 8
	DefaultRelatedLimit  = 4
)

type ProductAPI interface {
	ListProducts(ctx context.Context, f models.ProductFilters) (*models.ProductPage, error)
	FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error)
	GetVendorDashboardProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	RelatedProducts(ctx context.Context, id string, limit int) ([]models.Product, error)
	VendorProducts(ctx context.Context, vendorID string, f models.ProductFilters) (*models.ProductPage, error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	UpdateInventory(ctx context.Context, id string, in models.InventoryUpdate) error
}

// ProductService keeps the local catalog view in step with the backend.
type ProductService struct {
	api   ProductAPI
	state *state.Store[state.Products]
	auth  *state.AuthStore
	log   logging.Logger
}

func NewProductService(api ProductAPI, st *state.Store[state.Products], auth *state.AuthStore, log logging.Logger) *ProductService {
	return &ProductService{api: api, state: st, auth: auth, log: log}
}

func (s *ProductService) State() state.Products {
	return s.state.Get()
}

func (s *ProductService) begin() {
	s.state.Update(func(p *state.Products) {
		p.Loading = true
		p.Error = ""
	})
}

func (s *ProductService) fail(err error, fallback string) error {
	msg := userMessage(err, fallback)
	s.state.Update(func(p *state.Products) {
		p.Loading = false
		p.Error = msg
	})
	return err
}

func (s *ProductService) applyPage(page *models.ProductPage, filters models.ProductFilters) {
	s.state.Update(func(p *state.Products) {
		p.Products = page.Products
		p.Total = page.Total
		p.Pages = page.Pages
		p.Page = page.Page
		if p.Page == 0 {
			p.Page = filters.Page
		}
		p.Loading = false
	})
}

// FetchProducts lists products using f merged over the stored filters. The
// merged filters become the stored ones.
func (s *ProductService) FetchProducts(ctx context.Context, f models.ProductFilters) (*models.ProductPage, error) {
	var merged models.ProductFilters
	s.state.Update(func(p *state.Products) {
		merged = p.Filters.Merge(f)
		p.Filters = merged
		p.Loading = true
		p.Error = ""
	})

	page, err := s.api.ListProducts(ctx, merged)
	if err != nil {
		return nil, s.fail(err, "Failed to fetch products")
	}
	s.applyPage(page, merged)
	return page, nil
}

// FetchVendorProducts lists one vendor's products; an empty vendorID means
// the signed-in vendor.
func (s *ProductService) FetchVendorProducts(ctx context.Context, vendorID string, f models.ProductFilters) (*models.ProductPage, error) {
	if vendorID == "" {
		vendorID = s.auth.Get().User.VendorID()
	}
	if vendorID == "" {
		return nil, s.fail(common.ErrVendorIDRequired, "Vendor ID is required")
	}

	var merged models.ProductFilters
	s.state.Update(func(p *state.Products) {
		merged = p.Filters.Merge(f)
		p.Filters = merged
		p.Loading = true
		p.Error = ""
	})

	page, err := s.api.VendorProducts(ctx, vendorID, merged)
	if err != nil {
		return nil, s.fail(err, "Failed to fetch vendor products")
	}
	s.applyPage(page, merged)
	return page, nil
}

func (s *ProductService) FetchFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	s.begin()
	list, err := s.api.FeaturedProducts(ctx, limit)
	if err != nil {
		return nil, s.fail(err, "Failed to fetch featured products")
	}
	s.state.Update(func(p *state.Products) {
		p.Featured = list
		p.Loading = false
	})
	return list, nil
}

// FetchByID loads the vendor dashboard view of a product.
func (s *ProductService) FetchByID(ctx context.Context, id string) (*models.Product, error) {
	s.begin()
	prod, err := s.api.GetVendorDashboardProduct(ctx, id)
	if err != nil {
		return nil, s.fail(err, "Failed to fetch product")
	}
	s.setCurrent(prod)
	return prod, nil
}

func (s *ProductService) FetchBySlug(ctx context.Context, slug string) (*models.Product, error) {
	s.begin()
	prod, err := s.api.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, s.fail(err, "Failed to fetch product")
	}
	s.setCurrent(prod)
	return prod, nil
}

func (s *ProductService) setCurrent(prod *models.Product) {
	s.state.Update(func(p *state.Products) {
		p.Current = prod
		p.Loading = false
	})
}

func (s *ProductService) FetchRelated(ctx context.Context, id string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	s.begin()
	list, err := s.api.RelatedProducts(ctx, id, limit)
	if err != nil {
		return nil, s.fail(err, "Failed to fetch related products")
	}
	s.state.Update(func(p *state.Products) {
		p.Related = list
		p.Loading = false
	})
	return list, nil
}

func (s *ProductService) Search(ctx context.Context, query string) ([]models.Product, error) {
	var merged models.ProductFilters
	s.state.Update(func(p *state.Products) {
		p.Filters.Search = query
		merged = p.Filters
		p.Loading = true
		p.Error = ""
	})

	list, err := s.api.SearchProducts(ctx, query)
	if err != nil {
		return nil, s.fail(err, "Failed to search products")
	}
	s.applyPage(&models.ProductPage{Products: list, Total: len(list), Pages: 1, Page: 1}, merged)
	return list, nil
}

func (s *ProductService) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	s.begin()
	prod, err := s.api.CreateProduct(ctx, in)
	if err != nil {
		return nil, s.fail(err, "Failed to create product")
	}
	s.state.Update(func(p *state.Products) {
		p.Products = append([]models.Product{*prod}, p.Products...)
		p.Total++
		p.Current = prod
		p.Loading = false
	})
	return prod, nil
}

func (s *ProductService) Update(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	s.begin()
	prod, err := s.api.UpdateProduct(ctx, id, in)
	if err != nil {
		return nil, s.fail(err, "Failed to update product")
	}
	if prod.ID == "" {
		prod.ID = id
	}
	s.state.Update(func(p *state.Products) {
		p.Replace(*prod)
		p.Loading = false
	})
	return prod, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	s.begin()
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return s.fail(err, "Failed to delete product")
	}
	s.state.Update(func(p *state.Products) {
		p.Remove(id)
		p.Loading = false
	})
	return nil
}

// UpdateInventory sets the stock of a product and, optionally, of some of its
// variants.
func (s *ProductService) UpdateInventory(ctx context.Context, id string, inventory int, variants map[string]int) error {
	s.begin()
	err := s.api.UpdateInventory(ctx, id, models.InventoryUpdate{Inventory: inventory, VariantInventory: variants})
	if err != nil {
		return s.fail(err, "Failed to update inventory")
	}

	s.state.Update(func(p *state.Products) {
		for i := range p.Products {
			if p.Products[i].ID == id {
				updated := cloneProduct(p.Products[i])
				updated.ApplyInventory(inventory, variants)
				p.Replace(updated)
				break
			}
		}
		if p.Current != nil && p.Current.ID == id {
			updated := cloneProduct(*p.Current)
			updated.ApplyInventory(inventory, variants)
			p.Current = &updated
		}
		p.Loading = false
	})
	return nil
}

func cloneProduct(p models.Product) models.Product {
	p.Variants = append([]models.ProductVariant(nil), p.Variants...)
	return p
}

func (s *ProductService) SetFilters(f models.ProductFilters) {
	s.state.Update(func(p *state.Products) { p.Filters = p.Filters.Merge(f) })
}

func (s *ProductService) ResetFilters() {
	s.state.Update(func(p *state.Products) { p.Filters = models.DefaultProductFilters() })
}

func (s *ProductService) ClearErrors() {
	s.state.Update(func(p *state.Products) { p.Error = "" })
}

func (s *ProductService) SetCurrent(prod *models.Product) {
	s.state.Update(func(p *state.Products) { p.Current = prod })
}
