package state

import (
	"slices"

	"github.com/dmitrijs2005/vendordesk/internal/client/models"
)

// Products is the catalog view.
type Products struct {
	Products []models.Product
	Featured []models.Product
	Related  []models.Product
	Current  *models.Product
	Total    int
	Pages    int
	Page     int
	Filters  models.ProductFilters
	Loading  bool
	Error    string
}

func NewProductsStore() *Store[Products] {
	return New(Products{Filters: models.DefaultProductFilters(), Page: 1})
}

// Replace swaps p into every list that holds a product with the same id.
// Lists are copied first so earlier snapshots keep their contents.
func (s *Products) Replace(p models.Product) {
	s.Products = replaceIn(s.Products, p)
	s.Featured = replaceIn(s.Featured, p)
	s.Related = replaceIn(s.Related, p)
	if s.Current != nil && s.Current.ID == p.ID {
		cp := p
		s.Current = &cp
	}
}

func replaceIn(list []models.Product, p models.Product) []models.Product {
	if list == nil {
		return nil
	}
	out := slices.Clone(list)
	for i := range out {
		if out[i].ID == p.ID {
			out[i] = p
		}
	}
	return out
}

// Remove drops the product with id from every list.
func (s *Products) Remove(id string) {
	drop := func(in []models.Product) []models.Product {
		out := in[:0:0]
		for _, p := range in {
			if p.ID != id {
				out = append(out, p)
			}
		}
		return out
	}
	before := len(s.Products)
	s.Products = drop(s.Products)
	s.Featured = drop(s.Featured)
	s.Related = drop(s.Related)
	if len(s.Products) < before && s.Total > 0 {
		s.Total--
	}
	if s.Current != nil && s.Current.ID == id {
		s.Current = nil
	}
}

// Account is the vendor and user profile view.
type Account struct {
	Vendor  *models.VendorProfile
	User    *models.UserProfile
	Loading bool
	Error   string
	Success string
}

func NewAccountStore() *Store[Account] {
	return New(Account{})
}

// Stripe is the Connect onboarding view.
type Stripe struct {
	Status        models.StripeAccountStatus
	OnboardingURL string
	Loading       bool
	Error         string
}

func NewStripeStore() *Store[Stripe] {
	return New(Stripe{Status: models.DefaultStripeAccountStatus()})
}
