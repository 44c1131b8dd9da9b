package services

import (
	"context"

	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/client/state"
	"github.com/dmitrijs2005/vendordesk/internal/logging"
)

type AccountAPI interface {
	GetVendorProfile(ctx context.Context) (*models.VendorProfile, error)
	UpdateVendorProfile(ctx context.Context, in models.VendorProfileUpdate) (*models.VendorProfile, error)
	DeleteVendorAccount(ctx context.Context) error
	UploadImage(ctx context.Context, kind models.ImageKind, fileName string, content []byte) (string, error)
	UpdateUserProfile(ctx context.Context, in models.ProfileInput) (*models.User, error)
}

// AccountService manages the vendor and user profiles. Successful edits are
// also merged into the signed-in user so other views see them at once.
type AccountService struct {
	api   AccountAPI
	state *state.Store[state.Account]
	auth  *state.AuthStore
	log   logging.Logger
}

func NewAccountService(api AccountAPI, st *state.Store[state.Account], auth *state.AuthStore, log logging.Logger) *AccountService {
	return &AccountService{api: api, state: st, auth: auth, log: log}
}

func (s *AccountService) State() state.Account {
	return s.state.Get()
}

func (s *AccountService) begin() {
	s.state.Update(func(a *state.Account) {
		a.Loading = true
		a.Error = ""
		a.Success = ""
	})
}

func (s *AccountService) fail(err error, fallback string) error {
	msg := userMessage(err, fallback)
	s.state.Update(func(a *state.Account) {
		a.Loading = false
		a.Error = msg
	})
	return err
}

func (s *AccountService) FetchVendorProfile(ctx context.Context) (*models.VendorProfile, error) {
	s.begin()
	p, err := s.api.GetVendorProfile(ctx)
	if err != nil {
		return nil, s.fail(err, "Failed to fetch vendor profile")
	}
	s.state.Update(func(a *state.Account) {
		a.Vendor = p
		a.Loading = false
	})
	return p, nil
}

func (s *AccountService) UpdateVendorProfile(ctx context.Context, in models.VendorProfileUpdate) (*models.VendorProfile, error) {
	s.begin()
	p, err := s.api.UpdateVendorProfile(ctx, in)
	if err != nil {
		return nil, s.fail(err, "Failed to update vendor profile")
	}
	s.state.Update(func(a *state.Account) {
		a.Vendor = p
		a.Loading = false
		a.Success = "Profile updated successfully"
	})
	if in.StoreName != nil {
		s.auth.Update(func(a *state.Auth) {
			a.EditVendor(func(v *models.VendorSummary) { v.StoreName = *in.StoreName })
		})
	}
	return p, nil
}

func (s *AccountService) DeleteVendorAccount(ctx context.Context) error {
	s.begin()
	if err := s.api.DeleteVendorAccount(ctx); err != nil {
		return s.fail(err, "Failed to delete vendor account")
	}
	s.state.Update(func(a *state.Account) {
		a.Vendor = nil
		a.Loading = false
		a.Success = "Vendor account deleted"
	})
	s.auth.Update(func(a *state.Auth) {
		a.EditUser(func(u *models.User) { u.Vendor = nil })
	})
	return nil
}

// UploadImage stores a logo, banner, cover or profile picture and returns
// its URL.
func (s *AccountService) UploadImage(ctx context.Context, kind models.ImageKind, fileName string, content []byte) (string, error) {
	s.begin()
	url, err := s.api.UploadImage(ctx, kind, fileName, content)
	if err != nil {
		return "", s.fail(err, "Failed to upload "+string(kind)+" image")
	}

	s.state.Update(func(a *state.Account) {
		a.Loading = false
		a.Success = "Image uploaded successfully"
		switch kind {
		case models.ImageProfile:
			if a.User != nil {
				u := *a.User
				u.ProfileImageURL = url
				a.User = &u
			}
			return
		}
		if a.Vendor == nil {
			return
		}
		v := *a.Vendor
		switch kind {
		case models.ImageVendorLogo:
			v.Logo = url
		case models.ImageVendorBanner:
			v.Banner = url
		case models.ImageVendorCover:
			v.CoverImage = url
		}
		a.Vendor = &v
	})

	s.auth.Update(func(a *state.Auth) {
		switch kind {
		case models.ImageProfile:
			a.EditUser(func(u *models.User) { u.ProfileImageURL = url })
		case models.ImageVendorLogo:
			a.EditVendor(func(v *models.VendorSummary) { v.Logo = url })
		case models.ImageVendorBanner, models.ImageVendorCover:
			a.EditVendor(func(v *models.VendorSummary) { v.Banner = url })
		}
	})
	return url, nil
}

func (s *AccountService) UpdateUserProfile(ctx context.Context, in models.ProfileInput) (*models.User, error) {
	s.begin()
	u, err := s.api.UpdateUserProfile(ctx, in)
	if err != nil {
		return nil, s.fail(err, "Failed to update user profile")
	}

	s.state.Update(func(a *state.Account) {
		a.Loading = false
		a.Success = "Profile updated successfully"
		if a.User != nil && in.Name != "" {
			cp := *a.User
			cp.Name = in.Name
			a.User = &cp
		}
	})
	s.auth.Update(func(a *state.Auth) {
		a.EditUser(func(cur *models.User) {
			if u.Name != "" {
				cur.Name = u.Name
			} else if in.Name != "" {
				cur.Name = in.Name
			}
			if u.ProfileImageURL != "" {
				cur.ProfileImageURL = u.ProfileImageURL
			}
		})
	})
	return u, nil
}
