package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/client/state"
	"github.com/dmitrijs2005/vendordesk/internal/common"
	"github.com/dmitrijs2005/vendordesk/internal/logging"
)

// SetupCanceledMessage is recorded when the hosted onboarding returns with
// setup_mode=canceled.
const SetupCanceledMessage = "Stripe account setup was canceled. You can try again."

type StripeAPI interface {
	CreateConnectAccount(ctx context.Context, vendorID string, accountType models.StripeAccountType) (*models.ConnectAccountResponse, error)
	GetAccountStatus(ctx context.Context, vendorID string) (*models.StripeAccountStatus, error)
	GetOnboardingLink(ctx context.Context, vendorID string) (*models.ConnectAccountResponse, error)
	CreateDirectLink(ctx context.Context, vendorID string) (*models.ConnectAccountResponse, error)
	UpdatePayoutSchedule(ctx context.Context, vendorID string, s models.PayoutSchedule) error
	DisconnectAccount(ctx context.Context, vendorID string) error
}

// StripeService runs Stripe Connect onboarding for the signed-in vendor.
type StripeService struct {
	api   StripeAPI
	state *state.Store[state.Stripe]
	auth  *state.AuthStore
	log   logging.Logger
}

func NewStripeService(api StripeAPI, st *state.Store[state.Stripe], auth *state.AuthStore, log logging.Logger) *StripeService {
	return &StripeService{api: api, state: st, auth: auth, log: log}
}

func (s *StripeService) State() state.Stripe {
	return s.state.Get()
}

func (s *StripeService) begin() {
	s.state.Update(func(st *state.Stripe) {
		st.Loading = true
		st.Error = ""
	})
}

func (s *StripeService) fail(err error, fallback string) error {
	msg := userMessage(err, fallback)
	s.state.Update(func(st *state.Stripe) {
		st.Loading = false
		st.Error = msg
	})
	return err
}

func (s *StripeService) vendorID() (string, error) {
	id := s.auth.Get().User.VendorID()
	if id == "" {
		return "", s.fail(common.ErrVendorIDRequired, "Vendor ID is required")
	}
	return id, nil
}

// CreateConnectAccount opens a Connect account of accountType (EXPRESS when
// empty) and returns the onboarding link, if any.
func (s *StripeService) CreateConnectAccount(ctx context.Context, accountType models.StripeAccountType) (*models.ConnectAccountResponse, error) {
	vendorID, err := s.vendorID()
	if err != nil {
		return nil, err
	}
	if accountType == "" {
		accountType = models.StripeAccountExpress
	}

	s.begin()
	resp, err := s.api.CreateConnectAccount(ctx, vendorID, accountType)
	if err != nil {
		return nil, s.fail(err, "Failed to create Stripe Connect account")
	}

	s.state.Update(func(st *state.Stripe) {
		st.Status.StripeAccountID = resp.AccountID
		st.Status.IsTestMode = resp.IsTestMode
		st.OnboardingURL = resp.Link()
		st.Loading = false
	})
	s.auth.Update(func(a *state.Auth) {
		a.StripeConnect = &models.StripeConnectData{
			AccountID:      resp.AccountID,
			AccountLinkURL: resp.Link(),
			AccountStatus:  "PENDING",
		}
	})
	return resp, nil
}

// GetAccountStatus refreshes the Connect status. Without a vendor it does
// nothing and returns (nil, nil).
func (s *StripeService) GetAccountStatus(ctx context.Context) (*models.StripeAccountStatus, error) {
	vendorID := s.auth.Get().User.VendorID()
	if vendorID == "" {
		s.log.Debug(ctx, "no vendor id, skipping stripe status")
		return nil, nil
	}

	s.begin()
	st, err := s.api.GetAccountStatus(ctx, vendorID)
	if err != nil {
		return nil, s.fail(err, "Failed to get Stripe account status")
	}

	s.state.Update(func(cur *state.Stripe) {
		cur.Status = *st
		cur.Loading = false
	})
	complete := st.OnboardingComplete()
	s.auth.Update(func(a *state.Auth) {
		a.EditVendor(func(v *models.VendorSummary) {
			v.StripeAccountID = st.StripeAccountID
			v.StripeAccountStatus = st.Status
			v.StripeOnboardingComplete = complete
		})
		link := ""
		if a.StripeConnect != nil {
			link = a.StripeConnect.AccountLinkURL
		}
		a.StripeConnect = &models.StripeConnectData{
			AccountID:          st.StripeAccountID,
			AccountLinkURL:     link,
			AccountStatus:      st.Status,
			OnboardingComplete: complete,
		}
	})
	return st, nil
}

func (s *StripeService) GetOnboardingLink(ctx context.Context) (string, error) {
	return s.link(ctx, s.api.GetOnboardingLink, "Failed to get Stripe onboarding link")
}

// CreateDirectLink requests a hosted onboarding link that also creates the
// account if it does not exist yet.
func (s *StripeService) CreateDirectLink(ctx context.Context) (string, error) {
	return s.link(ctx, s.api.CreateDirectLink, "Failed to create Stripe onboarding link")
}

func (s *StripeService) link(ctx context.Context, call func(context.Context, string) (*models.ConnectAccountResponse, error), fallback string) (string, error) {
	vendorID, err := s.vendorID()
	if err != nil {
		return "", err
	}

	s.begin()
	resp, err := call(ctx, vendorID)
	if err != nil {
		return "", s.fail(err, fallback)
	}

	url := resp.Link()
	s.state.Update(func(st *state.Stripe) {
		st.OnboardingURL = url
		if resp.AccountID != "" {
			st.Status.StripeAccountID = resp.AccountID
		}
		st.Loading = false
	})
	s.auth.Update(func(a *state.Auth) {
		if a.StripeConnect == nil {
			a.StripeConnect = &models.StripeConnectData{AccountStatus: "PENDING"}
		} else {
			cp := *a.StripeConnect
			a.StripeConnect = &cp
		}
		a.StripeConnect.AccountLinkURL = url
		if resp.AccountID != "" {
			a.StripeConnect.AccountID = resp.AccountID
		}
	})
	return url, nil
}

// UpdatePayoutSchedule validates schedule before any request is made, then
// refreshes the account status.
func (s *StripeService) UpdatePayoutSchedule(ctx context.Context, schedule string, minimumAmount *float64) error {
	vendorID, err := s.vendorID()
	if err != nil {
		return err
	}

	interval, err := models.ParsePayoutInterval(schedule)
	if err != nil {
		s.state.Update(func(st *state.Stripe) {
			st.Error = "Invalid schedule. Must be one of: daily, weekly, monthly, manual"
		})
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	s.begin()
	err = s.api.UpdatePayoutSchedule(ctx, vendorID, models.PayoutSchedule{Schedule: interval, MinimumAmount: minimumAmount})
	if err != nil {
		return s.fail(err, "Failed to update payout schedule")
	}

	_, err = s.GetAccountStatus(ctx)
	return err
}

// Disconnect detaches the Connect account and forgets it locally.
func (s *StripeService) Disconnect(ctx context.Context) error {
	vendorID, err := s.vendorID()
	if err != nil {
		return err
	}

	s.begin()
	if err := s.api.DisconnectAccount(ctx, vendorID); err != nil {
		return s.fail(err, "Failed to disconnect Stripe account")
	}

	s.state.Set(state.Stripe{Status: models.DefaultStripeAccountStatus()})
	s.auth.Update(func(a *state.Auth) {
		a.EditVendor(func(v *models.VendorSummary) {
			v.StripeAccountID = ""
			v.StripeAccountStatus = ""
			v.StripeOnboardingComplete = false
		})
		a.StripeConnect = nil
	})
	return nil
}

// HandleRedirect interprets the setup_mode the hosted onboarding returned
// with.
func (s *StripeService) HandleRedirect(ctx context.Context, mode models.SetupMode) error {
	switch mode {
	case models.SetupComplete:
		_, err := s.GetAccountStatus(ctx)
		return err
	case models.SetupCanceled:
		s.state.Update(func(st *state.Stripe) {
			st.Error = SetupCanceledMessage
			st.OnboardingURL = ""
		})
		s.auth.Update(func(a *state.Auth) {
			if a.StripeConnect != nil {
				cp := *a.StripeConnect
				cp.AccountLinkURL = ""
				a.StripeConnect = &cp
			}
		})
		return nil
	}
	return fmt.Errorf("%w: unknown setup mode %q", common.ErrValidation, mode)
}
