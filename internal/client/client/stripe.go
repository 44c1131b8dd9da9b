package client

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/vendordesk/internal/client/models"
)

func connectPath(kind, vendorID string) string {
	return "/stripe/connect/" + kind + "/" + url.PathEscape(vendorID)
}

func (a *API) CreateConnectAccount(ctx context.Context, vendorID string, accountType models.StripeAccountType) (*models.ConnectAccountResponse, error) {
	if accountType == "" {
		accountType = models.StripeAccountExpress
	}
	var r models.ConnectAccountResponse
	err := a.call(ctx, post(connectPath("accounts", vendorID), map[string]string{"accountType": string(accountType)}), &r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (a *API) GetAccountStatus(ctx context.Context, vendorID string) (*models.StripeAccountStatus, error) {
	st := models.DefaultStripeAccountStatus()
	if err := a.call(ctx, get(connectPath("accounts", vendorID)), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (a *API) GetOnboardingLink(ctx context.Context, vendorID string) (*models.ConnectAccountResponse, error) {
	var r models.ConnectAccountResponse
	if err := a.call(ctx, post(connectPath("account-links", vendorID), nil), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateDirectLink asks for a hosted onboarding link that creates the account
// on the Stripe side if needed.
func (a *API) CreateDirectLink(ctx context.Context, vendorID string) (*models.ConnectAccountResponse, error) {
	var r models.ConnectAccountResponse
	if err := a.call(ctx, post(connectPath("direct-link", vendorID), nil), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (a *API) UpdatePayoutSchedule(ctx context.Context, vendorID string, s models.PayoutSchedule) error {
	return a.call(ctx, patch(connectPath("payout-schedule", vendorID), s), nil)
}

func (a *API) DisconnectAccount(ctx context.Context, vendorID string) error {
	return a.call(ctx, del(connectPath("accounts", vendorID)), nil)
}
