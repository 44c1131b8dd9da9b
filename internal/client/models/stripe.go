package models

import (
	"fmt"
	"strings"
)

// StripeAccountStatus mirrors GET /stripe/connect/accounts/{vendorId}.
type StripeAccountStatus struct {
	StripeAccountID  string `json:"stripeAccountId,omitempty"`
	Status           string `json:"status,omitempty"`
	DetailsSubmitted bool   `json:"detailsSubmitted"`
	PayoutsEnabled   bool   `json:"payoutsEnabled"`
	ChargesEnabled   bool   `json:"chargesEnabled"`
	IsTestMode       bool   `json:"isTestMode"`
}

// DefaultStripeAccountStatus is the state before any account exists.
func DefaultStripeAccountStatus() StripeAccountStatus {
	return StripeAccountStatus{IsTestMode: true}
}

// StripeConnectData is the locally cached result of creating a Connect
// account.
type StripeConnectData struct {
	AccountID          string `json:"accountId,omitempty"`
	AccountLinkURL     string `json:"accountLinkUrl,omitempty"`
	AccountStatus      string `json:"accountStatus,omitempty"`
	OnboardingComplete bool   `json:"onboardingComplete"`
}

// ConnectAccountResponse is returned when a Connect account is created or an
// account link is requested.
type ConnectAccountResponse struct {
	AccountID      string `json:"accountId,omitempty"`
	AccountLinkURL string `json:"accountLinkUrl,omitempty"`
	URL            string `json:"url,omitempty"`
	IsTestMode     bool   `json:"isTestMode,omitempty"`
}

// Link returns the hosted onboarding URL. Some endpoints name it "url".
func (r *ConnectAccountResponse) Link() string {
	if r.AccountLinkURL != "" {
		return r.AccountLinkURL
	}
	return r.URL
}

// OnboardingComplete reports whether Stripe considers the account usable.
func (s StripeAccountStatus) OnboardingComplete() bool {
	return s.DetailsSubmitted && s.PayoutsEnabled && s.ChargesEnabled
}

type PayoutInterval string

const (
	PayoutDaily   PayoutInterval = "daily"
	PayoutWeekly  PayoutInterval = "weekly"
	PayoutMonthly PayoutInterval = "monthly"
	PayoutManual  PayoutInterval = "manual"
)

// ParsePayoutInterval normalises s to lower case and checks it against the
// intervals Stripe supports.
func ParsePayoutInterval(s string) (PayoutInterval, error) {
	p := PayoutInterval(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PayoutDaily, PayoutWeekly, PayoutMonthly, PayoutManual:
		return p, nil
	}
	return "", fmt.Errorf("invalid schedule %q: must be one of daily, weekly, monthly, manual", s)
}

type PayoutSchedule struct {
	Schedule      PayoutInterval `json:"schedule"`
	MinimumAmount *float64       `json:"minimumAmount,omitempty"`
}

// SetupMode is the setup_mode query value the hosted onboarding flow returns
// with.
type SetupMode string

const (
	SetupComplete SetupMode = "complete"
	SetupCanceled SetupMode = "canceled"
)
