package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/client/storage"
	"github.com/dmitrijs2005/vendordesk/internal/common"
)

// Auth is the session as the client sees it.
type Auth struct {
	User            *models.User `json:"user,omitempty"`
	IsAuthenticated bool         `json:"isAuthenticated"`

	// Pending second step of login or registration.
	RequireOTP        bool              `json:"requireOTP,omitempty"`
	OTPEmail          string            `json:"otpEmail,omitempty"`
	OTPPurpose        models.OTPPurpose `json:"otpPurpose,omitempty"`
	RegistrationID    string            `json:"registrationId,omitempty"`
	RequiresTwoFactor bool              `json:"requiresTwoFactor,omitempty"`
	RememberMe        bool              `json:"rememberMe,omitempty"`

	StripeConnect *models.StripeConnectData `json:"stripeConnectData,omitempty"`
	Sessions      []models.AuthSession      `json:"-"`

	Loading bool   `json:"-"`
	Error   string `json:"-"`
}

// ClearOTP drops any pending verification step.
func (a *Auth) ClearOTP() {
	a.RequireOTP = false
	a.OTPEmail = ""
	a.OTPPurpose = models.OTPPurposeNone
	a.RegistrationID = ""
	a.RequiresTwoFactor = false
}

// Reset returns to the signed-out state.
func (a *Auth) Reset() {
	*a = Auth{}
}

// SetUser stores a private copy of u so later edits do not leak into
// snapshots handed out earlier.
func (a *Auth) SetUser(u *models.User) {
	if u == nil {
		a.User = nil
		return
	}
	cp := *u
	if u.Vendor != nil {
		v := *u.Vendor
		cp.Vendor = &v
	}
	a.User = &cp
}

// EditUser copies the user before fn mutates it. It is a no-op when signed
// out.
func (a *Auth) EditUser(fn func(u *models.User)) {
	if a.User == nil {
		return
	}
	a.SetUser(a.User)
	fn(a.User)
}

// EditVendor is EditUser for the embedded vendor summary.
func (a *Auth) EditVendor(fn func(v *models.VendorSummary)) {
	a.EditUser(func(u *models.User) {
		if u.Vendor != nil {
			fn(u.Vendor)
		}
	})
}

type AuthStore = Store[Auth]

func NewAuthStore() *AuthStore {
	return New(Auth{})
}

// SaveAuth writes the persistent part of a under common.AuthStateKey.
func SaveAuth(ctx context.Context, s storage.Store, a Auth) error {
	b, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode auth state: %w", err)
	}
	return s.Set(ctx, common.AuthStateKey, b)
}

// LoadAuth reads the snapshot written by SaveAuth. A missing snapshot is the
// zero Auth.
func LoadAuth(ctx context.Context, s storage.Store) (Auth, error) {
	var a Auth
	b, err := s.Get(ctx, common.AuthStateKey)
	if err != nil || len(b) == 0 {
		return a, err
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return Auth{}, fmt.Errorf("decode auth state: %w", err)
	}
	return a, nil
}
