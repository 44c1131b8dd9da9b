package flows

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/common"
)

type OnboardingStep int

const (
	StepStoreBasics OnboardingStep = iota
	StepBusinessDetails
	StepPaymentConnection
)

var onboardingLabels = [...]string{"Store Basics", "Business Details", "Connect Bank"}

func (s OnboardingStep) String() string {
	if s >= 0 && int(s) < len(onboardingLabels) {
		return onboardingLabels[s]
	}
	return fmt.Sprintf("step %d", int(s))
}

// VendorCreator is the part of services.AuthService the wizard needs.
type VendorCreator interface {
	CreateVendorProfile(ctx context.Context, in models.VendorProfileInput) (*models.AuthResponse, error)
}

// StripeConnector is the part of services.StripeService the wizard needs.
type StripeConnector interface {
	CreateConnectAccount(ctx context.Context, accountType models.StripeAccountType) (*models.ConnectAccountResponse, error)
	GetOnboardingLink(ctx context.Context) (string, error)
	HandleRedirect(ctx context.Context, mode models.SetupMode) error
}

// Onboarding is the three-step vendor onboarding wizard. Form is edited
// freely between calls; moving back never clears it.
type Onboarding struct {
	Form models.VendorProfileInput

	vendors VendorCreator
	stripe  StripeConnector

	step           OnboardingStep
	profileCreated bool
	completed      bool
}

func NewOnboarding(vendors VendorCreator, stripe StripeConnector) *Onboarding {
	return &Onboarding{
		vendors: vendors,
		stripe:  stripe,
		Form:    models.VendorProfileInput{StripeAccountType: models.StripeAccountExpress},
	}
}

func (o *Onboarding) Step() OnboardingStep { return o.step }

// ProfileCreated reports whether the vendor profile has been submitted.
func (o *Onboarding) ProfileCreated() bool { return o.profileCreated }

// Completed reports whether Stripe onboarding finished.
func (o *Onboarding) Completed() bool { return o.completed }

// Next validates the current step and advances. Leaving BusinessDetails
// submits the vendor profile once; later passes reuse it.
func (o *Onboarding) Next(ctx context.Context) error {
	switch o.step {
	case StepStoreBasics:
		if err := ValidateStoreBasics(o.Form); err != nil {
			return err
		}
		o.step = StepBusinessDetails
		return nil

	case StepBusinessDetails:
		if err := ValidateBusinessDetails(o.Form); err != nil {
			return err
		}
		if !o.profileCreated {
			if _, err := o.vendors.CreateVendorProfile(ctx, o.Form); err != nil {
				return fmt.Errorf("create vendor profile: %w", err)
			}
			o.profileCreated = true
		}
		o.step = StepPaymentConnection
		return nil
	}
	return ErrWrongStep
}

// Back moves to the previous step.
func (o *Onboarding) Back() {
	if o.step > StepStoreBasics {
		o.step--
	}
}

// Connect creates the Connect account and fetches the hosted onboarding
// link. A non-empty URL must be opened by the user and its return handed to
// HandleReturn; an empty URL means onboarding completed in place.
func (o *Onboarding) Connect(ctx context.Context) (string, error) {
	if o.step != StepPaymentConnection {
		return "", ErrWrongStep
	}

	if _, err := o.stripe.CreateConnectAccount(ctx, o.Form.StripeAccountType); err != nil {
		return "", fmt.Errorf("create connect account: %w", err)
	}
	url, err := o.stripe.GetOnboardingLink(ctx)
	if err != nil {
		return "", fmt.Errorf("get onboarding link: %w", err)
	}
	if url == "" {
		o.completed = true
	}
	return url, nil
}

// HandleReturn interprets the setup_mode the hosted flow returned with.
func (o *Onboarding) HandleReturn(ctx context.Context, setupMode string) error {
	mode, err := ParseSetupMode(setupMode)
	if err != nil {
		return err
	}
	if err := o.stripe.HandleRedirect(ctx, mode); err != nil {
		return err
	}
	if mode == models.SetupComplete {
		o.completed = true
	}
	return nil
}

// ParseSetupMode accepts complete and canceled.
func ParseSetupMode(s string) (models.SetupMode, error) {
	m := models.SetupMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case models.SetupComplete, models.SetupCanceled:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown setup_mode %q", common.ErrValidation, s)
}

func minLen(errs FieldErrors, field, value string, n int, msg string) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
		errs[field] = msg
	}
}

// ValidateStoreBasics checks the fields of the first step.
func ValidateStoreBasics(in models.VendorProfileInput) error {
	errs := FieldErrors{}
	minLen(errs, "storeName", in.StoreName, 3, "Store name must be at least 3 characters")
	minLen(errs, "description", in.Description, 20, "Description must be at least 20 characters")
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateBusinessDetails checks the business type and address.
func ValidateBusinessDetails(in models.VendorProfileInput) error {
	errs := FieldErrors{}
	if !in.BusinessType.Valid() {
		errs["businessType"] = "Please select a business type"
	}
	a := in.BusinessAddress
	minLen(errs, "businessAddress.street", a.Street, 3, "Street is required")
	minLen(errs, "businessAddress.city", a.City, 2, "City is required")
	minLen(errs, "businessAddress.state", a.State, 2, "State is required")
	minLen(errs, "businessAddress.postalCode", a.PostalCode, 3, "Postal code is required")
	minLen(errs, "businessAddress.country", a.Country, 2, "Country is required")
	if len(errs) > 0 {
		return errs
	}
	return nil
}
