// Package models defines the records vendordesk exchanges with the vendor
// backend. They are caches of server state; nothing here is authoritative.
package models

import "time"

// Tokens is the credential pair held in token storage.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// IsZero reports whether neither token is present.
func (t Tokens) IsZero() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// VendorSummary is the vendor block embedded in the authenticated user.
type VendorSummary struct {
	ID                       string `json:"id"`
	StoreName                string `json:"storeName"`
	Slug                     string `json:"slug"`
	Logo                     string `json:"logo,omitempty"`
	Banner                   string `json:"banner,omitempty"`
	VerificationStatus       string `json:"verificationStatus"`
	StripeAccountID          string `json:"stripeAccountId,omitempty"`
	StripeAccountStatus      string `json:"stripeAccountStatus,omitempty"`
	StripeOnboardingComplete bool   `json:"stripeOnboardingComplete,omitempty"`
}

type User struct {
	ID              string         `json:"id"`
	Email           string         `json:"email"`
	Name            string         `json:"name,omitempty"`
	Role            string         `json:"role"`
	IsVerified      bool           `json:"isVerified"`
	ProfileImageURL string         `json:"profileImageUrl,omitempty"`
	Vendor          *VendorSummary `json:"vendor,omitempty"`
}

// VendorID returns the id of the embedded vendor, or "" for users that have
// not finished onboarding.
func (u *User) VendorID() string {
	if u == nil || u.Vendor == nil {
		return ""
	}
	return u.Vendor.ID
}

// StripeConnectRef is the Connect block some auth endpoints return.
type StripeConnectRef struct {
	AccountID      string `json:"accountId"`
	AccountLinkURL string `json:"accountLinkUrl"`
}

// AuthResponse is the union of fields returned by the auth endpoints.
// Which fields are set depends on the endpoint and on whether a second
// verification step is required.
type AuthResponse struct {
	Success           bool              `json:"success,omitempty"`
	Message           string            `json:"message,omitempty"`
	AccessToken       string            `json:"accessToken,omitempty"`
	RefreshToken      string            `json:"refreshToken,omitempty"`
	User              *User             `json:"user,omitempty"`
	RequireOTP        bool              `json:"requireOTP,omitempty"`
	OTPEmail          string            `json:"otpEmail,omitempty"`
	RegistrationID    string            `json:"registrationId,omitempty"`
	RequiresTwoFactor bool              `json:"requiresTwoFactor,omitempty"`
	StripeConnect     *StripeConnectRef `json:"stripeConnect,omitempty"`
}

// Tokens extracts the credential pair from the response.
func (r *AuthResponse) Tokens() Tokens {
	return Tokens{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type ProfileInput struct {
	Name              string `json:"name,omitempty"`
	FirstName         string `json:"firstName,omitempty"`
	LastName          string `json:"lastName,omitempty"`
	Phone             string `json:"phone,omitempty"`
	PreferredLanguage string `json:"preferredLanguage,omitempty"`
	PreferredCurrency string `json:"preferredCurrency,omitempty"`
}

// AuthSession is one signed-in device as listed by /auth/sessions.
type AuthSession struct {
	ID           string    `json:"id"`
	UserAgent    string    `json:"userAgent,omitempty"`
	IPAddress    string    `json:"ipAddress,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActiveAt time.Time `json:"lastActiveAt,omitempty"`
	Current      bool      `json:"current,omitempty"`
}

// OTPPurpose tells which flow a pending one-time code belongs to.
type OTPPurpose string

const (
	OTPPurposeNone     OTPPurpose = ""
	OTPPurposeLogin    OTPPurpose = "login"
	OTPPurposeRegister OTPPurpose = "register"
)
