package models

import "time"

type BusinessType string

const (
	BusinessIndividual  BusinessType = "INDIVIDUAL"
	BusinessPartnership BusinessType = "PARTNERSHIP"
	BusinessCorporation BusinessType = "CORPORATION"
	BusinessLLC         BusinessType = "LLC"
	BusinessNonProfit   BusinessType = "NON_PROFIT"
)

// Valid reports whether t is one of the business types the backend accepts.
func (t BusinessType) Valid() bool {
	switch t {
	case BusinessIndividual, BusinessPartnership, BusinessCorporation, BusinessLLC, BusinessNonProfit:
		return true
	}
	return false
}

type StripeAccountType string

const (
	StripeAccountExpress  StripeAccountType = "EXPRESS"
	StripeAccountStandard StripeAccountType = "STANDARD"
	StripeAccountCustom   StripeAccountType = "CUSTOM"
)

type BusinessAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// VendorProfileInput is the payload of /auth/vendor/create-profile, collected
// by the onboarding wizard.
type VendorProfileInput struct {
	StoreName             string            `json:"storeName"`
	Description           string            `json:"description"`
	ShortDescription      string            `json:"shortDescription,omitempty"`
	BusinessAddress       BusinessAddress   `json:"businessAddress"`
	BusinessType          BusinessType      `json:"businessType"`
	ProcessingTime        string            `json:"processingTime,omitempty"`
	MinOrderAmount        *float64          `json:"minOrderAmount,omitempty"`
	FreeShippingThreshold *float64          `json:"freeShippingThreshold,omitempty"`
	Tags                  []string          `json:"tags,omitempty"`
	StripeAccountType     StripeAccountType `json:"stripeAccountType,omitempty"`
}

// VendorProfile is the full vendor record served by the account endpoints.
type VendorProfile struct {
	ID                 string           `json:"id"`
	UserID             string           `json:"userId"`
	StoreName          string           `json:"storeName"`
	Slug               string           `json:"slug"`
	Description        string           `json:"description,omitempty"`
	ShortDescription   string           `json:"shortDescription,omitempty"`
	Logo               string           `json:"logo,omitempty"`
	Banner             string           `json:"banner,omitempty"`
	CoverImage         string           `json:"coverImage,omitempty"`
	ContactEmail       string           `json:"contactEmail"`
	ContactPhone       string           `json:"contactPhone,omitempty"`
	BusinessAddress    *BusinessAddress `json:"businessAddress,omitempty"`
	BusinessType       BusinessType     `json:"businessType,omitempty"`
	VerificationStatus string           `json:"verificationStatus"`
	IsActive           bool             `json:"isActive"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

// VendorProfileUpdate carries the editable subset of VendorProfile; nil
// fields are left untouched by the backend.
type VendorProfileUpdate struct {
	StoreName        *string          `json:"storeName,omitempty"`
	Description      *string          `json:"description,omitempty"`
	ShortDescription *string          `json:"shortDescription,omitempty"`
	ContactEmail     *string          `json:"contactEmail,omitempty"`
	ContactPhone     *string          `json:"contactPhone,omitempty"`
	BusinessAddress  *BusinessAddress `json:"businessAddress,omitempty"`
	BusinessType     *BusinessType    `json:"businessType,omitempty"`
}

type UserProfile struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name,omitempty"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	Phone           string `json:"phone,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	IsVerified      bool   `json:"isVerified"`
}

// ImageKind selects one of the account image upload endpoints.
type ImageKind string

const (
	ImageVendorLogo   ImageKind = "logo"
	ImageVendorBanner ImageKind = "banner"
	ImageVendorCover  ImageKind = "cover"
	ImageProfile      ImageKind = "profile"
)
