package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vendordesk/internal/client/imagex"
	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/common"
)

// Vendor shows the store profile. "vendor edit" updates it and
// "vendor delete" removes the vendor account after confirmation.
func (a *App) Vendor(ctx context.Context, args []string) error {
	if a.auth.State().User.VendorID() == "" {
		return common.ErrVendorIDRequired
	}

	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "show":
		v, err := a.account.FetchVendorProfile(ctx)
		if err != nil {
			return err
		}
		printVendor(v)
		return nil

	case "edit":
		in, err := a.readVendorUpdate()
		if err != nil {
			return err
		}
		if _, err := a.account.UpdateVendorProfile(ctx, in); err != nil {
			return err
		}
		printlnFn(a.account.State().Success)
		return nil

	case "delete":
		ok, err := GetConfirm(a.reader, "Delete the vendor account? This cannot be undone.", a.out)
		if err != nil || !ok {
			return err
		}
		if err := a.account.DeleteVendorAccount(ctx); err != nil {
			return err
		}
		printlnFn("Vendor account deleted.")
		return nil
	}
	return usage("vendor [show|edit|delete]")
}

func (a *App) readVendorUpdate() (models.VendorProfileUpdate, error) {
	var in models.VendorProfileUpdate
	printlnFn("Leave a field empty to keep its current value.")

	fields := []struct {
		prompt string
		dst    **string
	}{
		{"Store name", &in.StoreName},
		{"Short description", &in.ShortDescription},
		{"Contact email", &in.ContactEmail},
		{"Contact phone", &in.ContactPhone},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return in, err
		}
		*f.dst = optionalString(v)
	}

	desc, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return in, err
	}
	in.Description = optionalString(desc)

	bt, err := getSimpleText(a.reader, "Business type (INDIVIDUAL, PARTNERSHIP, CORPORATION, LLC, NON_PROFIT)", a.out)
	if err != nil {
		return in, err
	}
	if bt != "" {
		t := models.BusinessType(strings.ToUpper(bt))
		if !t.Valid() {
			return in, fmt.Errorf("%w: unknown business type %q", common.ErrValidation, bt)
		}
		in.BusinessType = &t
	}
	return in, nil
}

func printVendor(v *models.VendorProfile) {
	printlnFn("Store:       ", v.StoreName)
	printlnFn("Slug:        ", v.Slug)
	printlnFn("Status:      ", v.VerificationStatus)
	printlnFn("Active:      ", v.IsActive)
	printlnFn("Contact:     ", strings.TrimSpace(v.ContactEmail+" "+v.ContactPhone))
	if v.BusinessType != "" {
		printlnFn("Business:    ", v.BusinessType)
	}
	if ad := v.BusinessAddress; ad != nil {
		printlnFn("Address:     ", strings.Join([]string{ad.Street, ad.City, ad.State, ad.PostalCode, ad.Country}, ", "))
	}
	if v.Logo != "" {
		printlnFn("Logo:        ", imagex.ProfileThumbnail(v.Logo))
	}
	if v.Banner != "" {
		printlnFn("Banner:      ", imagex.ProfileBanner(v.Banner))
	}
	if v.CoverImage != "" {
		printlnFn("Cover:       ", imagex.ProfileCover(v.CoverImage))
	}
	if v.ShortDescription != "" {
		printlnFn()
		printlnFn(v.ShortDescription)
	}
}

// Upload sends a local file or a remote image as the vendor logo, banner,
// cover image or the user's profile picture.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("upload <logo|banner|cover|profile> <path|url>")
	}
	kind := models.ImageKind(strings.ToLower(args[0]))
	switch kind {
	case models.ImageVendorLogo, models.ImageVendorBanner, models.ImageVendorCover:
		if a.auth.State().User.VendorID() == "" {
			return common.ErrVendorIDRequired
		}
	case models.ImageProfile:
	default:
		return fmt.Errorf("%w: unknown image kind %q", common.ErrValidation, args[0])
	}

	name, data, err := a.loadImage(ctx, args[1])
	if err != nil {
		return err
	}
	url, err := a.account.UploadImage(ctx, kind, name, data)
	if err != nil {
		return err
	}
	printlnFn("Uploaded:", imagex.WebP(url, 0))
	return nil
}
