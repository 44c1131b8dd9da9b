package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/vendordesk/internal/client/models"
)

func (a *API) GetVendorProfile(ctx context.Context) (*models.VendorProfile, error) {
	var p models.VendorProfile
	if err := a.call(ctx, get("/account/vendor/profile"), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *API) UpdateVendorProfile(ctx context.Context, in models.VendorProfileUpdate) (*models.VendorProfile, error) {
	var p models.VendorProfile
	if err := a.call(ctx, put("/account/vendor/profile", in), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *API) DeleteVendorAccount(ctx context.Context) error {
	return a.call(ctx, del("/account/vendor/account"), nil)
}

var imageRoutes = map[models.ImageKind]struct{ path, field string }{
	models.ImageVendorLogo:   {"/account/vendor/logo", "logoUrl"},
	models.ImageVendorBanner: {"/account/vendor/banner", "bannerUrl"},
	models.ImageVendorCover:  {"/account/vendor/cover", "coverImageUrl"},
	models.ImageProfile:      {"/account/profile/image", "profileImageUrl"},
}

// UploadImage sends an image as multipart form data and returns the URL the
// backend stored it under.
func (a *API) UploadImage(ctx context.Context, kind models.ImageKind, fileName string, content []byte) (string, error) {
	route, ok := imageRoutes[kind]
	if !ok {
		return "", fmt.Errorf("unknown image kind %q", kind)
	}

	var urls map[string]any
	err := a.call(ctx, Request{
		Method: http.MethodPost,
		Path:   route.path,
		Upload: &Upload{FileName: fileName, Content: content},
	}, &urls)
	if err != nil {
		return "", err
	}
	u, _ := urls[route.field].(string)
	return u, nil
}

func (a *API) UpdateUserProfile(ctx context.Context, in models.ProfileInput) (*models.User, error) {
	body, err := a.raw(ctx, put("/account/profile", in))
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := decodeField(body, "user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}
