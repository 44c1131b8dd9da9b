package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/vendordesk/internal/client/client"
	"github.com/dmitrijs2005/vendordesk/internal/client/models"
)

var (
	err401 = &client.APIError{Method: "GET", Path: "/x", Status: 401, Message: "Token expired"}
	err500 = &client.APIError{Method: "POST", Path: "/x", Status: 500, Message: "Internal server error"}
)

// fakeAuthAPI returns preset values and records calls by method name.
type fakeAuthAPI struct {
	mu    sync.Mutex
	calls []string

	RegisterResp *models.AuthResponse
	LoginResp    *models.AuthResponse
	VerifyResp   *models.AuthResponse
	AdminResp    *models.AuthResponse
	GoogleResp   *models.AuthResponse
	VendorResp   *models.AuthResponse
	Profile      *models.User
	Sessions     []models.AuthSession

	Err        error
	ProfileErr error
	LogoutErr  error

	LastEmail, LastOTP, LastRegistrationID string
	LastRememberMe                         bool
	LastVendorInput                        models.VendorProfileInput
}

func (f *fakeAuthAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAuthAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAuthAPI) resp(r *models.AuthResponse) (*models.AuthResponse, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if r == nil {
		r = &models.AuthResponse{Success: true}
	}
	return r, nil
}

func (f *fakeAuthAPI) Register(_ context.Context, in models.RegisterInput) (*models.AuthResponse, error) {
	f.record("Register")
	f.LastEmail = in.Email
	return f.resp(f.RegisterResp)
}

func (f *fakeAuthAPI) VerifyRegistrationOTP(_ context.Context, email, otp, registrationID string) (*models.AuthResponse, error) {
	f.record("VerifyRegistrationOTP")
	f.LastEmail, f.LastOTP, f.LastRegistrationID = email, otp, registrationID
	return f.resp(f.VerifyResp)
}

func (f *fakeAuthAPI) ResendRegistrationOTP(_ context.Context, email, registrationID string) (*models.AuthResponse, error) {
	f.record("ResendRegistrationOTP")
	f.LastEmail, f.LastRegistrationID = email, registrationID
	return f.resp(nil)
}

func (f *fakeAuthAPI) Login(_ context.Context, email, _ string) (*models.AuthResponse, error) {
	f.record("Login")
	f.LastEmail = email
	return f.resp(f.LoginResp)
}

func (f *fakeAuthAPI) VerifyLoginOTP(_ context.Context, email, otp string, rememberMe bool) (*models.AuthResponse, error) {
	f.record("VerifyLoginOTP")
	f.LastEmail, f.LastOTP, f.LastRememberMe = email, otp, rememberMe
	return f.resp(f.VerifyResp)
}

func (f *fakeAuthAPI) ResendLoginOTP(_ context.Context, email string) (*models.AuthResponse, error) {
	f.record("ResendLoginOTP")
	f.LastEmail = email
	return f.resp(nil)
}

func (f *fakeAuthAPI) AdminLogin(_ context.Context, email, _, _ string) (*models.AuthResponse, error) {
	f.record("AdminLogin")
	f.LastEmail = email
	return f.resp(f.AdminResp)
}

func (f *fakeAuthAPI) Logout(context.Context) error {
	f.record("Logout")
	return f.LogoutErr
}

func (f *fakeAuthAPI) VerifyEmail(context.Context, string, string) (*models.AuthResponse, error) {
	f.record("VerifyEmail")
	return f.resp(nil)
}

func (f *fakeAuthAPI) ResendVerification(context.Context, string) (*models.AuthResponse, error) {
	f.record("ResendVerification")
	return f.resp(nil)
}

func (f *fakeAuthAPI) ForgotPassword(context.Context, string) (*models.AuthResponse, error) {
	f.record("ForgotPassword")
	return f.resp(nil)
}

func (f *fakeAuthAPI) ResetPassword(context.Context, string, string, string) (*models.AuthResponse, error) {
	f.record("ResetPassword")
	return f.resp(nil)
}

func (f *fakeAuthAPI) ChangePassword(context.Context, string, string) (*models.AuthResponse, error) {
	f.record("ChangePassword")
	return f.resp(nil)
}

func (f *fakeAuthAPI) GetProfile(context.Context) (*models.User, error) {
	f.record("GetProfile")
	if f.ProfileErr != nil {
		return nil, f.ProfileErr
	}
	return f.Profile, nil
}

func (f *fakeAuthAPI) UpdateProfile(_ context.Context, in models.ProfileInput) (*models.User, error) {
	f.record("UpdateProfile")
	if f.Err != nil {
		return nil, f.Err
	}
	u := *f.Profile
	u.Name = in.Name
	return &u, nil
}

func (f *fakeAuthAPI) GoogleAuth(context.Context, string) (*models.AuthResponse, error) {
	f.record("GoogleAuth")
	return f.resp(f.GoogleResp)
}

func (f *fakeAuthAPI) GetSessions(context.Context) ([]models.AuthSession, error) {
	f.record("GetSessions")
	return f.Sessions, f.Err
}

func (f *fakeAuthAPI) RevokeSession(context.Context, string) error {
	f.record("RevokeSession")
	return f.Err
}

func (f *fakeAuthAPI) RevokeAllSessions(context.Context) error {
	f.record("RevokeAllSessions")
	return f.Err
}

func (f *fakeAuthAPI) CreateVendorProfile(_ context.Context, in models.VendorProfileInput) (*models.AuthResponse, error) {
	f.record("CreateVendorProfile")
	f.LastVendorInput = in
	return f.resp(f.VendorResp)
}

// fakeRefresher stands in for the refresh coordinator.
type fakeRefresher struct {
	Token string
	Err   error
	Calls int

	onRefresh func()
}

func (f *fakeRefresher) Refresh(context.Context, string) (string, error) {
	f.Calls++
	if f.Err != nil {
		return "", f.Err
	}
	if f.onRefresh != nil {
		f.onRefresh()
	}
	return f.Token, nil
}

type fakeAccountAPI struct {
	Vendor   *models.VendorProfile
	User     *models.User
	ImageURL string
	Err      error

	LastKind models.ImageKind
}

func (f *fakeAccountAPI) GetVendorProfile(context.Context) (*models.VendorProfile, error) {
	return f.Vendor, f.Err
}

func (f *fakeAccountAPI) UpdateVendorProfile(_ context.Context, in models.VendorProfileUpdate) (*models.VendorProfile, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	v := *f.Vendor
	if in.StoreName != nil {
		v.StoreName = *in.StoreName
	}
	return &v, nil
}

func (f *fakeAccountAPI) DeleteVendorAccount(context.Context) error {
	return f.Err
}

func (f *fakeAccountAPI) UploadImage(_ context.Context, kind models.ImageKind, _ string, _ []byte) (string, error) {
	f.LastKind = kind
	return f.ImageURL, f.Err
}

func (f *fakeAccountAPI) UpdateUserProfile(_ context.Context, in models.ProfileInput) (*models.User, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return &models.User{ID: "u1", Name: in.Name}, nil
}

type fakeProductAPI struct {
	Page    *models.ProductPage
	List    []models.Product
	Product *models.Product
	Err     error

	LastFilters   models.ProductFilters
	LastVendorID  string
	LastLimit     int
	LastInventory models.InventoryUpdate
}

func (f *fakeProductAPI) ListProducts(_ context.Context, fl models.ProductFilters) (*models.ProductPage, error) {
	f.LastFilters = fl
	return f.Page, f.Err
}

func (f *fakeProductAPI) FeaturedProducts(_ context.Context, limit int) ([]models.Product, error) {
	f.LastLimit = limit
	return f.List, f.Err
}

func (f *fakeProductAPI) GetVendorDashboardProduct(context.Context, string) (*models.Product, error) {
	return f.Product, f.Err
}

func (f *fakeProductAPI) GetProductBySlug(context.Context, string) (*models.Product, error) {
	return f.Product, f.Err
}

func (f *fakeProductAPI) RelatedProducts(_ context.Context, _ string, limit int) ([]models.Product, error) {
	f.LastLimit = limit
	return f.List, f.Err
}

func (f *fakeProductAPI) VendorProducts(_ context.Context, vendorID string, fl models.ProductFilters) (*models.ProductPage, error) {
	f.LastVendorID = vendorID
	f.LastFilters = fl
	return f.Page, f.Err
}

func (f *fakeProductAPI) SearchProducts(context.Context, string) ([]models.Product, error) {
	return f.List, f.Err
}

func (f *fakeProductAPI) CreateProduct(context.Context, models.ProductInput) (*models.Product, error) {
	return f.Product, f.Err
}

func (f *fakeProductAPI) UpdateProduct(context.Context, string, models.ProductInput) (*models.Product, error) {
	return f.Product, f.Err
}

func (f *fakeProductAPI) DeleteProduct(context.Context, string) error {
	return f.Err
}

func (f *fakeProductAPI) UpdateInventory(_ context.Context, _ string, in models.InventoryUpdate) error {
	f.LastInventory = in
	return f.Err
}

type fakeStripeAPI struct {
	Status  *models.StripeAccountStatus
	Connect *models.ConnectAccountResponse
	Err     error

	calls        []string
	LastVendorID string
	LastType     models.StripeAccountType
	LastSchedule models.PayoutSchedule
}

func (f *fakeStripeAPI) CreateConnectAccount(_ context.Context, vendorID string, t models.StripeAccountType) (*models.ConnectAccountResponse, error) {
	f.calls = append(f.calls, "CreateConnectAccount")
	f.LastVendorID, f.LastType = vendorID, t
	return f.Connect, f.Err
}

func (f *fakeStripeAPI) GetAccountStatus(_ context.Context, vendorID string) (*models.StripeAccountStatus, error) {
	f.calls = append(f.calls, "GetAccountStatus")
	f.LastVendorID = vendorID
	return f.Status, f.Err
}

func (f *fakeStripeAPI) GetOnboardingLink(_ context.Context, vendorID string) (*models.ConnectAccountResponse, error) {
	f.calls = append(f.calls, "GetOnboardingLink")
	f.LastVendorID = vendorID
	return f.Connect, f.Err
}

func (f *fakeStripeAPI) CreateDirectLink(_ context.Context, vendorID string) (*models.ConnectAccountResponse, error) {
	f.calls = append(f.calls, "CreateDirectLink")
	f.LastVendorID = vendorID
	return f.Connect, f.Err
}

func (f *fakeStripeAPI) UpdatePayoutSchedule(_ context.Context, _ string, s models.PayoutSchedule) error {
	f.calls = append(f.calls, "UpdatePayoutSchedule")
	f.LastSchedule = s
	return f.Err
}

func (f *fakeStripeAPI) DisconnectAccount(context.Context, string) error {
	f.calls = append(f.calls, "DisconnectAccount")
	return f.Err
}
