package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/vendordesk/internal/client/callback"
	"github.com/dmitrijs2005/vendordesk/internal/client/flows"
	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/client/state"
	"github.com/dmitrijs2005/vendordesk/internal/logging"
)

// The fakes embed the interface they stand in for; calling a method a test
// did not override panics on the nil embedded value.

type fakeAuth struct {
	AuthService

	st state.Auth

	loginResp  *models.AuthResponse
	loginErr   error
	regResp    *models.AuthResponse
	verifyErr  error
	sessions   []models.AuthSession
	logoutErr  error
	createResp *models.AuthResponse

	lastEmail, lastPassword string
	lastRemember            bool
	lastRegister            models.RegisterInput
	lastVendor              models.VendorProfileInput
	revoked                 []string
	canceled                bool
}

func (f *fakeAuth) State() state.Auth { return f.st }

func (f *fakeAuth) Login(_ context.Context, email, password string, remember bool) (*models.AuthResponse, error) {
	f.lastEmail, f.lastPassword, f.lastRemember = email, password, remember
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if f.loginResp.RequireOTP {
		f.st.RequireOTP, f.st.OTPEmail, f.st.OTPPurpose = true, f.loginResp.OTPEmail, models.OTPPurposeLogin
	} else {
		f.st.IsAuthenticated, f.st.User = true, f.loginResp.User
	}
	return f.loginResp, nil
}

func (f *fakeAuth) Register(_ context.Context, in models.RegisterInput) (*models.AuthResponse, error) {
	f.lastRegister = in
	return f.regResp, nil
}

func (f *fakeAuth) VerifyLoginOTP(context.Context, string) error {
	if f.verifyErr != nil {
		f.st.Error = "Invalid OTP"
		return f.verifyErr
	}
	f.st.ClearOTP()
	f.st.IsAuthenticated = true
	f.st.User = &models.User{Email: "a@b.com"}
	return nil
}

func (f *fakeAuth) VerifyRegistrationOTP(ctx context.Context, code string) error {
	return f.VerifyLoginOTP(ctx, code)
}

func (f *fakeAuth) CancelOTP() {
	f.canceled = true
	f.st.ClearOTP()
}

func (f *fakeAuth) GetSessions(context.Context) ([]models.AuthSession, error) {
	return f.sessions, nil
}

func (f *fakeAuth) RevokeSession(_ context.Context, id string) error {
	f.revoked = append(f.revoked, id)
	return nil
}

func (f *fakeAuth) RevokeAllSessions(context.Context) error {
	f.revoked = append(f.revoked, "all")
	return nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.st.Reset()
	return f.logoutErr
}

func (f *fakeAuth) CreateVendorProfile(_ context.Context, in models.VendorProfileInput) (*models.AuthResponse, error) {
	f.lastVendor = in
	f.st.User.Vendor = &models.VendorSummary{ID: "v1", StoreName: in.StoreName}
	return f.createResp, nil
}

type fakeProducts struct {
	ProductService

	st state.Products

	lastInventory struct {
		id       string
		qty      int
		variants map[string]int
	}
	lastCreate models.ProductInput
	lastFilter models.ProductFilters
	page       *models.ProductPage
	deleted    []string
}

func (f *fakeProducts) State() state.Products { return f.st }

func (f *fakeProducts) UpdateInventory(_ context.Context, id string, qty int, variants map[string]int) error {
	f.lastInventory.id, f.lastInventory.qty, f.lastInventory.variants = id, qty, variants
	return nil
}

func (f *fakeProducts) SetFilters(fl models.ProductFilters) {
	f.lastFilter = fl
	f.st.Filters = f.st.Filters.Merge(fl)
}

func (f *fakeProducts) Create(_ context.Context, in models.ProductInput) (*models.Product, error) {
	f.lastCreate = in
	return &models.Product{ID: "p-new", Name: *in.Name}, nil
}

func (f *fakeProducts) FetchProducts(_ context.Context, fl models.ProductFilters) (*models.ProductPage, error) {
	f.lastFilter = fl
	return f.page, nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAccount struct {
	AccountService

	uploads []string
	data    []byte
}

func (f *fakeAccount) UploadImage(_ context.Context, kind models.ImageKind, name string, content []byte) (string, error) {
	f.uploads = append(f.uploads, string(kind)+":"+name)
	f.data = content
	return "https://ik.imagekit.io/demo/" + name, nil
}

type fakeStripe struct {
	StripeService

	st       state.Stripe
	link     string
	modes    []models.SetupMode
	schedule string
	minimum  *float64
}

func (f *fakeStripe) State() state.Stripe { return f.st }

func (f *fakeStripe) CreateConnectAccount(_ context.Context, t models.StripeAccountType) (*models.ConnectAccountResponse, error) {
	return &models.ConnectAccountResponse{AccountID: "acct_1", AccountLinkURL: f.link}, nil
}

func (f *fakeStripe) GetOnboardingLink(context.Context) (string, error) { return f.link, nil }

func (f *fakeStripe) HandleRedirect(_ context.Context, mode models.SetupMode) error {
	f.modes = append(f.modes, mode)
	if mode == models.SetupCanceled {
		f.st.Error = "Stripe account setup was canceled. You can try again."
	}
	return nil
}

func (f *fakeStripe) UpdatePayoutSchedule(_ context.Context, schedule string, minimum *float64) error {
	f.schedule, f.minimum = schedule, minimum
	return nil
}

type fakeReturns struct {
	started bool
	result  callback.Result
	err     error
}

func (f *fakeReturns) Start() error      { f.started = true; return nil }
func (f *fakeReturns) ReturnURL() string { return "http://127.0.0.1:8765/stripe/return" }
func (f *fakeReturns) Wait(context.Context) (callback.Result, error) {
	return f.result, f.err
}

// newTestApp builds an App over the fakes with scripted stdin.
func newTestApp(t *testing.T, input string, auth *fakeAuth) *App {
	t.Helper()
	if auth == nil {
		auth = &fakeAuth{}
	}
	return &App{
		auth:     auth,
		products: &fakeProducts{st: state.Products{Filters: models.DefaultProductFilters()}},
		account:  &fakeAccount{},
		stripe:   &fakeStripe{},
		log:      logging.Nop(),
		otp:      flows.NewOTPFlow(auth),
		reader:   bufio.NewReader(strings.NewReader(input)),
		out:      &bytes.Buffer{},
	}
}

// stubPrompts answers getSimpleText from answers in order and getPassword
// with password.
func stubPrompts(t *testing.T, password string, answers ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getPassword = func(string, io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}
