package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/vendordesk/internal/client/callback"
	"github.com/dmitrijs2005/vendordesk/internal/client/client"
	"github.com/dmitrijs2005/vendordesk/internal/client/flows"
	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/client/state"
	"github.com/dmitrijs2005/vendordesk/internal/client/services"
	"github.com/dmitrijs2005/vendordesk/internal/common"
	"github.com/dmitrijs2005/vendordesk/internal/logging"
	"github.com/dmitrijs2005/vendordesk/internal/metrics"
	"github.com/dmitrijs2005/vendordesk/internal/netx"
)

// AuthService is the session surface the commands use. *services.AuthService
// implements it.
type AuthService interface {
	flows.OTPAuth
	flows.VendorCreator

	Initialize(ctx context.Context) (bool, error)
	Register(ctx context.Context, in models.RegisterInput) (*models.AuthResponse, error)
	Login(ctx context.Context, email, password string, rememberMe bool) (*models.AuthResponse, error)
	AdminLogin(ctx context.Context, email, password, twoFactorCode string) (*models.AuthResponse, error)
	GoogleAuth(ctx context.Context, idToken string) error
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, in models.ProfileInput) (*models.User, error)
	GetSessions(ctx context.Context) ([]models.AuthSession, error)
	RevokeSession(ctx context.Context, id string) error
	RevokeAllSessions(ctx context.Context) error
	VerifyEmail(ctx context.Context, userID, code string) error
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, userID, token, password string) error
	ChangePassword(ctx context.Context, current, next string) error
}

type ProductService interface {
	State() state.Products
	FetchProducts(ctx context.Context, f models.ProductFilters) (*models.ProductPage, error)
	FetchVendorProducts(ctx context.Context, vendorID string, f models.ProductFilters) (*models.ProductPage, error)
	FetchFeatured(ctx context.Context, limit int) ([]models.Product, error)
	FetchByID(ctx context.Context, id string) (*models.Product, error)
	FetchBySlug(ctx context.Context, slug string) (*models.Product, error)
	FetchRelated(ctx context.Context, id string, limit int) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Create(ctx context.Context, in models.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id string, in models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	UpdateInventory(ctx context.Context, id string, inventory int, variants map[string]int) error
	SetFilters(f models.ProductFilters)
	ResetFilters()
}

type AccountService interface {
	State() state.Account
	FetchVendorProfile(ctx context.Context) (*models.VendorProfile, error)
	UpdateVendorProfile(ctx context.Context, in models.VendorProfileUpdate) (*models.VendorProfile, error)
	DeleteVendorAccount(ctx context.Context) error
	UploadImage(ctx context.Context, kind models.ImageKind, fileName string, content []byte) (string, error)
	UpdateUserProfile(ctx context.Context, in models.ProfileInput) (*models.User, error)
}

type StripeService interface {
	flows.StripeConnector

	State() state.Stripe
	GetAccountStatus(ctx context.Context) (*models.StripeAccountStatus, error)
	CreateDirectLink(ctx context.Context) (string, error)
	UpdatePayoutSchedule(ctx context.Context, schedule string, minimumAmount *float64) error
	Disconnect(ctx context.Context) error
}

// ReturnListener receives the browser return of the hosted onboarding.
// *callback.Server implements it.
type ReturnListener interface {
	Start() error
	ReturnURL() string
	Wait(ctx context.Context) (callback.Result, error)
}

// Deps are the collaborators NewApp wires together.
type Deps struct {
	Auth     AuthService
	Products ProductService
	Account  AccountService
	Stripe   StripeService
	Returns  ReturnListener
	Metrics  *metrics.Metrics
	Log      logging.Logger

	// HTTPClient fetches remote images for upload; nil means http.DefaultClient.
	HTTPClient *http.Client
}

type App struct {
	auth     AuthService
	products ProductService
	account  AccountService
	stripe   StripeService
	returns  ReturnListener
	metrics  *metrics.Metrics
	log      logging.Logger

	otp        *flows.OTPFlow
	onboarding *flows.Onboarding
	loadImage  func(ctx context.Context, src string) (string, []byte, error)

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(d Deps) *App {
	log := d.Log
	if log == nil {
		log = logging.Nop()
	}
	httpClient := d.HTTPClient
	return &App{
		auth:     d.Auth,
		products: d.Products,
		account:  d.Account,
		stripe:   d.Stripe,
		returns:  d.Returns,
		metrics:  d.Metrics,
		log:      log,
		otp:      flows.NewOTPFlow(d.Auth),
		loadImage: func(ctx context.Context, src string) (string, []byte, error) {
			return netx.LoadImage(ctx, httpClient, src)
		},
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// Run restores the previous session and serves the REPL until the user
// exits or ctx ends.
func (a *App) Run(ctx context.Context) error {
	printlnFn("Welcome to vendordesk (type 'help' for commands)")

	ok, err := a.auth.Initialize(ctx)
	switch {
	case err != nil:
		printlnFn("Could not reach the server:", errorText(err))
	case ok:
		printlnFn("Signed in as", a.auth.State().User.Email)
	case a.otp.Resume():
		printlnFn(fmt.Sprintf("A verification code was sent to %s. Enter it with: otp <code>", a.otp.Email()))
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.auth.State().IsAuthenticated
}

func (a *App) pendingOTP() bool {
	return a.otp.Step() == flows.StepVerification
}

func (a *App) status() string {
	st := a.auth.State()
	switch {
	case st.IsAuthenticated && st.User != nil:
		s := st.User.Email
		if st.User.Vendor != nil && st.User.Vendor.StoreName != "" {
			s += " @ " + st.User.Vendor.StoreName
		}
		return "(" + s + ")"
	case a.pendingOTP():
		return "(verify " + a.otp.Email() + ")"
	}
	return ""
}

// errorText is what the REPL shows for a failed command.
func errorText(err error) string {
	if errors.Is(err, common.ErrNoRefreshToken) {
		return services.SessionExpiredMessage
	}
	return client.UserMessage(err)
}
