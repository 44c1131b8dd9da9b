// Package services contains the application services behind the CLI.
// Each service owns one state container, calls the backend through a narrow
// API interface, and records a user-facing error string in its state besides
// returning the error.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vendordesk/internal/client/client"
	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/client/state"
	"github.com/dmitrijs2005/vendordesk/internal/client/storage"
	"github.com/dmitrijs2005/vendordesk/internal/common"
	"github.com/dmitrijs2005/vendordesk/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// SessionExpiredMessage is shown after a failed token refresh.
const SessionExpiredMessage = "Your session has expired. Please log in again."

// expirySkew treats tokens about to expire as already expired.
const expirySkew = 30 * time.Second

// AuthAPI is the part of the backend AuthService needs.
type AuthAPI interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.AuthResponse, error)
	VerifyRegistrationOTP(ctx context.Context, email, otp, registrationID string) (*models.AuthResponse, error)
	ResendRegistrationOTP(ctx context.Context, email, registrationID string) (*models.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	VerifyLoginOTP(ctx context.Context, email, otp string, rememberMe bool) (*models.AuthResponse, error)
	ResendLoginOTP(ctx context.Context, email string) (*models.AuthResponse, error)
	AdminLogin(ctx context.Context, email, password, twoFactorCode string) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	VerifyEmail(ctx context.Context, userID, code string) (*models.AuthResponse, error)
	ResendVerification(ctx context.Context, email string) (*models.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) (*models.AuthResponse, error)
	ResetPassword(ctx context.Context, userID, token, password string) (*models.AuthResponse, error)
	ChangePassword(ctx context.Context, current, next string) (*models.AuthResponse, error)
	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, in models.ProfileInput) (*models.User, error)
	GoogleAuth(ctx context.Context, idToken string) (*models.AuthResponse, error)
	GetSessions(ctx context.Context) ([]models.AuthSession, error)
	RevokeSession(ctx context.Context, id string) error
	RevokeAllSessions(ctx context.Context) error
	CreateVendorProfile(ctx context.Context, in models.VendorProfileInput) (*models.AuthResponse, error)
}

// TokenRefresher obtains an access token newer than stale. The refresh
// coordinator implements it.
type TokenRefresher interface {
	Refresh(ctx context.Context, stale string) (string, error)
}

// AuthService drives login, registration and the session lifecycle.
//
// Every change to the auth state is persisted under common.AuthStateKey so
// a pending OTP step or a signed-in user survives a restart.
type AuthService struct {
	api       AuthAPI
	tokens    *storage.TokenStore
	refresher TokenRefresher
	state     *state.AuthStore
	log       logging.Logger
	now       func() time.Time
}

func NewAuthService(api AuthAPI, tokens *storage.TokenStore, refresher TokenRefresher, st *state.AuthStore, log logging.Logger) *AuthService {
	s := &AuthService{
		api:       api,
		tokens:    tokens,
		refresher: refresher,
		state:     st,
		log:       log,
		now:       time.Now,
	}
	st.Subscribe(func(a state.Auth) {
		if err := state.SaveAuth(context.Background(), tokens.Backend(), a); err != nil {
			log.Warn(context.Background(), "failed to persist auth state", "error", err)
		}
	})
	return s
}

func (s *AuthService) State() state.Auth {
	return s.state.Get()
}

// VendorID returns the signed-in vendor's id or "".
func (s *AuthService) VendorID() string {
	return s.state.Get().User.VendorID()
}

func (s *AuthService) begin() {
	s.state.Update(func(a *state.Auth) {
		a.Loading = true
		a.Error = ""
	})
}

// fail records the server's message for err, or fallback when there is
// none, and returns err.
func (s *AuthService) fail(err error, fallback string) error {
	msg := userMessage(err, fallback)
	s.state.Update(func(a *state.Auth) {
		a.Loading = false
		a.Error = msg
	})
	return err
}

func (s *AuthService) done() {
	s.state.Update(func(a *state.Auth) { a.Loading = false })
}

// establish stores the tokens from resp and marks the session signed in.
func (s *AuthService) establish(ctx context.Context, resp *models.AuthResponse) error {
	if resp.AccessToken == "" {
		return errors.New("no tokens received")
	}
	if err := s.tokens.Save(ctx, resp.Tokens()); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	s.state.Update(func(a *state.Auth) {
		if resp.User != nil {
			a.SetUser(resp.User)
		}
		a.IsAuthenticated = true
		a.ClearOTP()
		a.Loading = false
		a.Error = ""
	})
	return nil
}

// Initialize restores the session on startup. It reports whether the client
// ends up signed in.
func (s *AuthService) Initialize(ctx context.Context) (bool, error) {
	saved, err := state.LoadAuth(ctx, s.tokens.Backend())
	if err != nil {
		s.log.Warn(ctx, "discarding unreadable auth state", "error", err)
	}
	saved.IsAuthenticated = false
	s.state.Set(saved)

	tok, err := s.tokens.Load(ctx)
	if err != nil {
		return false, s.fail(err, "Failed to read stored session")
	}

	if tok.AccessToken != "" && !s.expired(tok.AccessToken) {
		if _, err := s.GetProfile(ctx); err == nil {
			return true, nil
		} else if errors.Is(err, common.ErrUnavailable) {
			return false, err
		}
		tok, _ = s.tokens.Load(ctx)
	}

	if tok.RefreshToken == "" {
		s.signOut(ctx)
		return false, nil
	}

	if _, err := s.refresher.Refresh(ctx, tok.AccessToken); err != nil {
		s.signOut(ctx)
		return false, nil
	}
	s.state.Update(func(a *state.Auth) { a.IsAuthenticated = true })

	if _, err := s.GetProfile(ctx); err != nil {
		s.log.Warn(ctx, "profile fetch after refresh failed", "error", err)
	}
	return s.state.Get().IsAuthenticated, nil
}

// expired reports whether a JWT access token is past its exp claim. Tokens
// that are not JWTs, or carry no exp, are left to the server to judge.
func (s *AuthService) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.now().Add(expirySkew))
}

func (s *AuthService) signOut(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear tokens", "error", err)
	}
	s.state.Update(func(a *state.Auth) {
		pending := *a
		a.Reset()
		// a pending OTP step is not a session and survives sign-out
		if pending.RequireOTP {
			a.RequireOTP = true
			a.OTPEmail = pending.OTPEmail
			a.OTPPurpose = pending.OTPPurpose
			a.RegistrationID = pending.RegistrationID
			a.RequiresTwoFactor = pending.RequiresTwoFactor
			a.RememberMe = pending.RememberMe
		}
	})
}

// Register creates an account. Usually the backend answers with a pending
// OTP step; a response that already carries tokens signs in directly.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.AuthResponse, error) {
	s.begin()
	resp, err := s.api.Register(ctx, in)
	if err != nil {
		return nil, s.fail(err, "Registration failed")
	}

	if resp.RequireOTP {
		s.state.Update(func(a *state.Auth) {
			a.RequireOTP = true
			a.OTPEmail = in.Email
			a.OTPPurpose = models.OTPPurposeRegister
			a.RegistrationID = resp.RegistrationID
			a.Loading = false
		})
		return resp, nil
	}

	if resp.AccessToken != "" {
		if err := s.establish(ctx, resp); err != nil {
			return nil, s.fail(err, "Registration failed")
		}
		return resp, nil
	}

	s.done()
	return resp, nil
}

func (s *AuthService) VerifyRegistrationOTP(ctx context.Context, otp string) error {
	cur := s.state.Get()
	if cur.RegistrationID == "" {
		return s.fail(common.ErrRegistrationExpiry, "Registration session expired")
	}

	s.begin()
	resp, err := s.api.VerifyRegistrationOTP(ctx, cur.OTPEmail, otp, cur.RegistrationID)
	if err != nil {
		return s.fail(err, "OTP verification failed")
	}
	if err := s.establish(ctx, resp); err != nil {
		return s.fail(err, "OTP verification failed")
	}
	return nil
}

func (s *AuthService) ResendRegistrationOTP(ctx context.Context) error {
	cur := s.state.Get()
	if cur.RegistrationID == "" {
		return s.fail(common.ErrRegistrationExpiry, "Registration session expired")
	}

	s.begin()
	resp, err := s.api.ResendRegistrationOTP(ctx, cur.OTPEmail, cur.RegistrationID)
	if err != nil {
		return s.fail(err, "Failed to resend OTP")
	}
	if resp.RegistrationID != "" {
		s.state.Update(func(a *state.Auth) { a.RegistrationID = resp.RegistrationID })
	}
	s.done()
	return nil
}

// Login signs in with a password. When the backend asks for a one-time code
// the state moves to the OTP step and no tokens are stored yet.
func (s *AuthService) Login(ctx context.Context, email, password string, rememberMe bool) (*models.AuthResponse, error) {
	s.state.Update(func(a *state.Auth) {
		a.ClearOTP()
		a.RememberMe = rememberMe
		a.Loading = true
		a.Error = ""
	})

	resp, err := s.api.Login(ctx, email, password)
	if err == nil && !resp.RequireOTP && resp.AccessToken == "" {
		err = errors.New("login failed: no tokens received")
	}
	if err != nil {
		s.state.Update(func(a *state.Auth) {
			a.IsAuthenticated = false
			a.User = nil
		})
		return nil, s.fail(err, "Login failed: No tokens received")
	}

	if resp.RequireOTP {
		otpEmail := resp.OTPEmail
		if otpEmail == "" {
			otpEmail = email
		}
		s.state.Update(func(a *state.Auth) {
			a.RequireOTP = true
			a.OTPEmail = otpEmail
			a.OTPPurpose = models.OTPPurposeLogin
			a.Loading = false
		})
		return resp, nil
	}

	if err := s.establish(ctx, resp); err != nil {
		return nil, s.fail(err, "Login failed")
	}
	return resp, nil
}

func (s *AuthService) VerifyLoginOTP(ctx context.Context, otp string) error {
	cur := s.state.Get()
	if cur.OTPEmail == "" {
		return s.fail(common.ErrNotAuthenticated, "No login is waiting for a code")
	}

	s.begin()
	resp, err := s.api.VerifyLoginOTP(ctx, cur.OTPEmail, otp, cur.RememberMe)
	if err != nil {
		return s.fail(err, "OTP verification failed")
	}
	if err := s.establish(ctx, resp); err != nil {
		return s.fail(err, "OTP verification failed")
	}
	return nil
}

func (s *AuthService) ResendLoginOTP(ctx context.Context) error {
	cur := s.state.Get()
	if cur.OTPEmail == "" {
		return s.fail(common.ErrNotAuthenticated, "No login is waiting for a code")
	}

	s.begin()
	if _, err := s.api.ResendLoginOTP(ctx, cur.OTPEmail); err != nil {
		return s.fail(err, "Failed to resend OTP")
	}
	s.done()
	return nil
}

// AdminLogin signs in an administrator. A requiresTwoFactor answer reuses
// the OTP step; call AdminLogin again with the code.
func (s *AuthService) AdminLogin(ctx context.Context, email, password, twoFactorCode string) (*models.AuthResponse, error) {
	s.begin()
	resp, err := s.api.AdminLogin(ctx, email, password, twoFactorCode)
	if err != nil {
		return nil, s.fail(err, "Admin login failed")
	}

	if resp.RequiresTwoFactor {
		s.state.Update(func(a *state.Auth) {
			a.RequireOTP = true
			a.RequiresTwoFactor = true
			a.OTPEmail = email
			a.OTPPurpose = models.OTPPurposeLogin
			a.Loading = false
		})
		return resp, nil
	}

	if err := s.establish(ctx, resp); err != nil {
		return nil, s.fail(err, "Admin login failed")
	}
	return resp, nil
}

// CancelOTP abandons a pending verification step.
func (s *AuthService) CancelOTP() {
	s.state.Update(func(a *state.Auth) {
		a.ClearOTP()
		a.Error = ""
	})
}

// Logout ends the session on the server and always clears it locally. The
// server error, if any, is returned after local cleanup.
func (s *AuthService) Logout(ctx context.Context) error {
	s.begin()
	apiErr := s.api.Logout(ctx)

	s.signOut(ctx)
	if apiErr != nil {
		s.log.Warn(ctx, "logout request failed", "error", apiErr)
		s.state.Update(func(a *state.Auth) { a.Error = client.UserMessage(apiErr) })
		return fmt.Errorf("logout: %w", apiErr)
	}
	return nil
}

// Refresh forces a token refresh through the coordinator.
func (s *AuthService) Refresh(ctx context.Context) error {
	tok, err := s.tokens.Load(ctx)
	if err != nil {
		return err
	}
	if tok.RefreshToken == "" {
		return s.fail(common.ErrNoRefreshToken, "No refresh token available")
	}
	if _, err := s.refresher.Refresh(ctx, tok.AccessToken); err != nil {
		return s.fail(err, "Failed to refresh token")
	}
	s.state.Update(func(a *state.Auth) {
		a.IsAuthenticated = true
		a.Error = ""
	})
	return nil
}

func (s *AuthService) GetProfile(ctx context.Context) (*models.User, error) {
	s.begin()
	u, err := s.api.GetProfile(ctx)
	if err != nil {
		return nil, s.fail(err, "Failed to get profile")
	}
	s.state.Update(func(a *state.Auth) {
		a.SetUser(u)
		a.IsAuthenticated = true
		a.Loading = false
	})
	return u, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, in models.ProfileInput) (*models.User, error) {
	s.begin()
	u, err := s.api.UpdateProfile(ctx, in)
	if err != nil {
		return nil, s.fail(err, "Failed to update profile")
	}
	s.state.Update(func(a *state.Auth) {
		if u.ID != "" {
			a.SetUser(u)
		}
		a.Loading = false
	})
	return u, nil
}

func (s *AuthService) GetSessions(ctx context.Context) ([]models.AuthSession, error) {
	s.begin()
	sessions, err := s.api.GetSessions(ctx)
	if err != nil {
		return nil, s.fail(err, "Failed to get sessions")
	}
	s.state.Update(func(a *state.Auth) {
		a.Sessions = sessions
		a.Loading = false
	})
	return sessions, nil
}

func (s *AuthService) RevokeSession(ctx context.Context, id string) error {
	s.begin()
	if err := s.api.RevokeSession(ctx, id); err != nil {
		return s.fail(err, "Failed to revoke session")
	}
	s.state.Update(func(a *state.Auth) {
		kept := a.Sessions[:0:0]
		for _, sess := range a.Sessions {
			if sess.ID != id {
				kept = append(kept, sess)
			}
		}
		a.Sessions = kept
		a.Loading = false
	})
	return nil
}

func (s *AuthService) RevokeAllSessions(ctx context.Context) error {
	s.begin()
	if err := s.api.RevokeAllSessions(ctx); err != nil {
		return s.fail(err, "Failed to revoke sessions")
	}
	s.state.Update(func(a *state.Auth) {
		a.Sessions = nil
		a.Loading = false
	})
	return nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, userID, code string) error {
	s.begin()
	if _, err := s.api.VerifyEmail(ctx, userID, code); err != nil {
		return s.fail(err, "Email verification failed")
	}
	s.state.Update(func(a *state.Auth) {
		a.EditUser(func(u *models.User) { u.IsVerified = true })
		a.Loading = false
	})
	return nil
}

func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	return s.simple(ctx, "Failed to resend verification email", func() error {
		_, err := s.api.ResendVerification(ctx, email)
		return err
	})
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.simple(ctx, "Failed to process forgot password request", func() error {
		_, err := s.api.ForgotPassword(ctx, email)
		return err
	})
}

func (s *AuthService) ResetPassword(ctx context.Context, userID, token, password string) error {
	return s.simple(ctx, "Failed to reset password", func() error {
		_, err := s.api.ResetPassword(ctx, userID, token, password)
		return err
	})
}

func (s *AuthService) ChangePassword(ctx context.Context, current, next string) error {
	return s.simple(ctx, "Failed to change password", func() error {
		_, err := s.api.ChangePassword(ctx, current, next)
		return err
	})
}

func (s *AuthService) simple(_ context.Context, fallback string, call func() error) error {
	s.begin()
	if err := call(); err != nil {
		return s.fail(err, fallback)
	}
	s.done()
	return nil
}

// GoogleAuth signs in with a Google ID token.
func (s *AuthService) GoogleAuth(ctx context.Context, idToken string) error {
	s.begin()
	resp, err := s.api.GoogleAuth(ctx, idToken)
	if err != nil {
		return s.fail(err, "Google authentication failed")
	}
	if err := s.establish(ctx, resp); err != nil {
		return s.fail(err, "Google authentication failed")
	}
	return nil
}

// CreateVendorProfile submits the onboarding profile. A Connect block in the
// answer is cached as pending Stripe onboarding.
func (s *AuthService) CreateVendorProfile(ctx context.Context, in models.VendorProfileInput) (*models.AuthResponse, error) {
	if in.StripeAccountType == "" {
		in.StripeAccountType = models.StripeAccountExpress
	}

	s.begin()
	resp, err := s.api.CreateVendorProfile(ctx, in)
	if err != nil {
		return nil, s.fail(err, "Vendor profile creation failed")
	}

	s.state.Update(func(a *state.Auth) {
		if resp.User != nil {
			a.SetUser(resp.User)
		}
		if sc := resp.StripeConnect; sc != nil {
			a.StripeConnect = &models.StripeConnectData{
				AccountID:      sc.AccountID,
				AccountLinkURL: sc.AccountLinkURL,
				AccountStatus:  "PENDING",
			}
		}
		a.Loading = false
	})
	return resp, nil
}

// TokensRefreshed implements refresh.Listener.
func (s *AuthService) TokensRefreshed(_ context.Context, _ models.Tokens) {
	s.state.Update(func(a *state.Auth) {
		a.IsAuthenticated = true
		a.Error = ""
	})
}

// SessionExpired implements refresh.Listener. Tokens are already cleared by
// the coordinator.
func (s *AuthService) SessionExpired(ctx context.Context, cause error) {
	s.log.Info(ctx, "signing out after failed refresh", "cause", cause)
	s.state.Update(func(a *state.Auth) {
		a.Reset()
		a.Error = SessionExpiredMessage
	})
}
