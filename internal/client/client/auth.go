package client

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/vendordesk/internal/client/models"
)

func (a *API) authCall(ctx context.Context, r Request) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.call(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *API) Register(ctx context.Context, in models.RegisterInput) (*models.AuthResponse, error) {
	return a.authCall(ctx, post("/auth/register", in))
}

func (a *API) VerifyRegistrationOTP(ctx context.Context, email, otp, registrationID string) (*models.AuthResponse, error) {
	return a.authCall(ctx, post("/auth/register/verify-otp", map[string]string{
		"email": email, "otp": otp, "registrationId": registrationID,
	}))
}

func (a *API) ResendRegistrationOTP(ctx context.Context, email, registrationID string) (*models.AuthResponse, error) {
	return a.authCall(ctx, post("/auth/register/resend-otp", map[string]string{
		"email": email, "registrationId": registrationID,
	}))
}

func (a *API) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	return a.authCall(ctx, post("/auth/login", map[string]string{"email": email, "password": password}))
}

func (a *API) VerifyLoginOTP(ctx context.Context, email, otp string, rememberMe bool) (*models.AuthResponse, error) {
	return a.authCall(ctx, post("/auth/login/verify-otp", map[string]any{
		"email": email, "otp": otp, "rememberMe": rememberMe,
	}))
}

func (a *API) ResendLoginOTP(ctx context.Context, email string) (*models.AuthResponse, error) {
	return a.authCall(ctx, post("/auth/login/resend-otp", map[string]string{"email": email}))
}

func (a *API) AdminLogin(ctx context.Context, email, password, twoFactorCode string) (*models.AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	if twoFactorCode != "" {
		body["twoFactorCode"] = twoFactorCode
	}
	return a.authCall(ctx, post("/auth/admin/login", body))
}

func (a *API) Logout(ctx context.Context) error {
	return a.call(ctx, post("/auth/logout", nil), nil)
}

func (a *API) VerifyEmail(ctx context.Context, userID, code string) (*models.AuthResponse, error) {
	return a.authCall(ctx, post("/auth/verify-email", map[string]string{"userId": userID, "code": code}))
}

func (a *API) ResendVerification(ctx context.Context, email string) (*models.AuthResponse, error) {
	return a.authCall(ctx, post("/auth/resend-verification", map[string]string{"email": email}))
}

func (a *API) ForgotPassword(ctx context.Context, email string) (*models.AuthResponse, error) {
	return a.authCall(ctx, post("/auth/forgot-password", map[string]string{"email": email}))
}

func (a *API) ResetPassword(ctx context.Context, userID, token, password string) (*models.AuthResponse, error) {
	return a.authCall(ctx, post("/auth/reset-password", map[string]string{
		"userId": userID, "token": token, "password": password,
	}))
}

func (a *API) ChangePassword(ctx context.Context, current, next string) (*models.AuthResponse, error) {
	return a.authCall(ctx, post("/auth/change-password", map[string]string{
		"currentPassword": current, "newPassword": next,
	}))
}

func (a *API) GetProfile(ctx context.Context) (*models.User, error) {
	body, err := a.raw(ctx, get("/auth/profile"))
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := decodeField(body, "user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *API) UpdateProfile(ctx context.Context, in models.ProfileInput) (*models.User, error) {
	body, err := a.raw(ctx, put("/auth/profile", in))
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := decodeField(body, "user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *API) GoogleAuth(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	return a.authCall(ctx, post("/auth/google", map[string]string{"idToken": idToken}))
}

func (a *API) GetSessions(ctx context.Context) ([]models.AuthSession, error) {
	body, err := a.raw(ctx, get("/auth/sessions"))
	if err != nil {
		return nil, err
	}
	var sessions []models.AuthSession
	if err := decodeField(body, "sessions", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (a *API) RevokeSession(ctx context.Context, id string) error {
	return a.call(ctx, del("/auth/sessions/"+url.PathEscape(id)), nil)
}

func (a *API) RevokeAllSessions(ctx context.Context) error {
	return a.call(ctx, del("/auth/sessions"), nil)
}

func (a *API) CreateVendorProfile(ctx context.Context, in models.VendorProfileInput) (*models.AuthResponse, error) {
	return a.authCall(ctx, post("/auth/vendor/create-profile", in))
}
