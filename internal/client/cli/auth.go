package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/vendordesk/internal/client/flows"
	"github.com/dmitrijs2005/vendordesk/internal/client/imagex"
	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errUsage = errors.New("usage")

func usage(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}

func (a *App) readPasswordString(prompt string) (string, error) {
	pw, err := getPassword(prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// Register prompts for the account details. When the backend asks for a
// one-time code the REPL switches to the verification commands.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPasswordString("Enter password")
	if err != nil {
		return err
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	resp, err := a.auth.Register(ctx, models.RegisterInput{Email: email, Name: name, Password: password})
	if err != nil {
		return err
	}
	if resp.RequireOTP {
		a.beginOTP(email, models.OTPPurposeRegister)
		return nil
	}
	if a.isLoggedIn() {
		printlnFn("Registered and signed in.")
	} else {
		printlnFn("Registered. Check your email to verify the account, then log in.")
	}
	return nil
}

// Login prompts for credentials and signs in, possibly via a one-time code.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPasswordString("Enter password")
	if err != nil {
		return err
	}
	remember, err := GetConfirm(a.reader, "Remember this device?", a.out)
	if err != nil {
		return err
	}

	resp, err := a.auth.Login(ctx, email, password, remember)
	if err != nil {
		return err
	}
	if resp.RequireOTP {
		a.beginOTP(a.auth.State().OTPEmail, models.OTPPurposeLogin)
		return nil
	}
	a.greet()
	return nil
}

// AdminLogin signs in an administrator, asking for the two-factor code when
// the backend requires one.
func (a *App) AdminLogin(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter admin email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPasswordString("Enter password")
	if err != nil {
		return err
	}

	resp, err := a.auth.AdminLogin(ctx, email, password, "")
	if err != nil {
		return err
	}
	if resp.RequiresTwoFactor {
		code, err := getSimpleText(a.reader, "Enter two-factor code", a.out)
		if err != nil {
			return err
		}
		if _, err := a.auth.AdminLogin(ctx, email, password, code); err != nil {
			return err
		}
	}
	a.greet()
	return nil
}

func (a *App) GoogleLogin(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("google <id-token>")
	}
	if err := a.auth.GoogleAuth(ctx, args[0]); err != nil {
		return err
	}
	a.greet()
	return nil
}

func (a *App) beginOTP(email string, purpose models.OTPPurpose) {
	a.otp.Begin(email, purpose)
	printlnFn(fmt.Sprintf("A %d-digit code was sent to %s. It is valid for %s.", flows.CodeLength, email, flows.OTPValidity))
	printlnFn("Enter it with: otp <code>  (resend, back)")
}

func (a *App) VerifyOTP(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("otp <code>")
	}
	if err := a.otp.Submit(ctx, args[0]); err != nil {
		if msg := a.otp.Error(); msg != "" {
			return errors.New(msg)
		}
		return err
	}
	a.greet()
	return nil
}

func (a *App) ResendOTP(ctx context.Context) error {
	if !a.otp.CanResend() {
		left := a.otp.Remaining().Round(time.Second)
		printlnFn(fmt.Sprintf("You can request a new code in %s.", left))
		return nil
	}
	if err := a.otp.Resend(ctx); err != nil {
		return err
	}
	printlnFn("A new code was sent to", a.otp.Email())
	return nil
}

func (a *App) CancelOTP(context.Context) error {
	a.otp.Back()
	printlnFn("Verification canceled.")
	return nil
}

func (a *App) greet() {
	st := a.auth.State()
	if st.User == nil {
		printlnFn("Signed in.")
		return
	}
	printlnFn("Signed in as", st.User.Email)
	if st.User.Vendor == nil {
		printlnFn("No vendor profile yet. Run 'onboard' to set up your store.")
	}
}

func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter account email", a.out)
	if err != nil {
		return err
	}
	if err := a.auth.ForgotPassword(ctx, email); err != nil {
		return err
	}
	printlnFn("If the account exists, a reset link was sent.")
	return nil
}

// ResetPassword completes a reset with the user id and token from the
// emailed link.
func (a *App) ResetPassword(ctx context.Context) error {
	userID, err := getSimpleText(a.reader, "Enter user id from the reset link", a.out)
	if err != nil {
		return err
	}
	token, err := getSimpleText(a.reader, "Enter reset token", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPasswordString("Enter new password")
	if err != nil {
		return err
	}
	if err := a.auth.ResetPassword(ctx, userID, token, password); err != nil {
		return err
	}
	printlnFn("Password reset. You can log in now.")
	return nil
}

func (a *App) VerifyEmail(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "resend" {
		email, err := getSimpleText(a.reader, "Enter account email", a.out)
		if err != nil {
			return err
		}
		if err := a.auth.ResendVerification(ctx, email); err != nil {
			return err
		}
		printlnFn("Verification email sent.")
		return nil
	}
	if len(args) != 2 {
		return usage("verify-email <user-id> <code> | verify-email resend")
	}
	if err := a.auth.VerifyEmail(ctx, args[0], args[1]); err != nil {
		return err
	}
	printlnFn("Email verified.")
	return nil
}

// Profile shows the signed-in user; "profile edit" changes the name.
func (a *App) Profile(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "edit" {
		name, err := getSimpleText(a.reader, "Enter name", a.out)
		if err != nil {
			return err
		}
		phone, err := getSimpleText(a.reader, "Enter phone (empty to keep)", a.out)
		if err != nil {
			return err
		}
		if _, err := a.account.UpdateUserProfile(ctx, models.ProfileInput{Name: name, Phone: phone}); err != nil {
			return err
		}
		printlnFn(a.account.State().Success)
		return nil
	}

	u, err := a.auth.GetProfile(ctx)
	if err != nil {
		return err
	}
	printUser(u)
	return nil
}

func printUser(u *models.User) {
	printlnFn("Email:   ", u.Email)
	if u.Name != "" {
		printlnFn("Name:    ", u.Name)
	}
	printlnFn("Role:    ", u.Role)
	printlnFn("Verified:", u.IsVerified)
	if u.ProfileImageURL != "" {
		printlnFn("Avatar:  ", imagex.ProfileAvatar(u.ProfileImageURL))
	}
	if v := u.Vendor; v != nil {
		printlnFn("Store:   ", v.StoreName, "("+v.VerificationStatus+")")
		if v.StripeAccountID != "" {
			printlnFn("Stripe:  ", v.StripeAccountID, v.StripeAccountStatus)
		}
	}
}

// Sessions lists signed-in devices; "sessions revoke <id>|all" ends them.
func (a *App) Sessions(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if args[0] != "revoke" || len(args) != 2 {
			return usage("sessions [revoke <id>|all]")
		}
		if args[1] == "all" {
			if err := a.auth.RevokeAllSessions(ctx); err != nil {
				return err
			}
			printlnFn("All other sessions revoked.")
			return nil
		}
		if err := a.auth.RevokeSession(ctx, args[1]); err != nil {
			return err
		}
		printlnFn("Session revoked.")
		return nil
	}

	sessions, err := a.auth.GetSessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		printlnFn("No active sessions.")
		return nil
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDEVICE\tIP\tLAST ACTIVE\t")
	for _, s := range sessions {
		id := s.ID
		if s.Current {
			id += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", id, s.UserAgent, s.IPAddress, s.LastActiveAt.Format(time.DateTime))
	}
	tw.Flush()
	printlnFn(strings.TrimRight(b.String(), "\n"))
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	current, err := a.readPasswordString("Enter current password")
	if err != nil {
		return err
	}
	next, err := a.readPasswordString("Enter new password")
	if err != nil {
		return err
	}
	if err := a.auth.ChangePassword(ctx, current, next); err != nil {
		return err
	}
	printlnFn("Password changed.")
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.auth.Refresh(ctx); err != nil {
		return err
	}
	printlnFn("Session refreshed.")
	return nil
}

// Logout ends the session. Local credentials are removed even when the
// server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	err := a.auth.Logout(ctx)
	printlnFn("Logged out.")
	if err != nil {
		a.log.Warn(ctx, "server logout failed", "error", err)
	}
	return nil
}
