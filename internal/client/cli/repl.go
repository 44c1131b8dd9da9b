package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vendordesk/internal/client/services"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	pendingOTP() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	AdminLogin(ctx context.Context) error
	GoogleLogin(ctx context.Context, args []string) error
	VerifyOTP(ctx context.Context, args []string) error
	ResendOTP(ctx context.Context) error
	CancelOTP(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	VerifyEmail(ctx context.Context, args []string) error

	Profile(ctx context.Context, args []string) error
	Sessions(ctx context.Context, args []string) error
	ChangePassword(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error

	Products(ctx context.Context, args []string) error
	Vendor(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Onboard(ctx context.Context) error
	Stripe(ctx context.Context, args []string) error
	Metrics(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: register, login, admin, google <id-token>, forgot, reset, verify-email <user-id> <code>, exit"
	helpOTP       = "Available commands: otp <code>, resend, back, exit"
	helpSignedIn  = "Available commands: profile [edit], sessions [revoke <id>|all], password, products <sub>, vendor [edit|delete], upload <logo|banner|cover|profile> <path|url>, onboard, stripe <sub>, metrics, refresh, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the vendordesk CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a' with the remaining tokens as
// arguments. The loop exits on scanner EOF or when the user types "exit" or
// "quit".
//
// Which commands are offered depends on the session: signed out, waiting
// for a one-time code, or signed in. Errors returned by handlers are printed
// and the loop continues. When a command ends a signed-in session that the
// user did not log out of, the session-expired notice is shown.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("vd %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		wasLoggedIn := a.isLoggedIn()
		err := dispatch(ctx, a, cmd, args)
		if err != nil {
			printlnFn("Error:", errorText(err))
		}
		if wasLoggedIn && !a.isLoggedIn() && cmd != "logout" {
			printlnFn(services.SessionExpiredMessage)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	if cmd == "help" {
		switch {
		case a.isLoggedIn():
			printlnFn(helpSignedIn)
		case a.pendingOTP():
			printlnFn(helpOTP)
		default:
			printlnFn(helpSignedOut)
		}
		return nil
	}

	if a.pendingOTP() && !a.isLoggedIn() {
		switch cmd {
		case "otp":
			return a.VerifyOTP(ctx, args)
		case "resend":
			return a.ResendOTP(ctx)
		case "back":
			return a.CancelOTP(ctx)
		}
	}

	if !a.isLoggedIn() {
		switch cmd {
		case "register":
			return a.Register(ctx)
		case "login":
			return a.Login(ctx)
		case "admin":
			return a.AdminLogin(ctx)
		case "google":
			return a.GoogleLogin(ctx, args)
		case "forgot":
			return a.ForgotPassword(ctx)
		case "reset":
			return a.ResetPassword(ctx)
		case "verify-email":
			return a.VerifyEmail(ctx, args)
		}
		printlnFn("Unknown command:", cmd)
		return nil
	}

	switch cmd {
	case "profile", "whoami":
		return a.Profile(ctx, args)
	case "sessions":
		return a.Sessions(ctx, args)
	case "password":
		return a.ChangePassword(ctx)
	case "refresh":
		return a.Refresh(ctx)
	case "logout":
		return a.Logout(ctx)
	case "p", "products":
		return a.Products(ctx, args)
	case "vendor":
		return a.Vendor(ctx, args)
	case "upload":
		return a.Upload(ctx, args)
	case "onboard":
		return a.Onboard(ctx)
	case "stripe":
		return a.Stripe(ctx, args)
	case "metrics":
		return a.Metrics(ctx)
	case "verify-email":
		return a.VerifyEmail(ctx, args)
	}
	printlnFn("Unknown command:", cmd)
	return nil
}
