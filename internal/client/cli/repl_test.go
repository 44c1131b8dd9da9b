package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/vendordesk/internal/client/services"
	"github.com/dmitrijs2005/vendordesk/internal/common"
)

type fakeExec struct {
	loggedIn bool
	otp      bool

	calls []string
	args  [][]string

	// errs maps a command name to the error it returns.
	errs map[string]error
	// expireOn signs the user out when the named command runs.
	expireOn string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) pendingOTP() bool { return f.otp }

func (f *fakeExec) rec(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	if name == f.expireOn {
		f.loggedIn = false
	}
	return f.errs[name]
}

func (f *fakeExec) Register(context.Context) error { return f.rec("register", nil) }
func (f *fakeExec) Login(context.Context) error {
	err := f.rec("login", nil)
	if err == nil {
		f.otp = true
	}
	return err
}
func (f *fakeExec) AdminLogin(context.Context) error { return f.rec("admin", nil) }
func (f *fakeExec) GoogleLogin(_ context.Context, a []string) error {
	return f.rec("google", a)
}
func (f *fakeExec) VerifyOTP(_ context.Context, a []string) error {
	err := f.rec("otp", a)
	if err == nil {
		f.otp, f.loggedIn = false, true
	}
	return err
}
func (f *fakeExec) ResendOTP(context.Context) error { return f.rec("resend", nil) }
func (f *fakeExec) CancelOTP(context.Context) error {
	f.otp = false
	return f.rec("back", nil)
}
func (f *fakeExec) ForgotPassword(context.Context) error { return f.rec("forgot", nil) }
func (f *fakeExec) ResetPassword(context.Context) error  { return f.rec("reset", nil) }
func (f *fakeExec) VerifyEmail(_ context.Context, a []string) error {
	return f.rec("verify-email", a)
}
func (f *fakeExec) Profile(_ context.Context, a []string) error  { return f.rec("profile", a) }
func (f *fakeExec) Sessions(_ context.Context, a []string) error { return f.rec("sessions", a) }
func (f *fakeExec) ChangePassword(context.Context) error         { return f.rec("password", nil) }
func (f *fakeExec) Refresh(context.Context) error                { return f.rec("refresh", nil) }
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.rec("logout", nil)
}
func (f *fakeExec) Products(_ context.Context, a []string) error { return f.rec("products", a) }
func (f *fakeExec) Vendor(_ context.Context, a []string) error   { return f.rec("vendor", a) }
func (f *fakeExec) Upload(_ context.Context, a []string) error   { return f.rec("upload", a) }
func (f *fakeExec) Onboard(context.Context) error                { return f.rec("onboard", nil) }
func (f *fakeExec) Stripe(_ context.Context, a []string) error   { return f.rec("stripe", a) }
func (f *fakeExec) Metrics(context.Context) error                { return f.rec("metrics", nil) }

// capturePrint swaps printlnFn for a recorder for the duration of the test.
func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func runLines(exec *fakeExec, lines ...string) {
	sc := bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, sc)
}

func TestRunREPL_LoginOTPFlowAndCommands(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{}
	runLines(exec,
		"help",
		"products list",
		"login",
		"otp 123456",
		"products list 2",
		"stripe status",
		"vendor edit",
		"upload logo ./logo.png",
		"foobar",
		"exit",
		"metrics",
	)

	require.Equal(t, []string{"login", "otp", "products", "stripe", "vendor", "upload"}, exec.calls)
	require.Equal(t, []string{"list", "2"}, exec.args[2])
	require.Equal(t, []string{"logo", "./logo.png"}, exec.args[5])
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	lines := capturePrint(t)

	runLines(&fakeExec{}, "help")
	runLines(&fakeExec{otp: true}, "help")
	runLines(&fakeExec{loggedIn: true}, "help")

	require.Contains(t, *lines, helpSignedOut)
	require.Contains(t, *lines, helpOTP)
	require.Contains(t, *lines, helpSignedIn)
}

func TestRunREPL_OTPCommandsOnlyWhilePending(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{}
	runLines(exec, "otp 123456", "resend", "back")
	require.Empty(t, exec.calls)

	exec = &fakeExec{otp: true}
	runLines(exec, "resend", "back", "resend")
	require.Equal(t, []string{"resend", "back"}, exec.calls)
}

func TestRunREPL_PrintsErrors(t *testing.T) {
	lines := capturePrint(t)

	exec := &fakeExec{loggedIn: true, errs: map[string]error{
		"refresh": common.ErrNoRefreshToken,
		"vendor":  errors.New("boom"),
	}}
	runLines(exec, "refresh", "vendor")

	require.Contains(t, *lines, "Error: "+services.SessionExpiredMessage)
	require.Contains(t, *lines, "Error: boom")
}

func TestRunREPL_SessionExpiredNotice(t *testing.T) {
	lines := capturePrint(t)

	exec := &fakeExec{loggedIn: true, expireOn: "products"}
	runLines(exec, "products list", "products list")

	require.Equal(t, []string{"products"}, exec.calls)
	require.Contains(t, *lines, services.SessionExpiredMessage)
}

func TestRunREPL_LogoutHasNoExpiredNotice(t *testing.T) {
	lines := capturePrint(t)

	runLines(&fakeExec{loggedIn: true}, "logout")

	require.NotContains(t, *lines, services.SessionExpiredMessage)
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{loggedIn: true}
	runLines(exec, "", "quit", "profile")

	require.Empty(t, exec.calls)
}
