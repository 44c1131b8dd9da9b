package flows

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/client/state"
)

// OTPValidity is how long a code is advertised as valid. The server decides
// the real expiry; the countdown only gates resends.
const OTPValidity = 600 * time.Second

// CodeLength is the number of digits in a one-time code.
const CodeLength = 6

type OTPStep int

const (
	StepForm OTPStep = iota
	StepVerification
)

func (s OTPStep) String() string {
	if s == StepVerification {
		return "verification"
	}
	return "form"
}

// OTPAuth is the part of services.AuthService the OTP step drives.
type OTPAuth interface {
	VerifyLoginOTP(ctx context.Context, otp string) error
	VerifyRegistrationOTP(ctx context.Context, otp string) error
	ResendLoginOTP(ctx context.Context) error
	ResendRegistrationOTP(ctx context.Context) error
	CancelOTP()
	State() state.Auth
}

// OTPFlow is the verification step of login or registration.
type OTPFlow struct {
	auth OTPAuth
	now  func() time.Time

	mu        sync.Mutex
	step      OTPStep
	email     string
	purpose   models.OTPPurpose
	expiresAt time.Time
	err       string
}

type OTPOption func(*OTPFlow)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) OTPOption {
	return func(f *OTPFlow) { f.now = now }
}

func NewOTPFlow(auth OTPAuth, opts ...OTPOption) *OTPFlow {
	f := &OTPFlow{auth: auth, now: time.Now}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Begin moves to the verification step for email and starts the countdown.
func (f *OTPFlow) Begin(email string, purpose models.OTPPurpose) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = StepVerification
	f.email = email
	f.purpose = purpose
	f.expiresAt = f.now().Add(OTPValidity)
	f.err = ""
}

// Resume begins the step again for a pending OTP found in the auth state,
// e.g. after a restart. It reports whether there was one.
func (f *OTPFlow) Resume() bool {
	a := f.auth.State()
	if !a.RequireOTP || a.OTPEmail == "" {
		return false
	}
	purpose := a.OTPPurpose
	if purpose == models.OTPPurposeNone {
		purpose = models.OTPPurposeLogin
	}
	f.Begin(a.OTPEmail, purpose)
	return true
}

func (f *OTPFlow) Step() OTPStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *OTPFlow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

func (f *OTPFlow) Purpose() models.OTPPurpose {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.purpose
}

// Error is the message of the last failed submit or resend.
func (f *OTPFlow) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Remaining is the time left on the countdown, never negative.
func (f *OTPFlow) Remaining() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remaining()
}

func (f *OTPFlow) remaining() time.Duration {
	if f.step != StepVerification {
		return 0
	}
	if d := f.expiresAt.Sub(f.now()); d > 0 {
		return d
	}
	return 0
}

// CanResend reports whether the countdown has reached zero.
func (f *OTPFlow) CanResend() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step == StepVerification && f.remaining() == 0
}

// MarkResent restarts the countdown after a successful resend.
func (f *OTPFlow) MarkResent() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepVerification {
		return ErrWrongStep
	}
	if f.remaining() > 0 {
		return ErrResendTooEarly
	}
	f.expiresAt = f.now().Add(OTPValidity)
	return nil
}

// Back discards the pending OTP session and returns to the form.
func (f *OTPFlow) Back() {
	f.mu.Lock()
	f.step = StepForm
	f.email = ""
	f.purpose = models.OTPPurposeNone
	f.expiresAt = time.Time{}
	f.err = ""
	f.mu.Unlock()

	f.auth.CancelOTP()
}

// Submit validates code and verifies it for the flow's purpose. On success
// the flow returns to the form step with its error cleared.
func (f *OTPFlow) Submit(ctx context.Context, code string) error {
	f.mu.Lock()
	step, purpose := f.step, f.purpose
	f.mu.Unlock()

	if step != StepVerification {
		return ErrWrongStep
	}
	if err := ValidateCode(code); err != nil {
		f.setErr("Please enter a valid 6-digit OTP")
		return err
	}

	var err error
	if purpose == models.OTPPurposeRegister {
		err = f.auth.VerifyRegistrationOTP(ctx, code)
	} else {
		err = f.auth.VerifyLoginOTP(ctx, code)
	}
	if err != nil {
		f.setErr(f.auth.State().Error)
		return err
	}

	f.mu.Lock()
	f.step = StepForm
	f.expiresAt = time.Time{}
	f.err = ""
	f.mu.Unlock()
	return nil
}

// Resend asks for a new code once the countdown has ended.
func (f *OTPFlow) Resend(ctx context.Context) error {
	if !f.CanResend() {
		if f.Step() != StepVerification {
			return ErrWrongStep
		}
		return ErrResendTooEarly
	}

	var err error
	if f.Purpose() == models.OTPPurposeRegister {
		err = f.auth.ResendRegistrationOTP(ctx)
	} else {
		err = f.auth.ResendLoginOTP(ctx)
	}
	if err != nil {
		f.setErr(f.auth.State().Error)
		return err
	}

	f.setErr("")
	return f.MarkResent()
}

func (f *OTPFlow) setErr(msg string) {
	f.mu.Lock()
	f.err = msg
	f.mu.Unlock()
}

// ValidateCode accepts exactly six ASCII digits.
func ValidateCode(code string) error {
	if len(code) != CodeLength {
		return ErrInvalidCode
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return ErrInvalidCode
		}
	}
	return nil
}
