package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/vendordesk/internal/client/flows"
	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/common"
)

// returnWait bounds how long Onboard waits for the browser to come back.
var returnWait = 10 * time.Minute

const stripeUsage = "stripe status | connect [express|standard|custom] | link | direct | payout <daily|weekly|monthly|manual> [minimum] | disconnect | return <complete|canceled>"

// Stripe dispatches the Connect subcommands.
func (a *App) Stripe(ctx context.Context, args []string) error {
	sub := "status"
	if len(args) > 0 {
		sub = args[0]
	}
	rest := args[min(1, len(args)):]

	switch sub {
	case "status":
		st, err := a.stripe.GetAccountStatus(ctx)
		if err != nil {
			return err
		}
		if st == nil {
			return common.ErrVendorIDRequired
		}
		printStripeStatus(*st)
		return nil

	case "connect":
		accountType := models.StripeAccountExpress
		if len(rest) > 0 {
			accountType = models.StripeAccountType(strings.ToUpper(rest[0]))
		}
		resp, err := a.stripe.CreateConnectAccount(ctx, accountType)
		if err != nil {
			return err
		}
		printlnFn("Connect account:", resp.AccountID)
		if link := resp.Link(); link != "" {
			printlnFn("Finish setup at:", link)
		}
		return nil

	case "link", "direct":
		get := a.stripe.GetOnboardingLink
		if sub == "direct" {
			get = a.stripe.CreateDirectLink
		}
		url, err := get(ctx)
		if err != nil {
			return err
		}
		if url == "" {
			printlnFn("Onboarding is already complete.")
			return nil
		}
		printlnFn("Open this link to continue onboarding:", url)
		return nil

	case "payout":
		if len(rest) == 0 || len(rest) > 2 {
			return usage("stripe payout <daily|weekly|monthly|manual> [minimum]")
		}
		var minimum *float64
		if len(rest) == 2 {
			m, err := optionalFloat(rest[1])
			if err != nil {
				return fmt.Errorf("%w: %v", common.ErrValidation, err)
			}
			minimum = m
		}
		if err := a.stripe.UpdatePayoutSchedule(ctx, rest[0], minimum); err != nil {
			return err
		}
		printlnFn("Payout schedule updated.")
		return nil

	case "disconnect":
		ok, err := GetConfirm(a.reader, "Disconnect the Stripe account?", a.out)
		if err != nil || !ok {
			return err
		}
		if err := a.stripe.Disconnect(ctx); err != nil {
			return err
		}
		printlnFn("Stripe account disconnected.")
		return nil

	case "return":
		if len(rest) != 1 {
			return usage("stripe return <complete|canceled>")
		}
		return a.finishReturn(ctx, rest[0])
	}
	return usage(stripeUsage)
}

func printStripeStatus(st models.StripeAccountStatus) {
	printlnFn("Account:    ", st.StripeAccountID)
	printlnFn("Status:     ", st.Status)
	printlnFn("Details:    ", st.DetailsSubmitted)
	printlnFn("Charges:    ", st.ChargesEnabled)
	printlnFn("Payouts:    ", st.PayoutsEnabled)
	if st.IsTestMode {
		printlnFn("Mode:        test")
	}
	if st.OnboardingComplete() {
		printlnFn("Onboarding is complete.")
	}
}

// finishReturn applies the setup_mode the hosted onboarding came back with.
func (a *App) finishReturn(ctx context.Context, setupMode string) error {
	var err error
	if a.onboarding != nil {
		err = a.onboarding.HandleReturn(ctx, setupMode)
	} else {
		var mode models.SetupMode
		if mode, err = flows.ParseSetupMode(setupMode); err == nil {
			err = a.stripe.HandleRedirect(ctx, mode)
		}
	}
	if err != nil {
		return err
	}

	if msg := a.stripe.State().Error; msg != "" {
		printlnFn(msg)
		return nil
	}
	a.onboarding = nil
	printlnFn("Stripe onboarding complete. Your store is ready.")
	return nil
}

// Onboard walks through the vendor onboarding wizard: store basics,
// business details and the Stripe connection. A wizard left half way is
// resumed on the next call.
func (a *App) Onboard(ctx context.Context) error {
	if a.onboarding == nil {
		if a.auth.State().User.VendorID() != "" {
			printlnFn("You already have a vendor profile. Use 'stripe link' to continue payment setup.")
			return nil
		}
		a.onboarding = flows.NewOnboarding(a.auth, a.stripe)
	}
	o := a.onboarding

	for o.Step() < flows.StepPaymentConnection {
		printlnFn(fmt.Sprintf("Step %d of 3: %s", int(o.Step())+1, o.Step()))
		var err error
		switch o.Step() {
		case flows.StepStoreBasics:
			err = a.readStoreBasics(&o.Form)
		case flows.StepBusinessDetails:
			err = a.readBusinessDetails(&o.Form)
		}
		if err != nil {
			return err
		}

		if err := o.Next(ctx); err != nil {
			var fe flows.FieldErrors
			if !errors.As(err, &fe) {
				return err
			}
			for _, field := range slices.Sorted(maps.Keys(fe)) {
				printlnFn(" -", fe[field])
			}
			again, cerr := GetConfirm(a.reader, "Fix these fields now?", a.out)
			if cerr != nil || !again {
				return cerr
			}
		}
	}

	printlnFn(fmt.Sprintf("Step 3 of 3: %s", o.Step()))
	if err := a.readAccountType(&o.Form); err != nil {
		return err
	}

	url, err := o.Connect(ctx)
	if err != nil {
		return err
	}
	if url == "" {
		a.onboarding = nil
		printlnFn("Stripe onboarding complete. Your store is ready.")
		return nil
	}
	return a.awaitReturn(ctx, url)
}

// awaitReturn prints the hosted onboarding link and waits for the browser to
// hit the local return listener. Without a listener the user finishes with
// "stripe return".
func (a *App) awaitReturn(ctx context.Context, url string) error {
	printlnFn("Open this link to connect your bank account:")
	printlnFn(url)

	if a.returns == nil {
		printlnFn("When done, run: stripe return complete")
		return nil
	}
	if err := a.returns.Start(); err != nil {
		a.log.Warn(ctx, "return listener unavailable", "error", err)
		printlnFn("When done, run: stripe return complete")
		return nil
	}
	printlnFn("Waiting for the return on", a.returns.ReturnURL())

	wctx, cancel := context.WithTimeout(ctx, returnWait)
	defer cancel()
	res, err := a.returns.Wait(wctx)
	if err != nil {
		printlnFn("No return received. When done, run: stripe return complete")
		return nil
	}
	return a.finishReturn(ctx, string(res.SetupMode))
}

func (a *App) readStoreBasics(f *models.VendorProfileInput) error {
	name, err := getSimpleText(a.reader, withDefault("Store name", f.StoreName), a.out)
	if err != nil {
		return err
	}
	if name != "" {
		f.StoreName = name
	}
	desc, err := GetMultiline(a.reader, "Store description (at least 20 characters)", a.out)
	if err != nil {
		return err
	}
	if desc != "" {
		f.Description = desc
	}
	return nil
}

func (a *App) readBusinessDetails(f *models.VendorProfileInput) error {
	bt, err := getSimpleText(a.reader, withDefault("Business type (INDIVIDUAL, PARTNERSHIP, CORPORATION, LLC, NON_PROFIT)", string(f.BusinessType)), a.out)
	if err != nil {
		return err
	}
	if bt != "" {
		f.BusinessType = models.BusinessType(strings.ToUpper(bt))
	}

	ad := &f.BusinessAddress
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Street", &ad.Street},
		{"City", &ad.City},
		{"State", &ad.State},
		{"Postal code", &ad.PostalCode},
		{"Country", &ad.Country},
	}
	for _, fl := range fields {
		v, err := getSimpleText(a.reader, withDefault(fl.prompt, *fl.dst), a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*fl.dst = v
		}
	}
	return nil
}

func (a *App) readAccountType(f *models.VendorProfileInput) error {
	t, err := getSimpleText(a.reader, withDefault("Stripe account type (EXPRESS, STANDARD, CUSTOM)", string(f.StripeAccountType)), a.out)
	if err != nil {
		return err
	}
	switch at := models.StripeAccountType(strings.ToUpper(t)); at {
	case "":
	case models.StripeAccountExpress, models.StripeAccountStandard, models.StripeAccountCustom:
		f.StripeAccountType = at
	default:
		return fmt.Errorf("%w: unknown account type %q", common.ErrValidation, t)
	}
	return nil
}

func withDefault(prompt, current string) string {
	if current == "" {
		return prompt
	}
	return prompt + " [" + current + "]"
}
