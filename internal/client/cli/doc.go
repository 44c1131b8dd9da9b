// Package cli provides the interactive vendordesk command-line client.
//
// The App restores the previous session on start, then runs a REPL over the
// services: sign-in with one-time codes, the vendor onboarding wizard,
// product catalog management, account images and Stripe Connect.
//
// Commands that hit the backend rely on the refresh coordinator behind the
// services; when a refresh fails the session is dropped and the prompt falls
// back to the signed-out command set.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
