// Package flows holds the multi-step interactions of the CLI: the OTP
// verification step shared by login and registration, and the vendor
// onboarding wizard. Flows hold only step state and validation; network
// calls go through the services.
package flows
