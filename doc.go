// Package u2f implements the relying-party side of the FIDO U2F protocol:
// issuing registration and authentication challenges, and verifying the
// signed responses a U2F authenticator returns for them.
//
// The package only handles the cryptographic verification core. Storage of
// registered keys, HTTP transport, and attestation-chain trust validation
// are left to the caller.
package u2f
