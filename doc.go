// Package cashtrackr is the backend of a personal finance tracker. The
// engineering weight sits in the account subsystem; budgets exist to give
// ownership enforcement something to protect.
//
// Account lifecycle:
//   - Users carry a Confirmed flag and a single dual-purpose Token slot
//     persisted via Bun. Registration parks the account as unconfirmed with
//     a confirmation token; confirming consumes the token; a password reset
//     re-populates the same slot. At most one opaque token is live per
//     account and issuing a new one invalidates the previous.
//   - AccountService centralizes the transitions: Register, ConfirmAccount,
//     Login, the reset token flow, and authenticated password and profile
//     changes. All state lives in the store, nothing is cached between
//     requests.
//
// Credentials:
//   - TokenService issues and verifies HS256 bearer credentials. They are
//     stateless: there is no revocation list, a credential stays valid
//     until expiry even after a password change.
//   - Opaque six digit tokens are compared by store equality only, never
//     decoded.
//
// HTTP surface:
//   - RequireAuth is the bearer gate: it verifies the credential and
//     re-loads the principal from the store before every protected handler.
//   - The budget gates run in a fixed order per request: well-formed id,
//     then existence, then ownership.
package cashtrackr
