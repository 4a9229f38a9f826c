// Package auth is the identity, credential, and authorization core of the
// placora backend.
//
// Account lifecycle:
//   - Accounts start inactive on signup and flip active exactly once when an
//     activation token is redeemed. Passwords may be reset any number of
//     times through a reset token; each reset bumps the account's token
//     version, retiring every previously issued session token.
//
// Tokens:
//   - Tokens are stateless signed JWTs carrying a purpose claim (session,
//     activation, password_reset). Verification enforces the purpose, so a
//     session token can never stand in for an activation or reset link.
//     There is no revocation list; signout is a client-side concern.
//
// Authorization:
//   - The Guard validates the bearer token at the request boundary and
//     attaches the resolved account to the request context. Authorize applies
//     the uniform ownership rule: a mutation is allowed when the requester
//     owns the record or carries the admin role.
package auth
