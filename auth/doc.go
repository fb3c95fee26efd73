// Package auth implements the token based authentication and request
// authorization subsystem: issuance of access/refresh session pairs,
// stateless verification of bearer credentials, resolution of verified
// subjects to live account records, and the request interception policies
// that compose them.
//
// Token classes:
//   - Session tokens (access and refresh) share the session signing key and
//     are discriminated by a type claim; a long-lived refresh token is never
//     accepted as an access credential. Access tokens carry an informational
//     issuance snapshot of the account; authorization decisions never trust
//     it and always re-read the live record through the AccountStore
//     collaborator.
//   - Password reset tokens carry their own type claim and are signed with a
//     separate key, so neither token class can be forged from the other's
//     key.
//
// Policies:
//   - RequireAuth and RequireActiveUser fail closed with a 401 and a
//     kind-specific message for every verification or resolution failure.
//   - OptionalAuth degrades every failure to "no identity" and never blocks
//     a request.
//   - RequireAdmin composes like RequireAuth with a single pluggable role
//     decision point.
//
// Account persistence, routing, and the resource endpoints behind the gate
// are external collaborators; this package only decides whether a request
// carries a valid, active identity and which identity that is.
package auth
