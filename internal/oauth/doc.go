// Package oauth implements the authorization proxy that sits between MCP
// clients and LinkedIn's OAuth 2.0 implementation.
//
// MCP clients expect a standards-compliant authorization server: metadata
// discovery (RFC 8414), dynamic client registration (RFC 7591), and an
// authorization-code flow with PKCE. LinkedIn offers none of that — it has a
// fixed application registry and no PKCE support. This package bridges the
// two worlds:
//
//   - Downstream, it is an authorization server. Clients discover endpoints,
//     register dynamically, and run a code flow (with optional PKCE) against
//     this process.
//   - Upstream, it is a single registered LinkedIn application. End users
//     authenticate at LinkedIn; the proxy exchanges the provider code for
//     LinkedIn credentials using its own client id and secret.
//
// The bridge is held together by four in-memory stores and a token signer:
//
//   - TransactionStore correlates an in-flight authorize request with the
//     eventual provider callback (10 minute TTL).
//   - AuthCodeStore holds single-use downstream authorization codes bound to
//     the LinkedIn credentials obtained at exchange time (5 minute TTL).
//   - SessionStore maps the subject of a proxy-issued access token back to
//     those LinkedIn credentials on every tool call (1 hour TTL).
//   - ClientStore records dynamically registered clients for the process
//     lifetime.
//   - Signer mints and verifies the proxy's own HMAC-signed bearer tokens.
//
// Nothing is persisted. A restart drops all in-flight flows and sessions and
// clients must re-authenticate, which is acceptable at the 1 hour session
// TTL. Expired entries are removed by a Reaper owned by the server lifecycle.
package oauth
