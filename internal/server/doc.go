// Package server provides the short-lived local HTTP surface the closet
// client uses during browser login.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes
// first), following the standard Go pattern. [BasicRouter] uses
// [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow:
// it validates the state parameter (CSRF protection), exchanges the
// authorization code for tokens, and sends the result through a channel.
// Only one callback is processed to prevent replay.
//
// # Usage
//
// When the user runs `closet auth login`, [RunCallback] starts a
// temporary server on the configured localhost port, the browser is sent
// to the identity provider's hosted login page, and the server shuts
// down as soon as it has received the token (or the flow times out).
package server
