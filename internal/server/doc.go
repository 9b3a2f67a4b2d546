// Package server implements the client's only HTTP surface: the local
// callback endpoint that receives the identity provider's redirect during
// the OAuth sign-in flow.
//
// [Router] and [Middleware] keep the handler wiring testable; [OAuthHandler]
// receives the provider redirect, validates state, exchanges the code for a
// token, and hands the result back to the waiting command over a channel.
package server
