// Package auth implements the Session/Auth Gateway of the diary client.
//
// A Gateway owns the current session. It is restored from the local store at
// start-up, replaced on sign-in, refreshed on demand when the access token
// expires and torn down at sign-out. Subscribers are told about every change
// synchronously, on the goroutine that caused it.
//
// Sign-in runs the OAuth authorization-code flow with PKCE against a
// GoTrue-compatible auth server: the user opens the authorize URL in a
// browser, the provider redirects to a loopback listener and the code is
// exchanged for tokens. A pasted access token is accepted as well.
package auth
