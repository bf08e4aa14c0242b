// Package auth turns personal access tokens into short-lived JWTs.
// Tokens are fingerprinted with SHA3-256 before any store lookup, so
// the plaintext never leaves the exchange path.
package auth
