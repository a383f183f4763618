// Package auth issues and validates the bearer tokens used by the API and
// hashes user passwords with bcrypt.
package auth
