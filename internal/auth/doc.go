// Package auth provides account registration, login and session tokens for
// EcoBuild Core.
//
// It implements:
//   - Argon2id password hashing in PHC format (OWASP 2025 recommendation)
//   - HS256 session tokens carrying the user ID and a server-side session ID
//   - Session records in SQLite so logout revokes a token before it expires
//
// Lookup failures are reported separately: ErrUserNotFound for an unknown
// username and ErrIncorrectPassword for a wrong password.
package auth
