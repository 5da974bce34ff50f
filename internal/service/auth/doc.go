// Package auth issues HS256 access tokens and checks bcrypt password hashes.
package auth
