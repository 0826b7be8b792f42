package auth

import "errors"

var (
	// ErrInvalidCredentials covers both "no such user" and "wrong password".
	// The two cases are deliberately indistinguishable to the caller so the
	// login form cannot be used to enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrDuplicateUsername is returned when registration hits the datastore
	// uniqueness constraint on username.
	ErrDuplicateUsername = errors.New("username already taken")
)
