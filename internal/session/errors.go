package session

import "errors"

var (
	// ErrUsernameRequired is returned when joining with an empty display name.
	ErrUsernameRequired = errors.New("username required")

	// ErrNoSession is returned for operations on a connection that never joined.
	ErrNoSession = errors.New("no session for connection")
)
