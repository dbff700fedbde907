package store

import "errors"

var (
	// ErrClosed is returned for operations on a closed store.
	ErrClosed = errors.New("message store is closed")
)
