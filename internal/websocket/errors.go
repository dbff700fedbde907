package websocket

import "errors"

var (
	// ErrConnectionClosed is returned when sending on a closed connection.
	ErrConnectionClosed = errors.New("connection is closed")

	// ErrSendBufferFull is returned when the outbound buffer overflows.
	ErrSendBufferFull = errors.New("send buffer is full")
)
