package hub

// Error texts unicast to the offending connection. Errors are never
// broadcast; only the triggering connection sees them.
const (
	errUsernameRequired = "Username required"
	errNotConnected     = "Not connected"
	errMessageTooLong   = "Message too long (max %d characters)"
	errHistoryFailed    = "Unable to load message history"
	errStoreFailed      = "Failed to send message"
)
