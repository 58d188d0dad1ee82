package ws

import "github.com/google/uuid"

// newClientID mints the correlation id carried by an optimistic send and
// echoed back by the server on the confirming frame.
func newClientID() string {
	return uuid.NewString()
}
