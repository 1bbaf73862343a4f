// Package queue publishes account lifecycle events to the message broker
// and runs the background consumer that writes them to the audit log.
package queue

import "time"

// Event kinds published by the user handler.
const (
	EventSignup        = "signup"
	EventPasswordReset = "password_reset"
)

// AccountEvent is the payload published to the account.events queue.
type AccountEvent struct {
	Kind   string    `json:"kind"`
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	At     time.Time `json:"at"`
}

// Publisher delivers account events. Implementations are best-effort; the
// request flow never fails because an event could not be published.
type Publisher interface {
	Publish(event AccountEvent)
}
