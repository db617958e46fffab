package notification

import "context"

// Message is a plain-text mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages. Implementations return an error when the message
// was not accepted for delivery.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
