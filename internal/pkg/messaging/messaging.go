package messaging

import (
	"context"
	"io"
)

// Publisher publishes messages to a destination (subject/topic).
//
// Implementations can wrap NATS or any other messaging system; the auth
// module only needs fire-and-forget event publishing.
type Publisher interface {
	io.Closer

	// Publish sends a message to the destination.
	Publish(ctx context.Context, destination string, msg OutgoingMessage) error
}

// OutgoingMessage is a broker-agnostic message to be published.
type OutgoingMessage struct {
	// Body is the message payload.
	Body []byte

	// Headers support arbitrary binary values and duplicate keys.
	Headers []Header
}

// Header is a key/value pair used for message headers.
type Header struct {
	// Key is the header name.
	Key string
	// Value is the header value.
	Value []byte
}
