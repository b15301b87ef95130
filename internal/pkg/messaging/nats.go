package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"
)

var (
	// ErrNATSSubjectRequired is returned when the subject is empty.
	ErrNATSSubjectRequired = errors.New("pkgmessage: nats subject is required")
	// ErrNATSURLRequired is returned when the NATS server URL is missing.
	ErrNATSURLRequired = errors.New("pkgmessage: nats url is required")
	// ErrNATSClosed is returned when publishing after Close.
	ErrNATSClosed = errors.New("pkgmessage: nats client is closed")
)

// NATSConfig configures the NATS implementation.
type NATSConfig struct {
	// URL is the NATS server address.
	URL string

	// Options are passed to the NATS client.
	Options []nats.Option
}

// NATS is a Publisher backed by core NATS.
type NATS struct {
	conn   *nats.Conn
	closed atomic.Bool
}

// NewNATS constructs a NATS publisher.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("pkgmessage: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Publish sends the message to the given subject.
func (n *NATS) Publish(ctx context.Context, destination string, msg OutgoingMessage) error {
	if destination == "" {
		return ErrNATSSubjectRequired
	}
	if n.closed.Load() {
		return ErrNATSClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := nats.NewMsg(destination)
	m.Data = msg.Body
	for _, h := range msg.Headers {
		m.Header.Add(h.Key, string(h.Value))
	}

	if err := n.conn.PublishMsg(m); err != nil {
		return fmt.Errorf("pkgmessage: nats publish: %w", err)
	}
	return nil
}

// Healthcheck returns a probe reporting the connection status.
func (n *NATS) Healthcheck() func(context.Context) error {
	return func(context.Context) error {
		if n.closed.Load() || !n.conn.IsConnected() {
			return errors.New("pkgmessage: nats is not connected")
		}
		return nil
	}
}

// Close drains and closes the NATS connection.
func (n *NATS) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return nil
	}
	return n.conn.Drain()
}
