// Package messaging provides a small broker-agnostic publishing interface
// with a NATS implementation.
//
// The auth module uses it to emit fire-and-forget events (login succeeded,
// two-factor enabled, logged out) for downstream consumers.
package messaging
