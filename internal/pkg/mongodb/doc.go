// Package mongodb provides MongoDB client initialization with retry and a
// health probe.
//
// Initial connects are retried with a constant backoff so brief network
// hiccups or managed-cluster cold starts do not fail application startup.
package mongodb
