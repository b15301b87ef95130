package entity

import "time"

// User is the identity record. Credential is whatever the configured
// comparator understands (a bcrypt hash in production, plaintext only for
// local fixtures) and must never leave the service.
type User struct {
	ID          string
	Email       string
	Username    string
	Credential  string
	Requires2FA bool
}

// TwoFactorSecret holds the TOTP seed for a user, at most one per user.
// The stored value is AES-GCM ciphertext; the plaintext seed only exists in
// memory while building a provisioning URI or validating a code.
type TwoFactorSecret struct {
	ID     string
	UserID string
	Value  []byte
}

// Session tracks per-device verification state. At most one row exists per
// (UserID, DeviceID) pair.
type Session struct {
	ID          string
	UserID      string
	DeviceID    string
	Verified    bool
	LastLoginAt time.Time
}

// SessionState is the device-scoped view merged into profile responses.
// Known reports whether a session row exists at all; a user who never logged
// in from a device has Known=false, which is a valid state and not an error.
type SessionState struct {
	Known       bool
	Verified    bool
	LastLoginAt time.Time
}

// StateOf maps a session lookup result to the response view.
func StateOf(s *Session) SessionState {
	if s == nil {
		return SessionState{}
	}
	return SessionState{Known: true, Verified: s.Verified, LastLoginAt: s.LastLoginAt}
}
