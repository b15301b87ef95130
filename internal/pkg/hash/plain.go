package hash

import "crypto/subtle"

// Plain stores credentials as-is and compares in constant time.
//
// This exists for local fixtures and seeded demo accounts only. Production
// deployments must configure the bcrypt driver instead.
type Plain struct{}

// NewPlain returns a plaintext comparator.
func NewPlain() *Plain {
	return &Plain{}
}

// Hash returns plaintext unchanged.
func (*Plain) Hash(plaintext string) ([]byte, error) {
	return []byte(plaintext), nil
}

// Verify compares stored and plaintext in constant time.
func (*Plain) Verify(stored, plaintext string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plaintext)) == 1
}
