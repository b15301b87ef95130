package hash

// Hash hashes secrets and verifies plaintext against stored values.
//
// The session logic only depends on this interface, so swapping the
// credential scheme (bcrypt, argon2, a legacy plain store) never touches it.
type Hash interface {
	// Hash returns the stored representation of plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the stored value.
	Verify(stored, plaintext string) bool
}
