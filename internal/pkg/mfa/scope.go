package mfa

// Purpose identifies the MFA encryption purpose.
type Purpose string

// PurposeOTPSeed scopes encryption to OTP seeds.
const PurposeOTPSeed Purpose = "otp_seed"

// Scope binds encryption to MFA-specific identifiers.
// This is used as AAD (Additional Authenticated Data) in AES-GCM, so a
// ciphertext sealed for one user cannot be opened for another.
type Scope struct {
	// UserID is the user identifier for scoping.
	UserID string
	// Purpose is the encryption purpose.
	Purpose Purpose
}
