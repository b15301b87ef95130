package inbound

import (
	"github.com/duckhanhdev/twofa/internal/auth/entity"
	"github.com/duckhanhdev/twofa/internal/auth/usecase"
)

type LoginRequest struct {
	Email      string `json:"email"`
	Credential string `json:"credential"`
}

type SessionResponse struct {
	Verified    *bool  `json:"verified"`
	LastLoginAt *int64 `json:"last_login_at"`
}

type UserResponse struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Username    string          `json:"username"`
	Requires2FA bool            `json:"requires_2fa"`
	Session     SessionResponse `json:"session"`
}

type LogoutResponse struct {
	LoggedOut bool  `json:"logged_out"`
	Sessions  int64 `json:"sessions"`
}

type QRCodeResponse struct {
	ProvisioningURI string `json:"provisioning_uri"`
	QRImage         string `json:"qr_image"`
}

type ConfirmRequest struct {
	OTP string `json:"otp"`
}

// sessionOf maps the device-scoped state to its wire form. An unknown device
// serializes both fields as null so clients can tell "never logged in here"
// apart from "logged in, not verified".
func sessionOf(st entity.SessionState) SessionResponse {
	if !st.Known {
		return SessionResponse{}
	}

	verified := st.Verified
	lastLoginAt := st.LastLoginAt.UnixMilli()

	return SessionResponse{Verified: &verified, LastLoginAt: &lastLoginAt}
}

func userOf(out *usecase.ProfileOutput) UserResponse {
	return UserResponse{
		ID:          out.ID,
		Email:       out.Email,
		Username:    out.Username,
		Requires2FA: out.Requires2FA,
		Session:     sessionOf(out.Session),
	}
}
