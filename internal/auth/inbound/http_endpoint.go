package inbound

import (
	"github.com/duckhanhdev/twofa/internal/auth/usecase"
	"github.com/duckhanhdev/twofa/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the two-factor auth workflows.
// The device identity is the client's User-Agent header, treated as an
// opaque string.
type HTTPEndpoint struct {
	uc uc
}

// Login authenticates a user by email and credential and returns the profile
// together with the calling device's session state.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:      req.Email,
		Credential: req.Credential,
		DeviceID:   r.UserAgent(),
	})
	if err != nil {
		return nil, err
	}

	return userOf(resp), nil
}

// Profile returns a user's profile and the calling device's session state.
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context(), usecase.ProfileInput{
		UserID:   r.GetParam("id"),
		DeviceID: r.UserAgent(),
	})
	if err != nil {
		return nil, err
	}

	return userOf(resp), nil
}

// Logout removes the calling device's session.
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	resp, err := h.uc.Logout(r.Context(), usecase.LogoutInput{
		UserID:   r.GetParam("id"),
		DeviceID: r.UserAgent(),
	})
	if err != nil {
		return nil, err
	}

	return LogoutResponse{
		LoggedOut: resp.LoggedOut,
		Sessions:  resp.Sessions,
	}, nil
}

// IssueQRCode returns the TOTP provisioning URI and a QR image for it,
// generating the user's secret on first call.
func (h *HTTPEndpoint) IssueQRCode(r *router.Request) (any, error) {
	resp, err := h.uc.IssueQRCode(r.Context(), usecase.IssueQRCodeInput{
		UserID: r.GetParam("id"),
	})
	if err != nil {
		return nil, err
	}

	return QRCodeResponse{
		ProvisioningURI: resp.ProvisioningURI,
		QRImage:         resp.QRImage,
	}, nil
}

// Confirm verifies a TOTP code, enabling two-factor on the account and
// marking the calling device's session verified.
func (h *HTTPEndpoint) Confirm(r *router.Request) (any, error) {
	var req ConfirmRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Confirm(r.Context(), usecase.ConfirmInput{
		UserID:   r.GetParam("id"),
		DeviceID: r.UserAgent(),
		OTP:      req.OTP,
	})
	if err != nil {
		return nil, err
	}

	return userOf(resp), nil
}
