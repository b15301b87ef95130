package inbound

import (
	"context"

	"github.com/duckhanhdev/twofa/internal/auth/usecase"
	"github.com/duckhanhdev/twofa/internal/pkg/router"
)

type uc interface {
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	Profile(ctx context.Context, in usecase.ProfileInput) (*usecase.ProfileOutput, error)
	Logout(ctx context.Context, in usecase.LogoutInput) (*usecase.LogoutOutput, error)

	IssueQRCode(ctx context.Context, in usecase.IssueQRCodeInput) (*usecase.IssueQRCodeOutput, error)
	Confirm(ctx context.Context, in usecase.ConfirmInput) (*usecase.ConfirmOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Auth & Session Management
	r.POST("/api/v1/auth/login", end.Login)
	r.GET("/api/v1/auth/users/:id", end.Profile)
	r.POST("/api/v1/auth/users/:id/logout", end.Logout)

	// 2FA (TOTP)
	r.GET("/api/v1/auth/users/:id/2fa/qrcode", end.IssueQRCode)
	r.POST("/api/v1/auth/users/:id/2fa/confirm", end.Confirm)
}
