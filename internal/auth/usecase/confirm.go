package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/duckhanhdev/twofa/internal/auth/entity"
	"github.com/duckhanhdev/twofa/internal/pkg/goerror"
	"github.com/duckhanhdev/twofa/internal/pkg/mfa"
)

type ConfirmInput struct {
	UserID   string `validate:"required"`
	DeviceID string `validate:"required"`
	OTP      string
}

type ConfirmOutput = ProfileOutput

// Confirm checks a TOTP code against the user's provisioned secret and, on
// success, enforces two-factor on the account and marks the calling device's
// session verified. The account flag is one-way; a later failed confirmation
// never clears it.
func (s *Usecase) Confirm(ctx context.Context, in ConfirmInput) (*ConfirmOutput, error) {
	ctx, span := s.startSpan(ctx, "Confirm")
	defer span.End()

	if in.OTP == "" {
		return nil, goerror.NewBusiness("OTP token not found", goerror.CodeNotFound)
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByID(ctx, in.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", in.UserID)
		return nil, goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	secret, err := s.repoDB.GetTwoFactorSecret(ctx, user.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "totp secret not provisioned", "user_id", user.ID)
		return nil, goerror.NewBusiness("two-factor secret not provisioned", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get totp secret", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	seed, err := s.mfaEncryptor.Decrypt(secret.Value, mfa.Scope{UserID: user.ID, Purpose: mfa.PurposeOTPSeed})
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt totp seed", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.totp.Validate(in.OTP, string(seed), s.clock.Now()) {
		slog.WarnContext(ctx, "totp code rejected", "user_id", user.ID)
		return nil, goerror.NewBusiness("wrong OTP token", goerror.CodeNotAcceptable)
	}

	user, err = s.repoDB.MarkUserRequires2FA(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark user requires 2fa", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	sess := entity.Session{
		ID:          s.oid.Generate(),
		UserID:      user.ID,
		DeviceID:    in.DeviceID,
		Verified:    true,
		LastLoginAt: s.clock.Now(),
	}
	if err := s.repoDB.ReplaceSession(ctx, sess); err != nil {
		slog.ErrorContext(ctx, "failed to repo replace session", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.goroutine.Go(ctx, func(ctx context.Context) error {
		if err := s.repoMessaging.PublishTwoFactorEnabled(ctx, TwoFactorEnabledEvent{
			UserID:   user.ID,
			Email:    user.Email,
			DeviceID: in.DeviceID,
		}); err != nil {
			slog.WarnContext(ctx, "failed to publish two-factor enabled event", "user_id", user.ID, "error", err)
		}
		return nil
	})

	return profileOf(user, entity.StateOf(&sess)), nil
}
