package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/duckhanhdev/twofa/internal/auth/entity"
	"github.com/duckhanhdev/twofa/internal/pkg/goerror"
	"github.com/duckhanhdev/twofa/internal/pkg/idempotency"
	"github.com/duckhanhdev/twofa/internal/pkg/mfa"
)

type IssueQRCodeInput struct {
	UserID string `validate:"required"`
}

type IssueQRCodeOutput struct {
	ProvisioningURI string
	QRImage         string
}

// IssueQRCode returns the provisioning URI and QR image for a user's TOTP
// secret, generating and persisting the secret on first call. A user's secret
// is generated at most once; regenerating would invalidate any authenticator
// app that already imported it.
func (s *Usecase) IssueQRCode(ctx context.Context, in IssueQRCodeInput) (*IssueQRCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "IssueQRCode")
	defer span.End()

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
		secret, err = s.provisionSecret(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	seed, err := s.mfaEncryptor.Decrypt(secret.Value, mfa.Scope{UserID: user.ID, Purpose: mfa.PurposeOTPSeed})
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt totp seed", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	uri := s.totp.URI(user.Username, string(seed))

	img, err := s.qr.EncodeDataURI(uri)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode provisioning qr code", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &IssueQRCodeOutput{ProvisioningURI: uri, QRImage: img}, nil
}

// provisionSecret generates and stores the user's secret exactly once.
// A redis per-key lock serializes concurrent first-time requests on top of
// the store's unique index on user_id; whoever does not insert re-reads the
// winner's row so both callers converge on the same seed.
func (s *Usecase) provisionSecret(ctx context.Context, user *entity.User) (*entity.TwoFactorSecret, error) {
	err := s.idemp.Exec(ctx, "auth:2fa_provision:"+user.ID, func(ctx context.Context) error {
		seed, _, err := s.totp.Generate(user.Username)
		if err != nil {
			return err
		}

		sealed, err := s.mfaEncryptor.Encrypt([]byte(seed), mfa.Scope{UserID: user.ID, Purpose: mfa.PurposeOTPSeed})
		if err != nil {
			return err
		}

		err = s.repoDB.CreateTwoFactorSecret(ctx, entity.TwoFactorSecret{
			ID:     s.oid.Generate(),
			UserID: user.ID,
			Value:  sealed,
		})
		if errors.Is(err, goerror.ErrConflict) {
			// another instance inserted between our read and write
			return nil
		}
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, idempotency.ErrAlreadyInProgress),
		errors.Is(err, idempotency.ErrAlreadyCompleted),
		errors.Is(err, idempotency.ErrAlreadyFailed):
		// a concurrent request holds or held the lock; the re-read below
		// resolves to whatever it persisted
	default:
		slog.ErrorContext(ctx, "failed to provision totp secret", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	secret, err := s.repoDB.GetTwoFactorSecret(ctx, user.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "totp secret not visible yet after provisioning", "user_id", user.ID)
		return nil, goerror.NewBusiness("two-factor provisioning in progress", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get totp secret", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return secret, nil
}
