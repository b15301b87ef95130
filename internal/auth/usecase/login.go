package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/duckhanhdev/twofa/internal/auth/entity"
	"github.com/duckhanhdev/twofa/internal/pkg/goerror"
)

type LoginInput struct {
	Email      string `validate:"required,email"`
	Credential string `validate:"required"`
	DeviceID   string `validate:"required"`
}

type LoginOutput = ProfileOutput

// Login authenticates a user and surfaces the device-scoped session state.
// The first login from a device lazily creates an unverified session row;
// later logins only refresh its last-login timestamp.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	email := strings.TrimSpace(in.Email)
	user, err := s.repoDB.GetUserByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "email", email)
		return nil, goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.credential.Verify(user.Credential, in.Credential) {
		slog.WarnContext(ctx, "credential mismatch", "user_id", user.ID)
		return nil, goerror.NewBusiness("wrong credential", goerror.CodeNotAcceptable)
	}

	sess, err := s.ensureSession(ctx, user.ID, in.DeviceID)
	if err != nil {
		return nil, err
	}

	s.goroutine.Go(ctx, func(ctx context.Context) error {
		if err := s.repoMessaging.PublishLoginSucceeded(ctx, LoginSucceededEvent{
			UserID:   user.ID,
			Email:    user.Email,
			DeviceID: in.DeviceID,
			Verified: sess.Verified,
		}); err != nil {
			slog.WarnContext(ctx, "failed to publish login event", "user_id", user.ID, "error", err)
		}
		return nil
	})

	return profileOf(user, entity.StateOf(sess)), nil
}

// ensureSession finds the session for (userID, deviceID) or creates a fresh
// unverified one. The store enforces a unique index on the pair; losing the
// concurrent-create race is resolved by re-reading the winner's row.
func (s *Usecase) ensureSession(ctx context.Context, userID, deviceID string) (*entity.Session, error) {
	now := s.clock.Now()

	sess, err := s.repoDB.GetSession(ctx, userID, deviceID)
	if err == nil {
		touched, err := s.repoDB.TouchSession(ctx, userID, deviceID, now)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo touch session", "user_id", userID, "error", err)
			return nil, goerror.NewServer(err)
		}
		return touched, nil
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get session", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	fresh := entity.Session{
		ID:          s.oid.Generate(),
		UserID:      userID,
		DeviceID:    deviceID,
		Verified:    false,
		LastLoginAt: now,
	}

	err = s.repoDB.CreateSession(ctx, fresh)
	if errors.Is(err, goerror.ErrConflict) {
		// lost the upsert race, the winner's row is authoritative
		sess, err = s.repoDB.GetSession(ctx, userID, deviceID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo re-read session after conflict", "user_id", userID, "error", err)
			return nil, goerror.NewServer(err)
		}
		return sess, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create session", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &fresh, nil
}
