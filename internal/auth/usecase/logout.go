package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/duckhanhdev/twofa/internal/pkg/goerror"
)

type LogoutInput struct {
	UserID   string `validate:"required"`
	DeviceID string `validate:"required"`
}

type LogoutOutput struct {
	LoggedOut bool
	Sessions  int64
}

// Logout removes every session row for the (user, device) pair. Deleting all
// matches rather than one guards against duplicate rows left by the historic
// upsert race. Logging out with no session is not an error.
func (s *Usecase) Logout(ctx context.Context, in LogoutInput) (*LogoutOutput, error) {
	ctx, span := s.startSpan(ctx, "Logout")
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

	count, err := s.repoDB.DeleteSessions(ctx, user.ID, in.DeviceID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete sessions", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	// housekeeping, never blocks the logout result
	if err := s.repoDB.Compact(ctx); err != nil {
		slog.WarnContext(ctx, "store compaction failed", "error", err)
	}

	s.goroutine.Go(ctx, func(ctx context.Context) error {
		if err := s.repoMessaging.PublishLoggedOut(ctx, LoggedOutEvent{
			UserID:   user.ID,
			DeviceID: in.DeviceID,
			Sessions: count,
		}); err != nil {
			slog.WarnContext(ctx, "failed to publish logout event", "user_id", user.ID, "error", err)
		}
		return nil
	})

	return &LogoutOutput{LoggedOut: true, Sessions: count}, nil
}
