package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/duckhanhdev/twofa/internal/auth/entity"
	"github.com/duckhanhdev/twofa/internal/pkg/goerror"
)

type ProfileInput struct {
	UserID   string `validate:"required"`
	DeviceID string `validate:"required"`
}

// Profile returns the user merged with the verification state of the calling
// device. A device that never logged in reports unset session state, which is
// a valid un-escalated state and not an error.
func (s *Usecase) Profile(ctx context.Context, in ProfileInput) (*ProfileOutput, error) {
	ctx, span := s.startSpan(ctx, "Profile")
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

	sess, err := s.repoDB.GetSession(ctx, user.ID, in.DeviceID)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get session", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return profileOf(user, entity.StateOf(sess)), nil
}
