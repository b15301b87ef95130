package db

import (
	"context"

	"github.com/duckhanhdev/twofa/internal/auth/entity"
)

func (s *DB) CreateUser(ctx context.Context, in entity.User) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	_, err = s.db.Collection(collUsers).InsertOne(ctx, userDoc{
		ID:          in.ID,
		Email:       in.Email,
		Username:    in.Username,
		Credential:  in.Credential,
		Requires2FA: in.Requires2FA,
	})
	err = s.mapError(err)
	return err
}

func (s *DB) CreateTwoFactorSecret(ctx context.Context, in entity.TwoFactorSecret) (err error) {
	ctx, span := s.startSpan(ctx, "CreateTwoFactorSecret")
	defer func() { s.endSpan(span, err) }()

	_, err = s.db.Collection(collSecrets).InsertOne(ctx, secretDoc{
		ID:     in.ID,
		UserID: in.UserID,
		Value:  in.Value,
	})
	err = s.mapError(err)
	return err
}

func (s *DB) CreateSession(ctx context.Context, in entity.Session) (err error) {
	ctx, span := s.startSpan(ctx, "CreateSession")
	defer func() { s.endSpan(span, err) }()

	_, err = s.db.Collection(collSessions).InsertOne(ctx, sessionDoc{
		ID:          in.ID,
		UserID:      in.UserID,
		DeviceID:    in.DeviceID,
		Verified:    in.Verified,
		LastLoginAt: in.LastLoginAt,
	})
	err = s.mapError(err)
	return err
}
