package db

import (
	"context"

	"github.com/duckhanhdev/twofa/internal/auth/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	var doc userDoc
	err = s.db.Collection(collUsers).FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		return nil, s.mapError(err)
	}

	return doc.toEntity(), nil
}

func (s *DB) GetUserByID(ctx context.Context, id string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	var doc userDoc
	err = s.db.Collection(collUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		return nil, s.mapError(err)
	}

	return doc.toEntity(), nil
}

func (s *DB) GetTwoFactorSecret(ctx context.Context, userID string) (_ *entity.TwoFactorSecret, err error) {
	ctx, span := s.startSpan(ctx, "GetTwoFactorSecret")
	defer func() { s.endSpan(span, err) }()

	var doc secretDoc
	err = s.db.Collection(collSecrets).FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		return nil, s.mapError(err)
	}

	return doc.toEntity(), nil
}

func (s *DB) GetSession(ctx context.Context, userID, deviceID string) (_ *entity.Session, err error) {
	ctx, span := s.startSpan(ctx, "GetSession")
	defer func() { s.endSpan(span, err) }()

	var doc sessionDoc
	err = s.db.Collection(collSessions).
		FindOne(ctx, bson.M{"user_id": userID, "device_id": deviceID}).
		Decode(&doc)
	if err != nil {
		return nil, s.mapError(err)
	}

	return doc.toEntity(), nil
}
