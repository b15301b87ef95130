package db

import (
	"context"
	"time"

	"github.com/duckhanhdev/twofa/internal/auth/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (s *DB) MarkUserRequires2FA(ctx context.Context, id string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "MarkUserRequires2FA")
	defer func() { s.endSpan(span, err) }()

	var doc userDoc
	err = s.db.Collection(collUsers).
		FindOneAndUpdate(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"requires_2fa": true}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).
		Decode(&doc)
	if err != nil {
		return nil, s.mapError(err)
	}

	return doc.toEntity(), nil
}

func (s *DB) TouchSession(ctx context.Context, userID, deviceID string, at time.Time) (_ *entity.Session, err error) {
	ctx, span := s.startSpan(ctx, "TouchSession")
	defer func() { s.endSpan(span, err) }()

	var doc sessionDoc
	err = s.db.Collection(collSessions).
		FindOneAndUpdate(ctx,
			bson.M{"user_id": userID, "device_id": deviceID},
			bson.M{"$set": bson.M{"last_login_at": at}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).
		Decode(&doc)
	if err != nil {
		return nil, s.mapError(err)
	}

	return doc.toEntity(), nil
}

// ReplaceSession upserts the single session row for (user_id, device_id).
// The unique index keys the upsert so concurrent writers collapse onto one
// document.
func (s *DB) ReplaceSession(ctx context.Context, in entity.Session) (err error) {
	ctx, span := s.startSpan(ctx, "ReplaceSession")
	defer func() { s.endSpan(span, err) }()

	_, err = s.db.Collection(collSessions).UpdateOne(ctx,
		bson.M{"user_id": in.UserID, "device_id": in.DeviceID},
		bson.M{
			"$set": bson.M{
				"verified":      in.Verified,
				"last_login_at": in.LastLoginAt,
			},
			"$setOnInsert": bson.M{"_id": in.ID},
		},
		options.UpdateOne().SetUpsert(true),
	)
	err = s.mapError(err)
	return err
}
