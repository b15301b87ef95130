package db

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *DB) DeleteSessions(ctx context.Context, userID, deviceID string) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteSessions")
	defer func() { s.endSpan(span, err) }()

	result, err := s.db.Collection(collSessions).
		DeleteMany(ctx, bson.M{"user_id": userID, "device_id": deviceID})
	if err != nil {
		return 0, s.mapError(err)
	}

	return result.DeletedCount, nil
}

// Compact asks the storage engine to reclaim space on the sessions
// collection. It needs elevated privileges; callers treat failure as
// advisory.
func (s *DB) Compact(ctx context.Context) (err error) {
	ctx, span := s.startSpan(ctx, "Compact")
	defer func() { s.endSpan(span, err) }()

	err = s.db.RunCommand(ctx, bson.D{{Key: "compact", Value: collSessions}}).Err()
	return err
}
