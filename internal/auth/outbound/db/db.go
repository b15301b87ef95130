package db

import (
	"context"
	"errors"
	"time"

	"github.com/duckhanhdev/twofa/internal/auth/entity"
	"github.com/duckhanhdev/twofa/internal/pkg/goerror"
	"github.com/duckhanhdev/twofa/internal/pkg/instrument"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	collUsers    = "users"
	collSecrets  = "twofactor_secrets"
	collSessions = "sessions"
)

type DB struct {
	db  *mongo.Database
	ins instrument.Instrumentation
}

func NewDB(db *mongo.Database, ins instrument.Instrumentation) *DB {
	return &DB{
		db:  db,
		ins: ins,
	}
}

// EnsureIndexes creates the unique indexes the write paths rely on for
// conflict detection. Safe to call on every startup; index creation is
// idempotent.
func (s *DB) EnsureIndexes(ctx context.Context) error {
	users := []mongo.IndexModel{{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}}
	if _, err := s.db.Collection(collUsers).Indexes().CreateMany(ctx, users); err != nil {
		return err
	}

	secrets := []mongo.IndexModel{{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}}
	if _, err := s.db.Collection(collSecrets).Indexes().CreateMany(ctx, secrets); err != nil {
		return err
	}

	sessions := []mongo.IndexModel{{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "device_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}}
	if _, err := s.db.Collection(collSessions).Indexes().CreateMany(ctx, sessions); err != nil {
		return err
	}

	return nil
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return goerror.ErrNotFound
	}

	if mongo.IsDuplicateKeyError(err) {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

type userDoc struct {
	ID          string `bson:"_id"`
	Email       string `bson:"email"`
	Username    string `bson:"username"`
	Credential  string `bson:"credential"`
	Requires2FA bool   `bson:"requires_2fa"`
}

func (d userDoc) toEntity() *entity.User {
	return &entity.User{
		ID:          d.ID,
		Email:       d.Email,
		Username:    d.Username,
		Credential:  d.Credential,
		Requires2FA: d.Requires2FA,
	}
}

type secretDoc struct {
	ID     string `bson:"_id"`
	UserID string `bson:"user_id"`
	Value  []byte `bson:"value"`
}

func (d secretDoc) toEntity() *entity.TwoFactorSecret {
	return &entity.TwoFactorSecret{
		ID:     d.ID,
		UserID: d.UserID,
		Value:  d.Value,
	}
}

type sessionDoc struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	DeviceID    string    `bson:"device_id"`
	Verified    bool      `bson:"verified"`
	LastLoginAt time.Time `bson:"last_login_at"`
}

func (d sessionDoc) toEntity() *entity.Session {
	return &entity.Session{
		ID:          d.ID,
		UserID:      d.UserID,
		DeviceID:    d.DeviceID,
		Verified:    d.Verified,
		LastLoginAt: d.LastLoginAt,
	}
}
