package usecase

import (
	"context"
	"time"

	"github.com/duckhanhdev/twofa/internal/auth/entity"
	"github.com/duckhanhdev/twofa/internal/pkg/clock"
	"github.com/duckhanhdev/twofa/internal/pkg/config"
	"github.com/duckhanhdev/twofa/internal/pkg/goroutine"
	"github.com/duckhanhdev/twofa/internal/pkg/hash"
	"github.com/duckhanhdev/twofa/internal/pkg/idempotency"
	"github.com/duckhanhdev/twofa/internal/pkg/instrument"
	"github.com/duckhanhdev/twofa/internal/pkg/mfa"
	"github.com/duckhanhdev/twofa/internal/pkg/otp"
	"github.com/duckhanhdev/twofa/internal/pkg/qrcode"
	"github.com/duckhanhdev/twofa/internal/pkg/uid"
	"github.com/duckhanhdev/twofa/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type LoginSucceededEvent struct {
	UserID   string
	Email    string
	DeviceID string
	Verified bool
}

type TwoFactorEnabledEvent struct {
	UserID   string
	Email    string
	DeviceID string
}

type LoggedOutEvent struct {
	UserID   string
	DeviceID string
	Sessions int64
}

type repoMessaging interface {
	PublishLoginSucceeded(ctx context.Context, msg LoginSucceededEvent) error
	PublishTwoFactorEnabled(ctx context.Context, msg TwoFactorEnabledEvent) error
	PublishLoggedOut(ctx context.Context, msg LoggedOutEvent) error
}

type repoDB interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
	MarkUserRequires2FA(ctx context.Context, id string) (*entity.User, error)

	GetTwoFactorSecret(ctx context.Context, userID string) (*entity.TwoFactorSecret, error)
	CreateTwoFactorSecret(ctx context.Context, in entity.TwoFactorSecret) error

	GetSession(ctx context.Context, userID, deviceID string) (*entity.Session, error)
	CreateSession(ctx context.Context, in entity.Session) error
	TouchSession(ctx context.Context, userID, deviceID string, at time.Time) (*entity.Session, error)
	ReplaceSession(ctx context.Context, in entity.Session) error
	DeleteSessions(ctx context.Context, userID, deviceID string) (int64, error)

	Compact(ctx context.Context) error
}

// Usecase is the two-factor session state machine: credential check, lazy
// device-session creation, secret provisioning, OTP confirmation and logout.
// It is stateless; every call re-reads the store.
type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	credential    hash.Hash
	mfaEncryptor  mfa.Encryptor
	oid           uid.StringID
	totp          otp.OTP
	qr            qrcode.Encoder
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	Credential    hash.Hash
	MFAEncryptor  mfa.Encryptor
	OID           uid.StringID
	Totp          otp.OTP
	QR            qrcode.Encoder
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		credential:    dep.Credential,
		mfaEncryptor:  dep.MFAEncryptor,
		oid:           dep.OID,
		totp:          dep.Totp,
		qr:            dep.QR,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

// ProfileOutput is the user view returned by login, profile and confirm
// operations. It never carries the credential field.
type ProfileOutput struct {
	ID          string
	Email       string
	Username    string
	Requires2FA bool
	Session     entity.SessionState
}

func profileOf(u *entity.User, st entity.SessionState) *ProfileOutput {
	return &ProfileOutput{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Requires2FA: u.Requires2FA,
		Session:     st,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}
