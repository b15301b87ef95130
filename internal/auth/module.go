package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/duckhanhdev/twofa/internal/auth/entity"
	"github.com/duckhanhdev/twofa/internal/auth/inbound"
	"github.com/duckhanhdev/twofa/internal/auth/outbound/db"
	"github.com/duckhanhdev/twofa/internal/auth/outbound/mq"
	"github.com/duckhanhdev/twofa/internal/auth/usecase"
	"github.com/duckhanhdev/twofa/internal/pkg/clock"
	"github.com/duckhanhdev/twofa/internal/pkg/config"
	"github.com/duckhanhdev/twofa/internal/pkg/goerror"
	"github.com/duckhanhdev/twofa/internal/pkg/goroutine"
	"github.com/duckhanhdev/twofa/internal/pkg/hash"
	"github.com/duckhanhdev/twofa/internal/pkg/idempotency"
	"github.com/duckhanhdev/twofa/internal/pkg/instrument"
	"github.com/duckhanhdev/twofa/internal/pkg/messaging"
	"github.com/duckhanhdev/twofa/internal/pkg/mfa"
	"github.com/duckhanhdev/twofa/internal/pkg/otp"
	"github.com/duckhanhdev/twofa/internal/pkg/qrcode"
	"github.com/duckhanhdev/twofa/internal/pkg/router"
	"github.com/duckhanhdev/twofa/internal/pkg/uid"
	"github.com/duckhanhdev/twofa/internal/pkg/validator"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type Dependency struct {
	DBConn       *mongo.Database            `validate:"required"`
	Goroutine    *goroutine.Manager         `validate:"required"`
	Router       *router.Router             `validate:"required"`
	Idempotency  idempotency.Idempotency    `validate:"required"`
	Messaging    messaging.Publisher        `validate:"required"`
	Config       config.Config              `validate:"required"`
	Instrument   instrument.Instrumentation `validate:"required"`
	OID          uid.StringID               `validate:"required"`
	Credential   hash.Hash                  `validate:"required"`
	MFAEncryptor mfa.Encryptor              `validate:"required"`
	Clock        clock.Clocker              `validate:"required"`
	Totp         otp.OTP                    `validate:"required"`
	QR           qrcode.Encoder             `validate:"required"`
	Validator    validator.Validator        `validate:"required"`
}

func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	if err := dbAuth.EnsureIndexes(ctx); err != nil {
		return err
	}

	if err := seedUsers(ctx, dep, dbAuth); err != nil {
		return err
	}

	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAuth,
		RepoMessaging: repoMsg,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Credential:    dep.Credential,
		MFAEncryptor:  dep.MFAEncryptor,
		OID:           dep.OID,
		Totp:          dep.Totp,
		QR:            dep.QR,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}

// seedUsers creates the accounts listed under modules.auth.seed_users, each
// entry formatted as "email:username:credential". Existing accounts are left
// untouched.
func seedUsers(ctx context.Context, dep Dependency, dbAuth *db.DB) error {
	entries := lo.FilterMap(dep.Config.GetArray("modules.auth.seed_users"), func(raw string, _ int) ([]string, bool) {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			slog.WarnContext(ctx, "skipping malformed seed user entry", "entry", raw)
			return nil, false
		}
		return parts, true
	})

	for _, parts := range entries {
		credential, err := dep.Credential.Hash(parts[2])
		if err != nil {
			return err
		}

		err = dbAuth.CreateUser(ctx, entity.User{
			ID:         dep.OID.Generate(),
			Email:      parts[0],
			Username:   parts[1],
			Credential: string(credential),
		})
		if errors.Is(err, goerror.ErrConflict) {
			continue
		}
		if err != nil {
			return err
		}

		slog.InfoContext(ctx, "seeded user account", "email", parts[0])
	}

	return nil
}
