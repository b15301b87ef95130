package app

import (
	"log/slog"
	"os"

	"github.com/duckhanhdev/twofa/internal/auth"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.auth.enabled") {
		if err := auth.New(a.ctx, auth.Dependency{
			DBConn:       a.db,
			Goroutine:    a.goroutine,
			Router:       a.router,
			Idempotency:  a.idemp,
			Messaging:    a.messaging,
			Config:       a.config,
			Instrument:   a.ins,
			OID:          a.oid,
			Credential:   a.credential,
			MFAEncryptor: a.mfaEncryptor,
			Clock:        a.clock,
			Totp:         a.totp,
			QR:           a.qr,
			Validator:    a.validator,
		}); err != nil {
			slog.Error("failed to init module auth", "error", err)
			os.Exit(1)
		}
	}
}
