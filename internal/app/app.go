package app

import (
	"context"
	"net/http"

	"github.com/duckhanhdev/twofa/internal/pkg/clock"
	"github.com/duckhanhdev/twofa/internal/pkg/config"
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
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine    *goroutine.Manager
	validator    validator.Validator
	clock        clock.Clocker
	credential   hash.Hash
	oid          uid.StringID
	uuid         uid.StringID
	totp         otp.OTP
	qr           qrcode.Encoder
	mfaEncryptor mfa.Encryptor

	// resources
	dbClient  *mongo.Client
	db        *mongo.Database
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	messaging messaging.Publisher

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initDatabase()
	app.initCache()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
