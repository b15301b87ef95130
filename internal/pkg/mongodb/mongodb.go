package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

var (
	// ErrConnectFailed is returned when all connection attempts are exhausted.
	ErrConnectFailed = errors.New("mongodb: failed to connect")
	// ErrHealthcheckFailed is returned when the health ping fails.
	ErrHealthcheckFailed = errors.New("mongodb: healthcheck failed")
)

// Config drives client construction.
type Config struct {
	// URL is the MongoDB connection string.
	URL string
	// ConnectTimeout bounds each connection attempt.
	ConnectTimeout time.Duration
	// MaxPoolSize caps the driver connection pool.
	MaxPoolSize uint64
	// MinPoolSize keeps warm connections around.
	MinPoolSize uint64
	// RetryAttempts is how many times to retry the initial connect.
	// Atlas-style deployments can take several seconds to wake up.
	RetryAttempts uint64
	// RetryInterval is the base backoff between attempts.
	RetryInterval time.Duration
}

func (c Config) normalized() Config {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.MaxPoolSize == 0 {
		c.MaxPoolSize = 100
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = 3
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 2 * time.Second
	}
	return c
}

// New connects to MongoDB with retry and verifies the connection with a ping.
func New(ctx context.Context, cfg Config) (*mongo.Client, error) {
	cfg = cfg.normalized()

	opts := options.Client().
		ApplyURI(cfg.URL).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetRetryWrites(true).
		SetRetryReads(true)

	var client *mongo.Client
	backoff := retry.WithMaxRetries(cfg.RetryAttempts, retry.NewConstant(cfg.RetryInterval))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		c, err := mongo.Connect(opts)
		if err != nil {
			return retry.RetryableError(err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
		if err := c.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = c.Disconnect(ctx)
			return retry.RetryableError(err)
		}

		client = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}

	return client, nil
}

// NewWithDatabase connects and returns a database handle directly.
func NewWithDatabase(ctx context.Context, cfg Config, name string) (*mongo.Database, error) {
	client, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client.Database(name), nil
}

// Healthcheck returns a probe function suitable for health endpoints.
func Healthcheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return fmt.Errorf("%w: %w", ErrHealthcheckFailed, err)
		}
		return nil
	}
}
