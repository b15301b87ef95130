package mongodb

import (
	"testing"
	"time"
)

func TestConfigNormalized(t *testing.T) {
	t.Run("zero value gets defaults", func(t *testing.T) {
		got := Config{}.normalized()

		if got.ConnectTimeout != 10*time.Second {
			t.Fatalf("unexpected connect timeout %v", got.ConnectTimeout)
		}
		if got.MaxPoolSize != 100 {
			t.Fatalf("unexpected max pool size %d", got.MaxPoolSize)
		}
		if got.RetryAttempts != 3 {
			t.Fatalf("unexpected retry attempts %d", got.RetryAttempts)
		}
		if got.RetryInterval != 2*time.Second {
			t.Fatalf("unexpected retry interval %v", got.RetryInterval)
		}
	})

	t.Run("explicit values survive", func(t *testing.T) {
		in := Config{
			ConnectTimeout: time.Second,
			MaxPoolSize:    5,
			MinPoolSize:    1,
			RetryAttempts:  1,
			RetryInterval:  time.Millisecond,
		}

		got := in.normalized()

		if got != in {
			t.Fatalf("normalized changed explicit values: %+v", got)
		}
	})
}
