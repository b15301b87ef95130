package inbound

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/duckhanhdev/twofa/internal/auth/entity"
)

func TestSessionOf(t *testing.T) {
	t.Run("unknown device serializes null fields", func(t *testing.T) {
		// Arrange
		resp := sessionOf(entity.SessionState{})

		// Act
		raw, err := json.Marshal(resp)

		// Assert
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(raw) != `{"verified":null,"last_login_at":null}` {
			t.Fatalf("unexpected payload %s", raw)
		}
	})

	t.Run("known device serializes concrete values", func(t *testing.T) {
		// Arrange
		at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		resp := sessionOf(entity.SessionState{Known: true, Verified: true, LastLoginAt: at})

		// Act & Assert
		if resp.Verified == nil || !*resp.Verified {
			t.Fatalf("expected verified true, got %+v", resp.Verified)
		}
		if resp.LastLoginAt == nil || *resp.LastLoginAt != at.UnixMilli() {
			t.Fatalf("expected last login %d, got %+v", at.UnixMilli(), resp.LastLoginAt)
		}
	})
}
