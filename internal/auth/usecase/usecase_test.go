package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/duckhanhdev/twofa/internal/auth/entity"
	"github.com/duckhanhdev/twofa/internal/pkg/goerror"
	"github.com/duckhanhdev/twofa/internal/pkg/goroutine"
	"github.com/duckhanhdev/twofa/internal/pkg/hash"
	"github.com/duckhanhdev/twofa/internal/pkg/idempotency"
	"github.com/duckhanhdev/twofa/internal/pkg/instrument"
	"github.com/duckhanhdev/twofa/internal/pkg/mfa"
	"github.com/duckhanhdev/twofa/internal/pkg/otp"
	"github.com/duckhanhdev/twofa/internal/pkg/qrcode"
	"github.com/duckhanhdev/twofa/internal/pkg/validator"
	libOTP "github.com/pquerna/otp"
)

type fakeDB struct {
	mu       sync.Mutex
	users    map[string]entity.User            // by id
	secrets  map[string]entity.TwoFactorSecret // by user id
	sessions map[string]entity.Session         // by user id + device id

	failCreateSessionOnce bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:    map[string]entity.User{},
		secrets:  map[string]entity.TwoFactorSecret{},
		sessions: map[string]entity.Session{},
	}
}

func sessionKey(userID, deviceID string) string {
	return userID + "|" + deviceID
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeDB) GetUserByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	out := u
	return &out, nil
}

func (f *fakeDB) MarkUserRequires2FA(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	u.Requires2FA = true
	f.users[id] = u
	out := u
	return &out, nil
}

func (f *fakeDB) GetTwoFactorSecret(_ context.Context, userID string) (*entity.TwoFactorSecret, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.secrets[userID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	out := s
	return &out, nil
}

func (f *fakeDB) CreateTwoFactorSecret(_ context.Context, in entity.TwoFactorSecret) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.secrets[in.UserID]; ok {
		return goerror.ErrConflict
	}
	f.secrets[in.UserID] = in
	return nil
}

func (f *fakeDB) GetSession(_ context.Context, userID, deviceID string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionKey(userID, deviceID)]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	out := s
	return &out, nil
}

func (f *fakeDB) CreateSession(_ context.Context, in entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := sessionKey(in.UserID, in.DeviceID)
	if f.failCreateSessionOnce {
		f.failCreateSessionOnce = false
		f.sessions[key] = entity.Session{
			ID:          "winner",
			UserID:      in.UserID,
			DeviceID:    in.DeviceID,
			Verified:    false,
			LastLoginAt: in.LastLoginAt,
		}
		return goerror.ErrConflict
	}
	if _, ok := f.sessions[key]; ok {
		return goerror.ErrConflict
	}
	f.sessions[key] = in
	return nil
}

func (f *fakeDB) TouchSession(_ context.Context, userID, deviceID string, at time.Time) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := sessionKey(userID, deviceID)
	s, ok := f.sessions[key]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	s.LastLoginAt = at
	f.sessions[key] = s
	out := s
	return &out, nil
}

func (f *fakeDB) ReplaceSession(_ context.Context, in entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := sessionKey(in.UserID, in.DeviceID)
	if existing, ok := f.sessions[key]; ok {
		in.ID = existing.ID
	}
	f.sessions[key] = in
	return nil
}

func (f *fakeDB) DeleteSessions(_ context.Context, userID, deviceID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := sessionKey(userID, deviceID)
	if _, ok := f.sessions[key]; !ok {
		return 0, nil
	}
	delete(f.sessions, key)
	return 1, nil
}

func (f *fakeDB) Compact(context.Context) error {
	return nil
}

type fakeMessaging struct {
	mu        sync.Mutex
	logins    []LoginSucceededEvent
	enableds  []TwoFactorEnabledEvent
	loggedOut []LoggedOutEvent
}

func (f *fakeMessaging) PublishLoginSucceeded(_ context.Context, msg LoginSucceededEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, msg)
	return nil
}

func (f *fakeMessaging) PublishTwoFactorEnabled(_ context.Context, msg TwoFactorEnabledEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enableds = append(f.enableds, msg)
	return nil
}

func (f *fakeMessaging) PublishLoggedOut(_ context.Context, msg LoggedOutEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = append(f.loggedOut, msg)
	return nil
}

// fakeIdempotency runs the function inline; the redis lock semantics are
// covered by the idempotency package itself.
type fakeIdempotency struct{}

func (fakeIdempotency) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return idempotency.StateNone, nil
}

func (fakeIdempotency) MarkCompleted(context.Context, string, time.Duration) error { return nil }

func (fakeIdempotency) MarkFailed(context.Context, string, time.Duration) error { return nil }

func (fakeIdempotency) Exec(ctx context.Context, _ string, fn func(context.Context) error, _ ...idempotency.Option) error {
	return fn(ctx)
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type seqID struct {
	mu sync.Mutex
	n  int
}

func (s *seqID) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("id-%03d", s.n)
}

type fixture struct {
	uc    *Usecase
	db    *fakeDB
	mq    *fakeMessaging
	clock *fixedClock
	totp  otp.OTP
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	db := newFakeDB()
	mq := &fakeMessaging{}
	clk := &fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	totp := otp.NewTOTP("twofa-test", 30, 1, libOTP.DigitsSix)

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	uc := New(Dependency{
		RepoDB:        db,
		RepoMessaging: mq,
		Idempotency:   fakeIdempotency{},
		Validator:     v10,
		Credential:    hash.NewPlain(),
		MFAEncryptor:  mfa.NewAESGCMEncryptor(mfa.StaticKeyProvider{KeyBytes: key}),
		OID:           &seqID{},
		Totp:          totp,
		QR:            qrcode.NewPNG(qrcode.DefaultSize),
		Clock:         clk,
		Instrument:    instrument.NewNoop(),
		Goroutine:     goroutine.NewManager(10),
	})

	return &fixture{uc: uc, db: db, mq: mq, clock: clk, totp: totp}
}

func (f *fixture) seedUser(t *testing.T, id, email, username, credential string) {
	t.Helper()
	f.db.users[id] = entity.User{
		ID:         id,
		Email:      email,
		Username:   username,
		Credential: credential,
	}
}

func assertBusinessCode(t *testing.T, err error, code goerror.Code) {
	t.Helper()
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %v", err)
	}
	if gerr.Code() != code {
		t.Fatalf("expected code %v, got %v (%v)", code, gerr.Code(), err)
	}
}

func TestLogin(t *testing.T) {
	t.Run("first login creates an unverified session", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")

		// Act
		out, err := f.uc.Login(context.Background(), LoginInput{
			Email:      "a@b.test",
			Credential: "secret",
			DeviceID:   "ua-one",
		})

		// Assert
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if !out.Session.Known || out.Session.Verified {
			t.Fatalf("expected known unverified session, got %+v", out.Session)
		}
		if !out.Session.LastLoginAt.Equal(f.clock.now) {
			t.Fatalf("expected last login %v, got %v", f.clock.now, out.Session.LastLoginAt)
		}
		if out.Requires2FA {
			t.Fatalf("fresh account must not require 2fa")
		}
	})

	t.Run("repeat login touches the session instead of resetting it", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")
		in := LoginInput{Email: "a@b.test", Credential: "secret", DeviceID: "ua-one"}
		if _, err := f.uc.Login(context.Background(), in); err != nil {
			t.Fatalf("first login failed: %v", err)
		}
		first := f.db.sessions[sessionKey("u1", "ua-one")]

		// Act
		f.clock.now = f.clock.now.Add(time.Hour)
		out, err := f.uc.Login(context.Background(), in)

		// Assert
		if err != nil {
			t.Fatalf("second login failed: %v", err)
		}
		second := f.db.sessions[sessionKey("u1", "ua-one")]
		if second.ID != first.ID {
			t.Fatalf("expected same session row, got %q then %q", first.ID, second.ID)
		}
		if !out.Session.LastLoginAt.Equal(f.clock.now) {
			t.Fatalf("expected refreshed last login, got %v", out.Session.LastLoginAt)
		}
		if len(f.db.sessions) != 1 {
			t.Fatalf("expected one session row, got %d", len(f.db.sessions))
		}
	})

	t.Run("sessions are device scoped", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")

		// Act
		for _, device := range []string{"ua-one", "ua-two"} {
			if _, err := f.uc.Login(context.Background(), LoginInput{
				Email: "a@b.test", Credential: "secret", DeviceID: device,
			}); err != nil {
				t.Fatalf("login from %s failed: %v", device, err)
			}
		}

		// Assert
		if len(f.db.sessions) != 2 {
			t.Fatalf("expected two session rows, got %d", len(f.db.sessions))
		}
	})

	t.Run("losing the concurrent create adopts the winner row", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")
		f.db.failCreateSessionOnce = true

		// Act
		out, err := f.uc.Login(context.Background(), LoginInput{
			Email: "a@b.test", Credential: "secret", DeviceID: "ua-one",
		})

		// Assert
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if !out.Session.Known {
			t.Fatalf("expected a session after conflict resolution")
		}
		if got := f.db.sessions[sessionKey("u1", "ua-one")].ID; got != "winner" {
			t.Fatalf("expected the winner row to survive, got %q", got)
		}
	})

	t.Run("wrong credential is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")

		_, err := f.uc.Login(context.Background(), LoginInput{
			Email: "a@b.test", Credential: "nope", DeviceID: "ua-one",
		})

		assertBusinessCode(t, err, goerror.CodeNotAcceptable)
		if len(f.db.sessions) != 0 {
			t.Fatalf("rejected login must not create a session")
		}
	})

	t.Run("unknown email is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Login(context.Background(), LoginInput{
			Email: "ghost@b.test", Credential: "secret", DeviceID: "ua-one",
		})

		assertBusinessCode(t, err, goerror.CodeNotFound)
	})

	t.Run("publishes a login event", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")

		if _, err := f.uc.Login(context.Background(), LoginInput{
			Email: "a@b.test", Credential: "secret", DeviceID: "ua-one",
		}); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if err := f.uc.goroutine.Wait(); err != nil {
			t.Fatalf("goroutines failed: %v", err)
		}

		if len(f.mq.logins) != 1 || f.mq.logins[0].UserID != "u1" {
			t.Fatalf("expected one login event for u1, got %+v", f.mq.logins)
		}
	})
}

func TestProfile(t *testing.T) {
	t.Run("unknown device reports unset session state", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")

		// Act
		out, err := f.uc.Profile(context.Background(), ProfileInput{UserID: "u1", DeviceID: "ua-new"})

		// Assert
		if err != nil {
			t.Fatalf("profile failed: %v", err)
		}
		if out.Session.Known {
			t.Fatalf("expected unset session state, got %+v", out.Session)
		}
	})

	t.Run("known device reports its session state", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")
		if _, err := f.uc.Login(context.Background(), LoginInput{
			Email: "a@b.test", Credential: "secret", DeviceID: "ua-one",
		}); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		// Act
		out, err := f.uc.Profile(context.Background(), ProfileInput{UserID: "u1", DeviceID: "ua-one"})

		// Assert
		if err != nil {
			t.Fatalf("profile failed: %v", err)
		}
		if !out.Session.Known || out.Session.Verified {
			t.Fatalf("expected known unverified session, got %+v", out.Session)
		}
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Profile(context.Background(), ProfileInput{UserID: "ghost", DeviceID: "ua-one"})

		assertBusinessCode(t, err, goerror.CodeNotFound)
	})
}

func TestLogout(t *testing.T) {
	t.Run("removes the device session", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")
		if _, err := f.uc.Login(context.Background(), LoginInput{
			Email: "a@b.test", Credential: "secret", DeviceID: "ua-one",
		}); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		// Act
		out, err := f.uc.Logout(context.Background(), LogoutInput{UserID: "u1", DeviceID: "ua-one"})

		// Assert
		if err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		if !out.LoggedOut || out.Sessions != 1 {
			t.Fatalf("expected one removed session, got %+v", out)
		}
		if len(f.db.sessions) != 0 {
			t.Fatalf("session row should be gone")
		}
	})

	t.Run("logout without a session succeeds", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")

		out, err := f.uc.Logout(context.Background(), LogoutInput{UserID: "u1", DeviceID: "ua-one"})

		if err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		if !out.LoggedOut || out.Sessions != 0 {
			t.Fatalf("expected zero removed sessions, got %+v", out)
		}
	})

	t.Run("only the calling device is logged out", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")
		for _, device := range []string{"ua-one", "ua-two"} {
			if _, err := f.uc.Login(context.Background(), LoginInput{
				Email: "a@b.test", Credential: "secret", DeviceID: device,
			}); err != nil {
				t.Fatalf("login from %s failed: %v", device, err)
			}
		}

		// Act
		if _, err := f.uc.Logout(context.Background(), LogoutInput{UserID: "u1", DeviceID: "ua-one"}); err != nil {
			t.Fatalf("logout failed: %v", err)
		}

		// Assert
		if _, ok := f.db.sessions[sessionKey("u1", "ua-two")]; !ok {
			t.Fatalf("other device session must survive")
		}
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Logout(context.Background(), LogoutInput{UserID: "ghost", DeviceID: "ua-one"})

		assertBusinessCode(t, err, goerror.CodeNotFound)
	})
}

func TestIssueQRCode(t *testing.T) {
	t.Run("first call provisions a secret", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")

		// Act
		out, err := f.uc.IssueQRCode(context.Background(), IssueQRCodeInput{UserID: "u1"})

		// Assert
		if err != nil {
			t.Fatalf("issue qr code failed: %v", err)
		}
		if out.ProvisioningURI == "" {
			t.Fatalf("expected a provisioning uri")
		}
		if len(out.QRImage) == 0 || out.QRImage[:22] != "data:image/png;base64," {
			t.Fatalf("expected a png data uri, got %.40q", out.QRImage)
		}
		if _, ok := f.db.secrets["u1"]; !ok {
			t.Fatalf("secret must be persisted")
		}
	})

	t.Run("repeat calls return the same uri", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")
		first, err := f.uc.IssueQRCode(context.Background(), IssueQRCodeInput{UserID: "u1"})
		if err != nil {
			t.Fatalf("first call failed: %v", err)
		}

		// Act
		second, err := f.uc.IssueQRCode(context.Background(), IssueQRCodeInput{UserID: "u1"})

		// Assert
		if err != nil {
			t.Fatalf("second call failed: %v", err)
		}
		if first.ProvisioningURI != second.ProvisioningURI {
			t.Fatalf("provisioning uri changed between calls:\n%s\n%s", first.ProvisioningURI, second.ProvisioningURI)
		}
		if len(f.db.secrets) != 1 {
			t.Fatalf("expected exactly one secret, got %d", len(f.db.secrets))
		}
	})

	t.Run("secret is stored encrypted", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")

		// Act
		out, err := f.uc.IssueQRCode(context.Background(), IssueQRCodeInput{UserID: "u1"})
		if err != nil {
			t.Fatalf("issue qr code failed: %v", err)
		}

		// Assert
		key, err := libOTP.NewKeyFromURL(out.ProvisioningURI)
		if err != nil {
			t.Fatalf("failed to parse provisioning uri: %v", err)
		}
		stored := f.db.secrets["u1"].Value
		if len(stored) == 0 {
			t.Fatalf("expected stored ciphertext")
		}
		if bytes.Contains(stored, []byte(key.Secret())) {
			t.Fatalf("stored value contains the plaintext seed")
		}
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.IssueQRCode(context.Background(), IssueQRCodeInput{UserID: "ghost"})

		assertBusinessCode(t, err, goerror.CodeNotFound)
	})
}

func TestConfirm(t *testing.T) {
	provision := func(t *testing.T, f *fixture) string {
		t.Helper()
		out, err := f.uc.IssueQRCode(context.Background(), IssueQRCodeInput{UserID: "u1"})
		if err != nil {
			t.Fatalf("provisioning failed: %v", err)
		}
		key, err := libOTP.NewKeyFromURL(out.ProvisioningURI)
		if err != nil {
			t.Fatalf("failed to parse provisioning uri: %v", err)
		}
		code, err := f.totp.GenerateCode(key.Secret(), f.clock.now)
		if err != nil {
			t.Fatalf("failed to generate code: %v", err)
		}
		return code
	}

	t.Run("valid code enables 2fa and verifies the device", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")
		if _, err := f.uc.Login(context.Background(), LoginInput{
			Email: "a@b.test", Credential: "secret", DeviceID: "ua-one",
		}); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		code := provision(t, f)

		// Act
		out, err := f.uc.Confirm(context.Background(), ConfirmInput{
			UserID: "u1", DeviceID: "ua-one", OTP: code,
		})

		// Assert
		if err != nil {
			t.Fatalf("confirm failed: %v", err)
		}
		if !out.Requires2FA {
			t.Fatalf("account must require 2fa after confirmation")
		}
		if !out.Session.Known || !out.Session.Verified {
			t.Fatalf("device session must be verified, got %+v", out.Session)
		}
	})

	t.Run("verification is device scoped", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")
		for _, device := range []string{"ua-one", "ua-two"} {
			if _, err := f.uc.Login(context.Background(), LoginInput{
				Email: "a@b.test", Credential: "secret", DeviceID: device,
			}); err != nil {
				t.Fatalf("login from %s failed: %v", device, err)
			}
		}
		code := provision(t, f)

		// Act
		if _, err := f.uc.Confirm(context.Background(), ConfirmInput{
			UserID: "u1", DeviceID: "ua-one", OTP: code,
		}); err != nil {
			t.Fatalf("confirm failed: %v", err)
		}

		// Assert
		other, err := f.uc.Profile(context.Background(), ProfileInput{UserID: "u1", DeviceID: "ua-two"})
		if err != nil {
			t.Fatalf("profile failed: %v", err)
		}
		if other.Session.Verified {
			t.Fatalf("other device must stay unverified")
		}
		if !other.Requires2FA {
			t.Fatalf("account 2fa flag is account wide")
		}
	})

	t.Run("confirm without a prior session creates a verified one", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")
		code := provision(t, f)

		// Act
		out, err := f.uc.Confirm(context.Background(), ConfirmInput{
			UserID: "u1", DeviceID: "ua-one", OTP: code,
		})

		// Assert
		if err != nil {
			t.Fatalf("confirm failed: %v", err)
		}
		if !out.Session.Known || !out.Session.Verified {
			t.Fatalf("expected a verified session, got %+v", out.Session)
		}
	})

	t.Run("wrong code leaves all state unchanged", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")
		if _, err := f.uc.Login(context.Background(), LoginInput{
			Email: "a@b.test", Credential: "secret", DeviceID: "ua-one",
		}); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		provision(t, f)

		// Act
		_, err := f.uc.Confirm(context.Background(), ConfirmInput{
			UserID: "u1", DeviceID: "ua-one", OTP: "000000",
		})

		// Assert
		assertBusinessCode(t, err, goerror.CodeNotAcceptable)
		if f.db.users["u1"].Requires2FA {
			t.Fatalf("account flag must stay off after rejected code")
		}
		if f.db.sessions[sessionKey("u1", "ua-one")].Verified {
			t.Fatalf("session must stay unverified after rejected code")
		}
	})

	t.Run("missing otp is rejected before validation", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")

		_, err := f.uc.Confirm(context.Background(), ConfirmInput{UserID: "u1", DeviceID: "ua-one"})

		assertBusinessCode(t, err, goerror.CodeNotFound)
	})

	t.Run("confirm before provisioning is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")

		_, err := f.uc.Confirm(context.Background(), ConfirmInput{
			UserID: "u1", DeviceID: "ua-one", OTP: "123456",
		})

		assertBusinessCode(t, err, goerror.CodeNotFound)
	})

	t.Run("publishes an enabled event", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seedUser(t, "u1", "a@b.test", "alice", "secret")
		code := provision(t, f)

		// Act
		if _, err := f.uc.Confirm(context.Background(), ConfirmInput{
			UserID: "u1", DeviceID: "ua-one", OTP: code,
		}); err != nil {
			t.Fatalf("confirm failed: %v", err)
		}
		if err := f.uc.goroutine.Wait(); err != nil {
			t.Fatalf("goroutines failed: %v", err)
		}

		// Assert
		if len(f.mq.enableds) != 1 || f.mq.enableds[0].UserID != "u1" {
			t.Fatalf("expected one enabled event for u1, got %+v", f.mq.enableds)
		}
	})
}
