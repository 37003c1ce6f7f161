package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/safeyatra/safety-backend-go/internal/events"
	"github.com/safeyatra/safety-backend-go/internal/models"
	"github.com/safeyatra/safety-backend-go/internal/repository"
)

type testClock struct {
	mu sync.Mutex
	at time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(d)
}

type authFixture struct {
	auth        *AuthService
	bus         *events.Bus
	broadcaster events.InvalidationBroadcaster
	clock       *testClock
}

// newAuthFixture builds a session manager with an injectable clock. The
// broadcaster rides a bus of its own, standing in for an out-of-process
// transport.
func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	bus := events.NewBus()
	broadcaster := events.NewLocalBroadcaster(events.NewBus())
	auth, err := NewAuthService(AuthConfig{
		JWTSecret:         []byte("test-secret"),
		OTPTTL:            10 * time.Minute,
		SessionTTL:        12 * time.Hour,
		InactivityTimeout: 30 * time.Minute,
		JanitorInterval:   time.Hour,
	}, repository.NewUserRepository(), repository.NewOTPRepository(), repository.NewSessionRepository(), broadcaster, bus)
	if err != nil {
		t.Fatalf("auth service init failed: %v", err)
	}
	t.Cleanup(auth.Close)

	clock := &testClock{at: time.Now()}
	auth.now = clock.Now
	return &authFixture{auth: auth, bus: bus, broadcaster: broadcaster, clock: clock}
}

func (f *authFixture) login(t *testing.T, identifier string, role models.Role) (models.User, models.Session, string) {
	t.Helper()
	code, _, err := f.auth.RequestCode(models.RequestCodeInput{Identifier: identifier, Role: role})
	if err != nil {
		t.Fatalf("request code failed: %v", err)
	}
	user, session, token, err := f.auth.VerifyCode(models.VerifyCodeInput{Identifier: identifier, Code: code}, role, "")
	if err != nil {
		t.Fatalf("verify code failed: %v", err)
	}
	return user, session, token
}

func TestRequestCodeShape(t *testing.T) {
	f := newAuthFixture(t)
	code, expiresAt, err := f.auth.RequestCode(models.RequestCodeInput{Identifier: "p@example.com", Role: models.RolePilgrim})
	if err != nil {
		t.Fatalf("request code failed: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected a 6-digit code, got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit in code %q", code)
		}
	}
	if got := expiresAt.Sub(f.clock.Now()); got != 10*time.Minute {
		t.Fatalf("expected 10m expiry, got %s", got)
	}
}

func TestVerifyCodeConsumesExactlyOnce(t *testing.T) {
	f := newAuthFixture(t)
	code, _, _ := f.auth.RequestCode(models.RequestCodeInput{Identifier: "p@example.com", Role: models.RolePilgrim})

	in := models.VerifyCodeInput{Identifier: "p@example.com", Code: code}
	if _, _, _, err := f.auth.VerifyCode(in, models.RolePilgrim, ""); err != nil {
		t.Fatalf("first verify failed: %v", err)
	}
	if _, _, _, err := f.auth.VerifyCode(in, models.RolePilgrim, ""); !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Fatalf("reused code must fail, got %v", err)
	}
}

func TestVerifyCodeRejectsWrongAndExpired(t *testing.T) {
	f := newAuthFixture(t)
	f.auth.RequestCode(models.RequestCodeInput{Identifier: "p@example.com", Role: models.RolePilgrim})

	_, _, _, err := f.auth.VerifyCode(models.VerifyCodeInput{Identifier: "p@example.com", Code: "000000"}, models.RolePilgrim, "")
	if !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Fatalf("wrong code must fail, got %v", err)
	}

	code, _, _ := f.auth.RequestCode(models.RequestCodeInput{Identifier: "late@example.com", Role: models.RolePilgrim})
	f.clock.Advance(11 * time.Minute)
	_, _, _, err = f.auth.VerifyCode(models.VerifyCodeInput{Identifier: "late@example.com", Code: code}, models.RolePilgrim, "")
	if !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Fatalf("expired code must fail, got %v", err)
	}
}

func TestLoginReusesExistingUser(t *testing.T) {
	f := newAuthFixture(t)
	first, _, _ := f.login(t, "p@example.com", models.RolePilgrim)
	f.auth.Logout("p@example.com", models.LogoutOptions{})
	second, _, _ := f.login(t, "p@example.com", models.RolePilgrim)

	if first.ID != second.ID {
		t.Fatal("re-login must reuse the user keyed by identifier")
	}
	if f.auth.UserCount() != 1 {
		t.Fatalf("expected 1 registered user, got %d", f.auth.UserCount())
	}
	if first.Email != "p@example.com" {
		t.Fatalf("email identifier should land in the email field, got %+v", first)
	}
}

func TestPhoneIdentifier(t *testing.T) {
	f := newAuthFixture(t)
	user, _, _ := f.login(t, "9876543210", models.RolePolice)
	if user.Phone != "9876543210" || user.Email != "" {
		t.Fatalf("phone identifier should land in the phone field, got %+v", user)
	}
	if user.Role != models.RolePolice {
		t.Fatalf("expected police role, got %s", user.Role)
	}
}

func TestVerifyCodeDefaultsMissingRoleToPilgrim(t *testing.T) {
	f := newAuthFixture(t)
	code, _, _ := f.auth.RequestCode(models.RequestCodeInput{Identifier: "p@example.com"})

	user, session, _, err := f.auth.VerifyCode(models.VerifyCodeInput{Identifier: "p@example.com", Code: code}, "", "")
	if err != nil {
		t.Fatalf("verify with empty role failed: %v", err)
	}
	if user.Role != models.RolePilgrim {
		t.Fatalf("empty role must default to pilgrim, got %q", user.Role)
	}
	if session.Role != models.RolePilgrim {
		t.Fatalf("session should carry the defaulted role, got %q", session.Role)
	}
}

func TestValidateResetsInactivityCountdown(t *testing.T) {
	f := newAuthFixture(t)
	_, _, token := f.login(t, "p@example.com", models.RolePilgrim)

	for i := 0; i < 3; i++ {
		f.clock.Advance(29 * time.Minute)
		if _, err := f.auth.Validate(token); err != nil {
			t.Fatalf("activity within the timeout must keep the session alive: %v", err)
		}
	}
}

func TestValidateExpiresIdleSession(t *testing.T) {
	f := newAuthFixture(t)
	_, _, token := f.login(t, "p@example.com", models.RolePilgrim)

	var reasons []models.InvalidationReason
	cancel, _ := f.broadcaster.Subscribe(func(inv events.SessionInvalidation) {
		reasons = append(reasons, inv.Reason)
	})
	defer cancel()

	f.clock.Advance(31 * time.Minute)
	if _, err := f.auth.Validate(token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("idle session must expire, got %v", err)
	}
	if len(reasons) != 1 || reasons[0] != models.ReasonInactivity {
		t.Fatalf("expected one inactivity invalidation, got %v", reasons)
	}

	// The session is gone; a second validate fails without a second signal
	if _, err := f.auth.Validate(token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if len(reasons) != 1 {
		t.Fatalf("expired session must invalidate once, got %v", reasons)
	}
}

func TestValidateRejectsGarbageToken(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.auth.Validate("not-a-token"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestLogoutBroadcastsUserInitiated(t *testing.T) {
	f := newAuthFixture(t)
	user, _, _ := f.login(t, "p@example.com", models.RolePilgrim)

	var invs []events.SessionInvalidation
	cancel, _ := f.broadcaster.Subscribe(func(inv events.SessionInvalidation) {
		invs = append(invs, inv)
	})
	defer cancel()

	var clearedUser string
	f.auth.RegisterClearHook(func(identifier, userID string) {
		clearedUser = userID
	})

	f.auth.Logout("p@example.com", models.LogoutOptions{ClearAllData: true})
	f.auth.Logout("p@example.com", models.LogoutOptions{ClearAllData: true}) // idempotent

	if len(invs) != 1 {
		t.Fatalf("expected exactly one invalidation, got %d", len(invs))
	}
	if invs[0].Reason != models.ReasonUserInitiated {
		t.Fatalf("expected user_initiated, got %s", invs[0].Reason)
	}
	if clearedUser != user.ID {
		t.Fatalf("clear hook not invoked for the logged-out user: %q", clearedUser)
	}
}

func TestRemoteInvalidationIsIdempotent(t *testing.T) {
	f := newAuthFixture(t)
	user, session, token := f.login(t, "p@example.com", models.RolePilgrim)

	var republished []events.SessionInvalidation
	cancel := f.bus.Subscribe(func(ev events.Event) {
		if ev.Type != events.TypeSessionInvalidated {
			return
		}
		republished = append(republished, ev.Payload.(events.SessionInvalidation))
	})
	defer cancel()

	// Another process invalidated the same identity; deliver the signal twice
	inv := events.SessionInvalidation{Identifier: session.Identifier, UserID: user.ID, Reason: models.ReasonUserInitiated}
	f.broadcaster.Broadcast(inv)
	f.broadcaster.Broadcast(inv)

	if _, err := f.auth.Validate(token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("remotely invalidated session must be gone, got %v", err)
	}
	if len(republished) != 1 {
		t.Fatalf("repeated signals must republish once, got %d", len(republished))
	}
	if republished[0].Reason != models.ReasonRemoteInvalidation {
		t.Fatalf("expected remote_invalidation, got %s", republished[0].Reason)
	}
}

func TestJanitorSweepsIdleSessions(t *testing.T) {
	f := newAuthFixture(t)
	_, _, token := f.login(t, "p@example.com", models.RolePilgrim)

	f.clock.Advance(31 * time.Minute)
	f.auth.sweep()

	if _, err := f.auth.Validate(token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("sweep should have invalidated the idle session, got %v", err)
	}
}
