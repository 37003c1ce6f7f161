package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/safeyatra/safety-backend-go/internal/events"
	"github.com/safeyatra/safety-backend-go/internal/models"
	"github.com/safeyatra/safety-backend-go/internal/repository"
)

var (
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrSessionExpired       = errors.New("session expired")
)

// errSessionIdle aborts the Mutate commit when the inactivity check fails
var errSessionIdle = errors.New("session idle past timeout")

// AuthConfig holds session-lifecycle tuning
type AuthConfig struct {
	JWTSecret         []byte
	OTPTTL            time.Duration
	SessionTTL        time.Duration
	InactivityTimeout time.Duration
	JanitorInterval   time.Duration
}

// AuthService issues and verifies one-time codes and maintains the
// authenticated-session lifecycle: creation, cross-tab invalidation and
// inactivity expiry. It gates access to every other component.
type AuthService struct {
	cfg         AuthConfig
	users       *repository.UserRepository
	otps        *repository.OTPRepository
	sessions    *repository.SessionRepository
	broadcaster events.InvalidationBroadcaster
	bus         *events.Bus

	now func() time.Time // injectable clock

	clearMu    sync.Mutex
	clearHooks []func(identifier, userID string)

	cancelSub   func()
	janitorStop chan struct{}
	janitorDone chan struct{}
}

// NewAuthService wires the session manager. It subscribes to the invalidation
// broadcaster so out-of-band signals from other tabs or processes tear down
// the local session idempotently.
func NewAuthService(
	cfg AuthConfig,
	users *repository.UserRepository,
	otps *repository.OTPRepository,
	sessions *repository.SessionRepository,
	broadcaster events.InvalidationBroadcaster,
	bus *events.Bus,
) (*AuthService, error) {
	s := &AuthService{
		cfg:         cfg,
		users:       users,
		otps:        otps,
		sessions:    sessions,
		broadcaster: broadcaster,
		bus:         bus,
		now:         time.Now,
	}

	cancel, err := broadcaster.Subscribe(s.onRemoteInvalidation)
	if err != nil {
		return nil, fmt.Errorf("subscribe invalidations: %w", err)
	}
	s.cancelSub = cancel
	return s, nil
}

// onRemoteInvalidation handles a signal originated elsewhere. Delete reports
// whether a session actually existed, which makes repeated delivery
// idempotent: an already-processed signal is a no-op.
func (s *AuthService) onRemoteInvalidation(inv events.SessionInvalidation) {
	if !s.sessions.Delete(inv.Identifier) {
		return
	}
	log.Printf("[AuthService] Session for %s invalidated remotely (origin reason: %s)", inv.Identifier, inv.Reason)
	s.bus.Publish(events.TypeSessionInvalidated, events.SessionInvalidation{
		Identifier: inv.Identifier,
		UserID:     inv.UserID,
		Reason:     models.ReasonRemoteInvalidation,
	})
}

// RegisterClearHook adds a callback run when a logout clears session-scoped
// data (tracker teardown, cached fixes, and similar).
func (s *AuthService) RegisterClearHook(fn func(identifier, userID string)) {
	s.clearMu.Lock()
	defer s.clearMu.Unlock()
	s.clearHooks = append(s.clearHooks, fn)
}

// RequestCode creates a one-time code for an identifier, overwriting any
// prior unconsumed code. The code is returned to the transport layer, which
// decides how to deliver it.
func (s *AuthService) RequestCode(in models.RequestCodeInput) (string, time.Time, error) {
	code, err := generateCode()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate code: %w", err)
	}

	expiresAt := s.now().Add(s.cfg.OTPTTL)
	s.otps.Put(models.OneTimeCode{
		Identifier: in.Identifier,
		Code:       code,
		ExpiresAt:  expiresAt,
	})

	log.Printf("[AuthService] OTP issued for %s (expires %s)", in.Identifier, expiresAt.Format(time.RFC3339))
	return code, expiresAt, nil
}

// generateCode draws a 6-digit code from crypto/rand
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// VerifyCode consumes the pending code exactly once. On success it creates or
// reuses the user keyed by identifier and establishes the session, returning
// the signed client projection.
func (s *AuthService) VerifyCode(in models.VerifyCodeInput, role models.Role, employeeID string) (models.User, models.Session, string, error) {
	if !s.otps.Consume(in.Identifier, in.Code, s.now()) {
		return models.User{}, models.Session{}, "", ErrInvalidOrExpiredCode
	}

	user, ok := s.users.GetByIdentifier(in.Identifier)
	if !ok {
		user = newUserForIdentifier(in.Identifier, role, employeeID)
		s.users.Create(user)
	}

	now := s.now()
	session := models.Session{
		UserID:       user.ID,
		Role:         user.Role,
		Identifier:   in.Identifier,
		IssuedAt:     now,
		ExpiresAt:    now.Add(s.cfg.SessionTTL),
		LastActivity: now,
	}
	s.sessions.Put(session)

	token, err := s.signSession(session)
	if err != nil {
		s.sessions.Delete(in.Identifier)
		return models.User{}, models.Session{}, "", fmt.Errorf("sign session: %w", err)
	}

	s.bus.Publish(events.TypeSessionEstablished, session)
	log.Printf("[AuthService] Session established for %s (role=%s)", in.Identifier, user.Role)
	return user, session, token, nil
}

// newUserForIdentifier builds a fresh user record, inferring the email or
// phone field from the identifier shape. A missing role falls back to
// pilgrim, the least-privileged one.
func newUserForIdentifier(identifier string, role models.Role, employeeID string) models.User {
	if role == "" {
		role = models.RolePilgrim
	}

	name := "Pilgrim User"
	if role != models.RolePilgrim {
		name = strings.ToUpper(string(role)[:1]) + string(role)[1:] + " Officer"
	}

	user := models.User{
		ID:         uuid.NewString(),
		Name:       name,
		Role:       role,
		EmployeeID: employeeID,
		Verified:   true,
		CreatedAt:  time.Now(),
	}
	if strings.Contains(identifier, "@") {
		user.Email = identifier
	} else {
		user.Phone = identifier
	}
	return user
}

// signSession issues the client-visible projection of the session
func (s *AuthService) signSession(session models.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":        session.UserID,
		"role":       string(session.Role),
		"identifier": session.Identifier,
		"iat":        session.IssuedAt.Unix(),
		"exp":        session.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.JWTSecret)
}

// Validate checks a bearer token against the authoritative session store and
// resets the inactivity countdown. The server copy wins: a signed token with
// no live session, or a session idle past the timeout, fails with
// ErrSessionExpired.
func (s *AuthService) Validate(token string) (models.Session, error) {
	identifier, err := s.parseToken(token)
	if err != nil {
		return models.Session{}, ErrSessionExpired
	}

	// The expiry check and the activity touch run under the session's record
	// lock, so a concurrent re-login can never be overwritten by a stale copy.
	now := s.now()
	var idle models.Session
	session, err := s.sessions.Mutate(identifier, func(sess *models.Session) error {
		if s.expired(*sess, now) {
			idle = *sess
			return errSessionIdle
		}
		// Any observed activity resets the countdown
		sess.LastActivity = now
		return nil
	})
	if errors.Is(err, errSessionIdle) {
		s.invalidate(idle, models.ReasonInactivity)
		return models.Session{}, ErrSessionExpired
	}
	if err != nil {
		return models.Session{}, ErrSessionExpired
	}
	return session, nil
}

// parseToken verifies the signature and extracts the session identifier
func (s *AuthService) parseToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.cfg.JWTSecret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrSessionExpired
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrSessionExpired
	}
	identifier, _ := claims["identifier"].(string)
	if identifier == "" {
		return "", ErrSessionExpired
	}
	return identifier, nil
}

func (s *AuthService) expired(session models.Session, now time.Time) bool {
	if now.After(session.ExpiresAt) {
		return true
	}
	return now.Sub(session.LastActivity) > s.cfg.InactivityTimeout
}

// Logout always transitions the identity back to anonymous, optionally
// clearing all session-scoped data, and broadcasts the invalidation so other
// open sessions for the same identity observe it.
func (s *AuthService) Logout(identifier string, opts models.LogoutOptions) {
	session, ok := s.sessions.Get(identifier)
	if !ok {
		// Already anonymous; logout stays idempotent
		return
	}

	s.invalidate(session, models.ReasonUserInitiated)

	if opts.ClearAllData {
		s.otps.Clear(identifier)
		s.clearMu.Lock()
		hooks := make([]func(string, string), len(s.clearHooks))
		copy(hooks, s.clearHooks)
		s.clearMu.Unlock()
		for _, fn := range hooks {
			fn(identifier, session.UserID)
		}
	}
}

// invalidate removes the session once and emits exactly one invalidation with
// the originating reason.
func (s *AuthService) invalidate(session models.Session, reason models.InvalidationReason) {
	if !s.sessions.Delete(session.Identifier) {
		return
	}

	inv := events.SessionInvalidation{
		Identifier: session.Identifier,
		UserID:     session.UserID,
		Reason:     reason,
	}
	if err := s.broadcaster.Broadcast(inv); err != nil {
		log.Printf("[AuthService] Invalidation broadcast failed for %s: %v", session.Identifier, err)
	}
	log.Printf("[AuthService] Session for %s invalidated (%s)", session.Identifier, reason)
}

// StartJanitor sweeps idle sessions so invalidations fire even without
// traffic on the protected surface.
func (s *AuthService) StartJanitor() {
	if s.janitorStop != nil {
		return
	}
	s.janitorStop = make(chan struct{})
	s.janitorDone = make(chan struct{})

	go func() {
		defer close(s.janitorDone)
		ticker := time.NewTicker(s.cfg.JanitorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.janitorStop:
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *AuthService) sweep() {
	now := s.now()
	for _, session := range s.sessions.Snapshot() {
		if s.expired(session, now) {
			s.invalidate(session, models.ReasonInactivity)
		}
	}
}

// Close stops the janitor and the broadcaster subscription
func (s *AuthService) Close() {
	if s.janitorStop != nil {
		close(s.janitorStop)
		<-s.janitorDone
		s.janitorStop = nil
	}
	if s.cancelSub != nil {
		s.cancelSub()
	}
}

// UserCount reports the number of registered users
func (s *AuthService) UserCount() int {
	return s.users.Count()
}

// UserByID returns a registered user
func (s *AuthService) UserByID(id string) (models.User, bool) {
	return s.users.Get(id)
}
