package repository

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/safeyatra/safety-backend-go/internal/models"
)

func testSession(identifier string) models.Session {
	now := time.Now()
	return models.Session{
		UserID:       "u1",
		Role:         models.RolePilgrim,
		Identifier:   identifier,
		IssuedAt:     now,
		ExpiresAt:    now.Add(12 * time.Hour),
		LastActivity: now,
	}
}

func TestSessionDeleteReportsExistence(t *testing.T) {
	repo := NewSessionRepository()
	repo.Put(testSession("p@example.com"))

	if !repo.Delete("p@example.com") {
		t.Fatal("delete of an existing session should report true")
	}
	if repo.Delete("p@example.com") {
		t.Fatal("repeated delete must report false")
	}
	if _, ok := repo.Get("p@example.com"); ok {
		t.Fatal("session should be gone")
	}
}

func TestSessionPutReplaces(t *testing.T) {
	repo := NewSessionRepository()
	repo.Put(testSession("p@example.com"))

	replacement := testSession("p@example.com")
	replacement.UserID = "u2"
	repo.Put(replacement)

	s, ok := repo.Get("p@example.com")
	if !ok || s.UserID != "u2" {
		t.Fatalf("expected replacement session, got %+v", s)
	}
}

func TestSessionMutateCommitsOnNil(t *testing.T) {
	repo := NewSessionRepository()
	repo.Put(testSession("p@example.com"))

	later := time.Now().Add(time.Minute)
	s, err := repo.Mutate("p@example.com", func(sess *models.Session) error {
		sess.LastActivity = later
		return nil
	})
	if err != nil {
		t.Fatalf("mutate failed: %v", err)
	}
	if !s.LastActivity.Equal(later) {
		t.Fatalf("returned session not updated: %+v", s)
	}
	stored, _ := repo.Get("p@example.com")
	if !stored.LastActivity.Equal(later) {
		t.Fatalf("stored session not updated: %+v", stored)
	}
}

func TestSessionMutateRollsBackOnError(t *testing.T) {
	repo := NewSessionRepository()
	original := testSession("p@example.com")
	repo.Put(original)

	boom := errors.New("boom")
	_, err := repo.Mutate("p@example.com", func(sess *models.Session) error {
		sess.LastActivity = sess.LastActivity.Add(time.Hour)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error back, got %v", err)
	}
	stored, _ := repo.Get("p@example.com")
	if !stored.LastActivity.Equal(original.LastActivity) {
		t.Fatal("failed mutation must not commit")
	}
}

func TestSessionMutateDoesNotResurrect(t *testing.T) {
	repo := NewSessionRepository()
	repo.Put(testSession("p@example.com"))
	repo.Delete("p@example.com")

	_, err := repo.Mutate("p@example.com", func(sess *models.Session) error {
		sess.LastActivity = time.Now().Add(time.Minute)
		return nil
	})
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if _, ok := repo.Get("p@example.com"); ok {
		t.Fatal("mutate must not recreate a deleted session")
	}
}

func TestSessionReloginNotClobberedByConcurrentTouch(t *testing.T) {
	repo := NewSessionRepository()
	old := testSession("p@example.com")
	repo.Put(old)

	fresh := testSession("p@example.com")
	fresh.UserID = "u-fresh"

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		repo.Put(fresh)
	}()
	go func() {
		defer wg.Done()
		repo.Mutate("p@example.com", func(sess *models.Session) error {
			sess.LastActivity = sess.LastActivity.Add(time.Minute)
			return nil
		})
	}()
	wg.Wait()

	s, ok := repo.Get("p@example.com")
	if !ok || s.UserID != "u-fresh" {
		t.Fatalf("re-login session was clobbered by a stale touch: %+v", s)
	}
}

func TestSessionSnapshot(t *testing.T) {
	repo := NewSessionRepository()
	repo.Put(testSession("a@example.com"))
	repo.Put(testSession("b@example.com"))

	if got := len(repo.Snapshot()); got != 2 {
		t.Fatalf("expected 2 sessions in snapshot, got %d", got)
	}
}
