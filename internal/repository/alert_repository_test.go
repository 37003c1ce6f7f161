package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/safeyatra/safety-backend-go/internal/models"
)

func testAlert(id string, createdAt time.Time) models.Alert {
	return models.Alert{
		ID:          id,
		Kind:        models.AlertKindMedical,
		Priority:    models.AlertPriorityHigh,
		Status:      models.AlertStatusActive,
		Location:    models.Location{Lat: 23.1815, Lng: 75.7804},
		Description: "test alert",
		ReportedBy:  "tester",
		CreatedAt:   createdAt,
	}
}

func TestAlertMutateCommitsOnNil(t *testing.T) {
	repo := NewAlertRepository()
	repo.Insert(testAlert("a1", time.Now()))

	_, _, err := repo.Mutate("a1", func(alert *models.Alert, response **models.Response) error {
		alert.Status = models.AlertStatusResponding
		*response = &models.Response{AlertID: "a1", Message: "on the way"}
		return nil
	})
	if err != nil {
		t.Fatalf("mutate failed: %v", err)
	}

	alert, resp, ok := repo.Get("a1")
	if !ok {
		t.Fatal("alert missing after mutate")
	}
	if alert.Status != models.AlertStatusResponding {
		t.Fatalf("status not committed: %s", alert.Status)
	}
	if resp == nil || resp.Message != "on the way" {
		t.Fatalf("response not committed: %+v", resp)
	}
}

func TestAlertMutateRollsBackOnError(t *testing.T) {
	repo := NewAlertRepository()
	repo.Insert(testAlert("a1", time.Now()))

	boom := errors.New("boom")
	_, _, err := repo.Mutate("a1", func(alert *models.Alert, response **models.Response) error {
		alert.Status = models.AlertStatusResolved
		*response = &models.Response{AlertID: "a1"}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	alert, resp, _ := repo.Get("a1")
	if alert.Status != models.AlertStatusActive {
		t.Fatalf("failed mutate leaked status change: %s", alert.Status)
	}
	if resp != nil {
		t.Fatal("failed mutate leaked response")
	}
}

func TestAlertMutateUnknownID(t *testing.T) {
	repo := NewAlertRepository()
	_, _, err := repo.Mutate("nope", func(*models.Alert, **models.Response) error { return nil })
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestAlertListOrdering(t *testing.T) {
	repo := NewAlertRepository()
	base := time.Now()
	repo.Insert(testAlert("old", base.Add(-2*time.Hour)))
	repo.Insert(testAlert("mid", base.Add(-time.Hour)))
	repo.Insert(testAlert("new", base))

	all := repo.ListAll()
	if len(all) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(all))
	}
	if all[0].ID != "new" || all[1].ID != "mid" || all[2].ID != "old" {
		t.Fatalf("wrong order: %s, %s, %s", all[0].ID, all[1].ID, all[2].ID)
	}
}

func TestAlertListActiveExcludesResolved(t *testing.T) {
	repo := NewAlertRepository()
	repo.Insert(testAlert("keep", time.Now()))
	resolved := testAlert("done", time.Now())
	resolved.Status = models.AlertStatusResolved
	repo.Insert(resolved)

	active := repo.ListActive()
	if len(active) != 1 || active[0].ID != "keep" {
		t.Fatalf("expected only the active alert, got %+v", active)
	}
	if len(repo.ListAll()) != 2 {
		t.Fatal("resolved alert should stay in the full ledger")
	}
}

func TestAlertGetReturnsSnapshot(t *testing.T) {
	repo := NewAlertRepository()
	repo.Insert(testAlert("a1", time.Now()))

	alert, _, _ := repo.Get("a1")
	alert.Description = "mutated copy"

	stored, _, _ := repo.Get("a1")
	if stored.Description != "test alert" {
		t.Fatal("Get must return a copy, not a live reference")
	}
}
