package user

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMockCreateDuplicate(t *testing.T) {
	svc := NewMockUserService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-123", CreateParams{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Create(ctx, "user-123", CreateParams{}); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestMockUpdateCreatesOnFirstTouch(t *testing.T) {
	svc := NewMockUserService()
	ctx := context.Background()

	name := "First Touch"
	u, err := svc.Update(ctx, "user-123", UpdateParams{FullName: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.FullName != "First Touch" {
		t.Errorf("expected fullName First Touch, got %s", u.FullName)
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := svc.Get(ctx, "user-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FullName != "First Touch" {
		t.Errorf("expected persisted fullName, got %s", got.FullName)
	}
}

func TestMockUpdateApplicationDataRequiresRecord(t *testing.T) {
	svc := NewMockUserService()
	ctx := context.Background()

	_, err := svc.UpdateApplicationData(ctx, "missing", ApplicationParams{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMockDeleteReturnsLastState(t *testing.T) {
	svc := NewMockUserService()
	ctx := context.Background()

	name := "Doomed"
	if _, err := svc.Update(ctx, "user-123", UpdateParams{FullName: &name}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err := svc.Delete(ctx, "user-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.FullName != "Doomed" {
		t.Errorf("expected deleted record state, got %s", u.FullName)
	}

	if _, err := svc.Get(ctx, "user-123"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := svc.Delete(ctx, "user-123"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMockGetByOldID(t *testing.T) {
	svc := NewMockUserService()
	ctx := context.Background()

	oldID := int64(12345)
	svc.Seed(&User{ID: "migrated", OldID: &oldID})

	u, err := svc.GetByOldID(ctx, 12345)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "migrated" {
		t.Errorf("expected id migrated, got %s", u.ID)
	}

	if _, err := svc.GetByOldID(ctx, 99999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMockListDateFilter(t *testing.T) {
	svc := NewMockUserService()
	ctx := context.Background()

	seed := func(id string, year int) {
		svc.Seed(&User{ID: id, CreatedAt: time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC)})
	}
	seed("u2017", 2017)
	seed("u2018", 2018)
	seed("u2019", 2019)

	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

	users, err := svc.List(ctx, ListFilter{Start: &start, End: &end})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 || users[0].ID != "u2018" {
		t.Errorf("expected only u2018, got %d users", len(users))
	}

	// A single bound disables filtering entirely.
	users, err = svc.List(ctx, ListFilter{Start: &start})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 3 {
		t.Errorf("expected all 3 users, got %d", len(users))
	}
}

func TestMockCrossSchemaRoundTrip(t *testing.T) {
	svc := NewMockUserService()
	ctx := context.Background()

	// Created through the namespaced shape with a localized sector name.
	_, err := svc.Create(ctx, "user-123", CreateParams{
		ApplicationData: map[string]map[string]any{
			"gfw": {"sector": "Governo", "customField": "v"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Read back flat: sector is normalized.
	u, err := svc.Get(ctx, "user-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Sector != "Government" {
		t.Errorf("expected canonical sector, got %q", u.Sector)
	}

	// A flat update leaves the extension intact.
	city := "Nairobi"
	if _, err := svc.Update(ctx, "user-123", UpdateParams{City: &city}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err = svc.Get(ctx, "user-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gfw := u.GFWData()
	if gfw["customField"] != "v" {
		t.Errorf("expected extension preserved, got %v", gfw["customField"])
	}
	if gfw["city"] != "Nairobi" {
		t.Errorf("expected mirrored city, got %v", gfw["city"])
	}
}

func TestMockCloneIsolation(t *testing.T) {
	svc := NewMockUserService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-123", CreateParams{
		ApplicationData: map[string]map[string]any{"gfw": {"customField": "v"}},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, _ := svc.Get(ctx, "user-123")
	u.ApplicationData["gfw"]["customField"] = "mutated"

	again, _ := svc.Get(ctx, "user-123")
	if again.ApplicationData["gfw"]["customField"] != "v" {
		t.Error("expected stored record unaffected by caller mutation")
	}
}
