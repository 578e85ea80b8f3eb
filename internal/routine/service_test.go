package routine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ritu/internal/apperr"
	"ritu/internal/user"
)

func newTestService(t *testing.T) (*Service, *InMemoryRepository, *user.InMemoryRepository) {
	t.Helper()
	repo := NewInMemoryRepository()
	seq := 0
	repo.NewID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	users := user.NewInMemoryRepository()
	svc := &Service{Repo: repo, Users: users}
	return svc, repo, users
}

func mustCreate(t *testing.T, svc *Service, userID, title string) *Routine {
	t.Helper()
	r, err := svc.CreateRoutine(context.Background(), userID, CreateInput{Title: title})
	if err != nil {
		t.Fatalf("CreateRoutine(%q): %v", title, err)
	}
	return r
}

func wantValidation(t *testing.T, err error) *apperr.Error {
	t.Helper()
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Code != "validation_error" {
		t.Fatalf("want validation error, got %v", err)
	}
	return ae
}

func wantNotFound(t *testing.T, err error) {
	t.Helper()
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Code != "not_found" {
		t.Fatalf("want not found error, got %v", err)
	}
}

func TestCreateRoutineValidatesTitle(t *testing.T) {
	svc, _, users := newTestService(t)
	ctx := context.Background()
	if _, err := users.Create(ctx, user.User{ID: "u1", IsPremium: true}); err != nil {
		t.Fatal(err)
	}

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := svc.CreateRoutine(ctx, "u1", CreateInput{Title: title})
		wantValidation(t, err)
	}

	r := mustCreate(t, svc, "u1", "  Morning run  ")
	if r.Title != "Morning run" {
		t.Errorf("title not trimmed: %q", r.Title)
	}
	if r.Visibility != VisibilityPrivate {
		t.Errorf("default visibility = %q, want private", r.Visibility)
	}
	if r.Schedule == nil {
		t.Error("schedule should default to an empty map")
	}
	if r.CurrentStreak != 0 || r.MaxStreak != 0 {
		t.Errorf("new routine has streaks {%d, %d}, want zero", r.CurrentStreak, r.MaxStreak)
	}
}

func TestCreateRoutineRejectsBadVisibility(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.CreateRoutine(context.Background(), "u1", CreateInput{Title: "x", Visibility: "friends"})
	wantValidation(t, err)
}

func TestFreePlanLimit(t *testing.T) {
	svc, _, users := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, "u1", "one")
	mustCreate(t, svc, "u1", "two")

	_, err := svc.CreateRoutine(ctx, "u1", CreateInput{Title: "three"})
	ae := wantValidation(t, err)
	if ae.Message != "Free plan limit reached (2 routines). Upgrade to Premium to create more." {
		t.Errorf("unexpected message: %q", ae.Message)
	}

	if _, err := users.Create(ctx, user.User{ID: "u1", IsPremium: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateRoutine(ctx, "u1", CreateInput{Title: "three"}); err != nil {
		t.Errorf("premium user blocked: %v", err)
	}
}

func TestFreePlanLimitIgnoresDeletedRoutines(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first := mustCreate(t, svc, "u1", "one")
	mustCreate(t, svc, "u1", "two")
	if err := svc.DeleteRoutine(ctx, "u1", first.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateRoutine(ctx, "u1", CreateInput{Title: "three"}); err != nil {
		t.Errorf("deleted routines should not count toward the limit: %v", err)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	svc, _, users := newTestService(t)
	ctx := context.Background()
	if _, err := users.Create(ctx, user.User{ID: "a", IsPremium: true}); err != nil {
		t.Fatal(err)
	}
	r := mustCreate(t, svc, "a", "secret")

	_, err := svc.GetRoutine(ctx, "b", r.ID)
	wantNotFound(t, err)
	_, err = svc.UpdateRoutine(ctx, "b", r.ID, UpdateInput{})
	wantNotFound(t, err)
	err = svc.DeleteRoutine(ctx, "b", r.ID)
	wantNotFound(t, err)
	_, err = svc.AddCompletion(ctx, "b", r.ID, "2024-04-01")
	wantNotFound(t, err)
}

func TestSoftDeleteHidesRoutine(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	r := mustCreate(t, svc, "u1", "one")
	mustCreate(t, svc, "u1", "two")

	if err := svc.DeleteRoutine(ctx, "u1", r.ID); err != nil {
		t.Fatal(err)
	}

	page, err := svc.ListRoutines(ctx, "u1", Pagination{Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Errorf("list after delete: total=%d items=%d, want 1/1", page.Total, len(page.Items))
	}

	_, err = svc.GetRoutine(ctx, "u1", r.ID)
	ae := wantValidation(t, err)
	if ae.Message != "routine is deleted" {
		t.Errorf("unexpected message: %q", ae.Message)
	}

	// The raw accessor still returns the tombstone.
	raw, err := repo.GetByID(ctx, "u1", r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if raw == nil || raw.DeletedAt == nil {
		t.Fatal("raw GetByID should return the tombstoned routine")
	}
}

func TestRestoreWindow(t *testing.T) {
	base := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		elapsed time.Duration
		ok      bool
	}{
		{"just under seven days", 6*24*time.Hour + 23*time.Hour, true},
		{"just over seven days", 7*24*time.Hour + time.Hour, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			ctx := context.Background()
			now := base
			svc.Now = func() time.Time { return now }

			r := mustCreate(t, svc, "u1", "habit")
			if err := svc.DeleteRoutine(ctx, "u1", r.ID); err != nil {
				t.Fatal(err)
			}

			now = base.Add(tc.elapsed)
			restored, err := svc.RestoreRoutine(ctx, "u1", r.ID)
			if tc.ok {
				if err != nil {
					t.Fatalf("restore failed: %v", err)
				}
				if restored.DeletedAt != nil {
					t.Error("restored routine still tombstoned")
				}
				return
			}
			ae := wantValidation(t, err)
			if ae.Message != "restore window (7 days) has expired" {
				t.Errorf("unexpected message: %q", ae.Message)
			}
		})
	}
}

func TestRestoreRequiresTombstone(t *testing.T) {
	svc, _, _ := newTestService(t)
	r := mustCreate(t, svc, "u1", "habit")
	_, err := svc.RestoreRoutine(context.Background(), "u1", r.ID)
	ae := wantValidation(t, err)
	if ae.Message != "routine is not deleted" {
		t.Errorf("unexpected message: %q", ae.Message)
	}
}

func TestAddCompletionIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	r := mustCreate(t, svc, "u1", "habit")

	first, err := svc.AddCompletion(ctx, "u1", r.ID, "2024-04-01")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.AddCompletion(ctx, "u1", r.ID, "2024-04-01")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Errorf("duplicate add returned a new record: %q vs %q", first.ID, second.ID)
	}

	items, err := svc.ListCompletions(ctx, "u1", r.ID, DateRange{})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Errorf("want exactly one completion, got %d", len(items))
	}
}

func TestCompletionDateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	r := mustCreate(t, svc, "u1", "habit")

	for _, bad := range []string{"20240401", "2024-4-1", "2024/04/01", "yesterday", ""} {
		_, err := svc.AddCompletion(ctx, "u1", r.ID, bad)
		wantValidation(t, err)
	}

	_, err := svc.ListCompletions(ctx, "u1", r.ID, DateRange{From: "2024-04-10", To: "2024-04-01"})
	ae := wantValidation(t, err)
	if ae.Message != "from must be earlier than to" {
		t.Errorf("unexpected message: %q", ae.Message)
	}
	_, err = svc.ListCompletions(ctx, "u1", r.ID, DateRange{From: "nope"})
	wantValidation(t, err)
}

func TestListCompletionsRange(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	r := mustCreate(t, svc, "u1", "habit")

	for _, d := range []string{"2024-04-01", "2024-04-02", "2024-04-03", "2024-04-05"} {
		if _, err := svc.AddCompletion(ctx, "u1", r.ID, d); err != nil {
			t.Fatal(err)
		}
	}

	items, err := svc.ListCompletions(ctx, "u1", r.ID, DateRange{From: "2024-04-02", To: "2024-04-03"})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 completions in range, got %d", len(items))
	}
	if items[0].Date != "2024-04-02" || items[1].Date != "2024-04-03" {
		t.Errorf("range not in ascending order: %v", items)
	}
}

func TestRemoveCompletionNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	r := mustCreate(t, svc, "u1", "habit")
	err := svc.RemoveCompletion(context.Background(), "u1", r.ID, "2024-04-01")
	wantNotFound(t, err)
}

func TestStreaksRefreshedOnCompletionChange(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	svc.Now = func() time.Time {
		return time.Date(2024, 4, 3, 9, 0, 0, 0, time.UTC)
	}
	r := mustCreate(t, svc, "u1", "habit")

	for _, d := range []string{"2024-04-01", "2024-04-02", "2024-04-03"} {
		if _, err := svc.AddCompletion(ctx, "u1", r.ID, d); err != nil {
			t.Fatal(err)
		}
	}
	got, err := svc.GetRoutine(ctx, "u1", r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentStreak != 3 || got.MaxStreak != 3 {
		t.Errorf("streaks after adds = {%d, %d}, want {3, 3}", got.CurrentStreak, got.MaxStreak)
	}

	if err := svc.RemoveCompletion(ctx, "u1", r.ID, "2024-04-02"); err != nil {
		t.Fatal(err)
	}
	got, err = svc.GetRoutine(ctx, "u1", r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentStreak != 1 || got.MaxStreak != 1 {
		t.Errorf("streaks after removal = {%d, %d}, want {1, 1}", got.CurrentStreak, got.MaxStreak)
	}
}

func TestCompletionsRejectedOnDeletedRoutine(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	r := mustCreate(t, svc, "u1", "habit")
	if err := svc.DeleteRoutine(ctx, "u1", r.ID); err != nil {
		t.Fatal(err)
	}

	_, err := svc.AddCompletion(ctx, "u1", r.ID, "2024-04-01")
	ae := wantValidation(t, err)
	if ae.Message != "routine is deleted" {
		t.Errorf("unexpected message: %q", ae.Message)
	}
	_, err = svc.ListCompletions(ctx, "u1", r.ID, DateRange{})
	wantValidation(t, err)
}

func TestUpdateRoutine(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	desc := "before"
	r, err := svc.CreateRoutine(ctx, "u1", CreateInput{Title: "habit", Description: &desc})
	if err != nil {
		t.Fatal(err)
	}

	empty := "  "
	_, err = svc.UpdateRoutine(ctx, "u1", r.ID, UpdateInput{Title: &empty})
	wantValidation(t, err)

	title := "  renamed  "
	blank := ""
	updated, err := svc.UpdateRoutine(ctx, "u1", r.ID, UpdateInput{Title: &title, Description: &blank})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "renamed" {
		t.Errorf("title = %q, want %q", updated.Title, "renamed")
	}
	if updated.Description != nil {
		t.Errorf("empty description should clear the field, got %q", *updated.Description)
	}
}
