package user

import (
	"context"
	"testing"
)

func TestGetByIDAbsent(t *testing.T) {
	repo := NewInMemoryRepository()
	u, err := repo.GetByID(context.Background(), "nope")
	if err != nil || u != nil {
		t.Errorf("absent user: got %v, %v", u, err)
	}
}

func TestUpdateAbsentReturnsNil(t *testing.T) {
	repo := NewInMemoryRepository()
	name := "Hana"
	u, err := repo.Update(context.Background(), "nope", UpdateInput{DisplayName: &name})
	if err != nil || u != nil {
		t.Errorf("update absent: got %v, %v", u, err)
	}
}

func TestUpdatePartialProfile(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	photo := "https://example.com/p.png"
	if _, err := repo.Create(ctx, User{ID: "u1", DisplayName: "Hana", PhotoURL: &photo}); err != nil {
		t.Fatal(err)
	}

	premium := true
	got, err := repo.Update(ctx, "u1", UpdateInput{IsPremium: &premium})
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsPremium {
		t.Error("premium not set")
	}
	if got.DisplayName != "Hana" || got.PhotoURL == nil {
		t.Errorf("untouched fields changed: %+v", got)
	}

	blank := ""
	got, err = repo.Update(ctx, "u1", UpdateInput{PhotoURL: &blank})
	if err != nil {
		t.Fatal(err)
	}
	if got.PhotoURL != nil {
		t.Errorf("empty photoUrl should clear the field, got %q", *got.PhotoURL)
	}

	settings := NotificationSettings{LineEnabled: true, LineUserID: "line-1", ScheduleTime: "07:00"}
	got, err = repo.Update(ctx, "u1", UpdateInput{NotificationSettings: &settings})
	if err != nil {
		t.Fatal(err)
	}
	if got.NotificationSettings != settings {
		t.Errorf("settings = %+v", got.NotificationSettings)
	}
}
