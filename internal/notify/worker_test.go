package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"ritu/internal/routine"
	"ritu/internal/user"
)

type stubRoutines struct {
	byTime map[string]map[string][]routine.Routine
	err    error
}

func (s *stubRoutines) ListByScheduleTime(_ context.Context, t string) (map[string][]routine.Routine, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byTime[t], nil
}

type stubUsers struct {
	users map[string]*user.User
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	return s.users[id], nil
}

type recordingNotifier struct {
	recipients []string
	messages   []string
	err        error
}

func (n *recordingNotifier) Send(_ context.Context, recipient, message string) error {
	n.recipients = append(n.recipients, recipient)
	n.messages = append(n.messages, message)
	return n.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTickNotifiesOptedInOwners(t *testing.T) {
	due := map[string][]routine.Routine{
		"enabled":    {{ID: "r1"}, {ID: "r2"}},
		"disabled":   {{ID: "r3"}},
		"no-line-id": {{ID: "r4"}},
		"unknown":    {{ID: "r5"}},
	}
	sent := &recordingNotifier{}
	w := &Worker{
		Routines: &stubRoutines{byTime: map[string]map[string][]routine.Routine{"07:00": due}},
		Users: &stubUsers{users: map[string]*user.User{
			"enabled": {
				ID:                   "enabled",
				NotificationSettings: user.NotificationSettings{LineEnabled: true, LineUserID: "line-1"},
			},
			"disabled": {
				ID:                   "disabled",
				NotificationSettings: user.NotificationSettings{LineEnabled: false, LineUserID: "line-2"},
			},
			"no-line-id": {
				ID:                   "no-line-id",
				NotificationSettings: user.NotificationSettings{LineEnabled: true},
			},
		}},
		Notifier: sent,
		Logger:   quietLogger(),
		Now: func() time.Time {
			return time.Date(2024, 4, 1, 7, 0, 30, 0, time.UTC)
		},
	}

	w.Tick(context.Background())

	if len(sent.recipients) != 1 || sent.recipients[0] != "line-1" {
		t.Fatalf("recipients = %v, want exactly [line-1]", sent.recipients)
	}
	if sent.messages[0] != reminderMessage {
		t.Errorf("message = %q", sent.messages[0])
	}
}

func TestTickMatchesCurrentMinuteOnly(t *testing.T) {
	sent := &recordingNotifier{}
	w := &Worker{
		Routines: &stubRoutines{byTime: map[string]map[string][]routine.Routine{
			"07:00": {"u1": {{ID: "r1"}}},
		}},
		Users: &stubUsers{users: map[string]*user.User{
			"u1": {ID: "u1", NotificationSettings: user.NotificationSettings{LineEnabled: true, LineUserID: "line-1"}},
		}},
		Notifier: sent,
		Logger:   quietLogger(),
		Now: func() time.Time {
			return time.Date(2024, 4, 1, 7, 1, 0, 0, time.UTC)
		},
	}

	w.Tick(context.Background())

	if len(sent.recipients) != 0 {
		t.Errorf("nothing due at 07:01, sent to %v", sent.recipients)
	}
}

func TestTickSurvivesSourceError(t *testing.T) {
	sent := &recordingNotifier{}
	w := &Worker{
		Routines: &stubRoutines{err: errors.New("backend down")},
		Users:    &stubUsers{},
		Notifier: sent,
		Logger:   quietLogger(),
	}

	w.Tick(context.Background())

	if len(sent.recipients) != 0 {
		t.Errorf("sent despite source failure: %v", sent.recipients)
	}
}

func TestStartStop(t *testing.T) {
	w := &Worker{
		Routines: &stubRoutines{},
		Users:    &stubUsers{},
		Notifier: &recordingNotifier{},
		Interval: 5 * time.Millisecond,
		Logger:   quietLogger(),
	}

	w.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
