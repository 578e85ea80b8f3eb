package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ritu/internal/routine"
	"ritu/internal/user"
)

// RoutineSource is the slice of the routine contract the worker consumes.
type RoutineSource interface {
	ListByScheduleTime(ctx context.Context, t string) (map[string][]routine.Routine, error)
}

// UserSource supplies delivery preferences for routine owners.
type UserSource interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// Worker reconciles routine schedules against the clock: once per minute it
// asks the repository which routines carry the current HH:MM (UTC) and
// hands each opted-in owner to the Notifier. It keeps no state between
// ticks; a missed minute is simply skipped, duplicates are the delivery
// side's problem.
type Worker struct {
	Routines RoutineSource
	Users    UserSource
	Notifier Notifier
	Interval time.Duration // defaults to one minute
	Logger   *slog.Logger

	// Now is swappable for deterministic tests; nil means time.Now.
	Now func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func (w *Worker) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}

func (w *Worker) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func (w *Worker) interval() time.Duration {
	if w.Interval > 0 {
		return w.Interval
	}
	return time.Minute
}

// Start begins the reconciliation loop.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.mu.Unlock()

	w.logger().Info("notification worker started", "interval", w.interval().String())

	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval())
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.Tick(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for the current tick to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Tick runs one reconciliation pass for the current minute.
func (w *Worker) Tick(ctx context.Context) {
	minute := w.now().UTC().Format("15:04")

	grouped, err := w.Routines.ListByScheduleTime(ctx, minute)
	if err != nil {
		w.logger().Error("list routines by schedule time", "minute", minute, "error", err)
		return
	}
	if len(grouped) == 0 {
		return
	}
	w.logger().Debug("routines due", "minute", minute, "owners", len(grouped))

	for ownerID, routines := range grouped {
		owner, err := w.Users.GetByID(ctx, ownerID)
		if err != nil {
			w.logger().Error("load routine owner", "user_id", ownerID, "error", err)
			continue
		}
		if owner == nil {
			continue
		}
		settings := owner.NotificationSettings
		if !settings.LineEnabled || settings.LineUserID == "" {
			continue
		}

		if err := w.Notifier.Send(ctx, settings.LineUserID, reminderMessage); err != nil {
			w.logger().Error("send reminder",
				"user_id", ownerID,
				"routines", len(routines),
				"error", err,
			)
		}
	}
}

// reminderMessage is the product copy shown in the LINE push.
const reminderMessage = "ルーティーンの時間です！今日の積み上げを始めましょう。"
