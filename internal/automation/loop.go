package automation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LoopState describes whether the daily loop is armed.
type LoopState string

const (
	StateIdle  LoopState = "idle"
	StateArmed LoopState = "armed"
)

// Status is a snapshot of the loop for status queries.
type Status struct {
	State    LoopState  `json:"state"`
	NextRun  *time.Time `json:"next_run,omitempty"`
	SyncHour int        `json:"sync_hour"`
}

// Loop arms a daily timer that runs the sync pass for all active users.
// It fires first at the next occurrence of syncHour, then every 24 hours.
type Loop struct {
	syncer   *Syncer
	logger   *zap.Logger
	syncHour int
	now      func() time.Time

	mu      sync.Mutex
	state   LoopState
	nextRun time.Time
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewLoop creates a daily automation loop. syncHour is the local hour of day
// the pass aligns to (0 = midnight).
func NewLoop(syncer *Syncer, logger *zap.Logger, syncHour int) *Loop {
	return &Loop{
		syncer:   syncer,
		logger:   logger,
		syncHour: syncHour,
		now:      time.Now,
		state:    StateIdle,
	}
}

// Start arms the loop. Starting an armed loop is a no-op.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateArmed {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.state = StateArmed
	l.nextRun = l.nextFiring(l.now())

	l.logger.Info("automation_loop_armed",
		zap.Int("sync_hour", l.syncHour),
		zap.Time("next_run", l.nextRun),
	)

	go l.run(runCtx)
}

// Stop disarms the loop and waits for the runner goroutine to exit.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.state != StateArmed {
		l.mu.Unlock()
		return
	}
	cancel := l.cancel
	done := l.done
	l.mu.Unlock()

	cancel()
	<-done

	l.mu.Lock()
	l.state = StateIdle
	l.nextRun = time.Time{}
	l.mu.Unlock()

	l.logger.Info("automation_loop_stopped")
}

// Status reports whether the loop is armed and when it fires next.
func (l *Loop) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := Status{State: l.state, SyncHour: l.syncHour}
	if l.state == StateArmed {
		next := l.nextRun
		st.NextRun = &next
	}
	return st
}

// nextFiring returns the next occurrence of syncHour after now.
func (l *Loop) nextFiring(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), l.syncHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// run waits for the aligned first firing, then ticks every 24 hours.
func (l *Loop) run(ctx context.Context) {
	defer close(l.done)

	timer := time.NewTimer(time.Until(l.nextRun))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	l.fire(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.fire(ctx)
		}
	}
}

// fire runs one sync pass for all users and advances the next-run marker.
func (l *Loop) fire(ctx context.Context) {
	l.mu.Lock()
	l.nextRun = l.nextRun.AddDate(0, 0, 1)
	l.mu.Unlock()

	if err := l.syncer.SyncAll(ctx, nil); err != nil {
		l.logger.Error("sync_pass_error", zap.Error(err))
	}
}
