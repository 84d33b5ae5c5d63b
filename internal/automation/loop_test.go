package automation

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestLoop(syncHour int) *Loop {
	syncer := newTestSyncer(&fakeItemStore{}, &fakeBlockStore{}, &fakeAgendaStore{}, &fakeUserStore{})
	return NewLoop(syncer, zap.NewNop(), syncHour)
}

func TestLoop_NextFiring(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		syncHour int
		now      time.Time
		want     time.Time
	}{
		{
			name:     "before sync hour fires same day",
			syncHour: 3,
			now:      time.Date(2026, 3, 4, 1, 0, 0, 0, time.UTC),
			want:     time.Date(2026, 3, 4, 3, 0, 0, 0, time.UTC),
		},
		{
			name:     "after sync hour fires next day",
			syncHour: 3,
			now:      time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
			want:     time.Date(2026, 3, 5, 3, 0, 0, 0, time.UTC),
		},
		{
			name:     "exactly at sync hour fires next day",
			syncHour: 3,
			now:      time.Date(2026, 3, 4, 3, 0, 0, 0, time.UTC),
			want:     time.Date(2026, 3, 5, 3, 0, 0, 0, time.UTC),
		},
		{
			name:     "midnight alignment",
			syncHour: 0,
			now:      time.Date(2026, 3, 4, 23, 59, 0, 0, time.UTC),
			want:     time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := newTestLoop(tt.syncHour)
			got := l.nextFiring(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("nextFiring(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestLoop_StatusTransitions(t *testing.T) {
	t.Parallel()

	l := newTestLoop(0)

	st := l.Status()
	if st.State != StateIdle {
		t.Errorf("Expected idle before start, got %s", st.State)
	}
	if st.NextRun != nil {
		t.Error("Expected no next run while idle")
	}

	l.Start(context.Background())

	st = l.Status()
	if st.State != StateArmed {
		t.Errorf("Expected armed after start, got %s", st.State)
	}
	if st.NextRun == nil {
		t.Fatal("Expected next run to be set while armed")
	}
	if !st.NextRun.After(time.Now()) {
		t.Errorf("Expected next run in the future, got %v", st.NextRun)
	}

	l.Stop()

	st = l.Status()
	if st.State != StateIdle {
		t.Errorf("Expected idle after stop, got %s", st.State)
	}
}

func TestLoop_StartIsIdempotent(t *testing.T) {
	t.Parallel()

	l := newTestLoop(0)
	l.Start(context.Background())
	defer l.Stop()

	first := l.Status().NextRun
	l.Start(context.Background())
	second := l.Status().NextRun

	if first == nil || second == nil || !first.Equal(*second) {
		t.Errorf("Expected second start to be a no-op, next run %v vs %v", first, second)
	}
}

func TestLoop_StopWhileIdleIsNoop(t *testing.T) {
	t.Parallel()

	l := newTestLoop(0)
	l.Stop() // must not panic or block

	if st := l.Status(); st.State != StateIdle {
		t.Errorf("Expected idle, got %s", st.State)
	}
}
