package automation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/planwise/planwise/internal/database"
	"github.com/planwise/planwise/internal/models"
	"github.com/planwise/planwise/internal/scheduler"
	"github.com/planwise/planwise/internal/services/ai"
)

// DefaultUrgentItemsPerSync caps how many urgent items one sync pass will
// place onto the next day's timeline.
const DefaultUrgentItemsPerSync = 3

// Syncer runs the per-user sync pass: make sure an agenda exists for the
// target day and place the most urgent pending items into free slots.
type Syncer struct {
	items     database.WorkItemStore
	blocks    database.BlockStore
	agendas   database.AgendaStore
	users     database.UserStore
	suggester ai.AgendaSuggester // optional; nil means fallback only
	fallback  ai.AgendaSuggester
	logger    *zap.Logger

	urgentPerSync int
	now           func() time.Time

	mu       sync.Mutex
	inFlight map[uuid.UUID]bool
}

// NewSyncer creates a sync pass runner. suggester may be nil, in which case
// agendas are always built deterministically.
func NewSyncer(
	items database.WorkItemStore,
	blocks database.BlockStore,
	agendas database.AgendaStore,
	users database.UserStore,
	suggester ai.AgendaSuggester,
	logger *zap.Logger,
	urgentPerSync int,
) *Syncer {
	if urgentPerSync <= 0 {
		urgentPerSync = DefaultUrgentItemsPerSync
	}
	return &Syncer{
		items:         items,
		blocks:        blocks,
		agendas:       agendas,
		users:         users,
		suggester:     suggester,
		fallback:      ai.NewFallbackSuggester(),
		logger:        logger,
		urgentPerSync: urgentPerSync,
		now:           time.Now,
		inFlight:      make(map[uuid.UUID]bool),
	}
}

// SyncAll runs the sync pass for every active user. Per-user failures are
// logged and never abort the pass.
func (s *Syncer) SyncAll(ctx context.Context, targetDate *time.Time) error {
	userIDs, err := s.users.GetActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active users: %w", err)
	}

	s.logger.Info("sync_pass_starting", zap.Int("user_count", len(userIDs)))

	failed := 0
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.SyncUser(ctx, userID, targetDate); err != nil {
			failed++
			s.logger.Error("user_sync_failed",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("sync_pass_complete",
		zap.Int("user_count", len(userIDs)),
		zap.Int("failed", failed),
	)
	return nil
}

// SyncUser runs one sync pass for a single user. Concurrent calls for the
// same user are idempotent: while a pass is in flight, further calls return
// immediately without doing work.
func (s *Syncer) SyncUser(ctx context.Context, userID uuid.UUID, targetDate *time.Time) error {
	if !s.acquire(userID) {
		s.logger.Info("sync_already_in_flight", zap.String("user_id", userID.String()))
		return nil
	}
	defer s.release(userID)

	date := s.resolveTargetDate(targetDate)

	pending, err := s.items.GetPendingByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load pending items: %w", err)
	}
	if len(pending) == 0 {
		s.logger.Debug("sync_skipped_no_pending_items", zap.String("user_id", userID.String()))
		return nil
	}

	if err := s.ensureAgenda(ctx, userID, date, pending); err != nil {
		return err
	}

	placed, unplaced, err := s.scheduleUrgent(ctx, userID, date, pending)
	if err != nil {
		return err
	}

	s.logger.Info("user_sync_complete",
		zap.String("user_id", userID.String()),
		zap.Time("target_date", date),
		zap.Int("pending_items", len(pending)),
		zap.Int("blocks_created", placed),
		zap.Int("unscheduled", unplaced),
	)
	return nil
}

func (s *Syncer) acquire(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[userID] {
		return false
	}
	s.inFlight[userID] = true
	return true
}

func (s *Syncer) release(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, userID)
}

// resolveTargetDate returns the midnight of the day to schedule for. A nil
// target means the next calendar day.
func (s *Syncer) resolveTargetDate(targetDate *time.Time) time.Time {
	t := s.now().AddDate(0, 0, 1)
	if targetDate != nil {
		t = *targetDate
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ensureAgenda persists an agenda for the day if none exists yet. The AI
// provider is tried first when configured; any provider error falls back to
// the deterministic summary and never escapes.
func (s *Syncer) ensureAgenda(ctx context.Context, userID uuid.UUID, date time.Time, pending []*models.WorkItem) error {
	existing, err := s.agendas.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return fmt.Errorf("failed to check existing agenda: %w", err)
	}
	if existing != nil {
		return nil
	}

	items := make([]models.WorkItem, 0, len(pending))
	for _, item := range pending {
		items = append(items, *item)
	}

	var agenda *models.Agenda
	if s.suggester != nil {
		agenda, err = s.suggester.SuggestAgenda(ctx, items, date)
		if err != nil {
			s.logger.Warn("agenda_suggestion_failed",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			agenda = nil
		}
	}
	if agenda == nil {
		agenda, err = s.fallback.SuggestAgenda(ctx, items, date)
		if err != nil {
			return fmt.Errorf("failed to build fallback agenda: %w", err)
		}
	}

	agenda.UserID = userID
	if err := s.agendas.Create(ctx, agenda); err != nil {
		return fmt.Errorf("failed to persist agenda: %w", err)
	}

	s.logger.Info("agenda_created",
		zap.String("user_id", userID.String()),
		zap.Time("date", date),
		zap.String("source", string(agenda.Source)),
		zap.Int("entries", len(agenda.Entries)),
	)
	return nil
}

// scheduleUrgent places up to urgentPerSync urgent items into the day's free
// slots and persists the resulting blocks.
func (s *Syncer) scheduleUrgent(ctx context.Context, userID uuid.UUID, date time.Time, pending []*models.WorkItem) (placed, unplaced int, err error) {
	prioritized := scheduler.Prioritize(pending)

	urgent := make([]*models.WorkItem, 0, s.urgentPerSync)
	for _, item := range prioritized {
		if item.Priority != models.PriorityUrgent {
			break // prioritized order puts all urgent items first
		}
		urgent = append(urgent, item)
		if len(urgent) == s.urgentPerSync {
			break
		}
	}
	if len(urgent) == 0 {
		return 0, 0, nil
	}

	opts, err := s.optionsForUser(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	dayEnd := date.AddDate(0, 0, 1)
	existing, err := s.blocks.GetByUserAndRange(ctx, userID, date, dayEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load existing blocks: %w", err)
	}
	busy := make([]models.BusyPeriod, 0, len(existing))
	for _, b := range existing {
		busy = append(busy, models.BusyPeriod{Start: b.Start, End: b.End})
	}

	slots, err := scheduler.FreeSlotsForDay(date, opts, busy)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to compute free slots: %w", err)
	}

	result := scheduler.Schedule(userID, urgent, slots, opts)
	if len(result.Blocks) > 0 {
		if err := s.blocks.CreateBatch(ctx, result.Blocks); err != nil {
			return 0, 0, fmt.Errorf("failed to persist scheduled blocks: %w", err)
		}
	}

	return len(result.Blocks), len(result.Unscheduled), nil
}

// optionsForUser resolves schedule options from the user's personality
// preset, falling back to the documented defaults.
func (s *Syncer) optionsForUser(ctx context.Context, userID uuid.UUID) (models.ScheduleOptions, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.ScheduleOptions{}, fmt.Errorf("failed to load user: %w", err)
	}
	if user.PresetKey == "" {
		return models.DefaultScheduleOptions(), nil
	}
	preset, err := scheduler.PresetByKey(user.PresetKey)
	if err != nil {
		s.logger.Warn("unknown_preset_key",
			zap.String("user_id", userID.String()),
			zap.String("preset_key", user.PresetKey),
		)
		return models.DefaultScheduleOptions(), nil
	}
	return preset.ScheduleOptions(), nil
}
