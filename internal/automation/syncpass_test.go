package automation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/planwise/planwise/internal/models"
)

type fakeItemStore struct {
	mu      sync.Mutex
	pending map[uuid.UUID][]*models.WorkItem
	err     error
	block   chan struct{} // when set, GetPendingByUserID waits on it
	calls   int
}

func (f *fakeItemStore) Create(_ context.Context, _ *models.WorkItem) error {
	return nil
}

func (f *fakeItemStore) GetByID(_ context.Context, _ uuid.UUID) (*models.WorkItem, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeItemStore) GetByUserID(_ context.Context, userID uuid.UUID, _ *models.WorkItemStatus) ([]*models.WorkItem, error) {
	return f.pending[userID], nil
}

func (f *fakeItemStore) GetPendingByUserID(_ context.Context, userID uuid.UUID) ([]*models.WorkItem, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.pending[userID], nil
}

func (f *fakeItemStore) Update(_ context.Context, _ *models.WorkItem) error {
	return nil
}

func (f *fakeItemStore) Delete(_ context.Context, _ uuid.UUID) error {
	return nil
}

type fakeBlockStore struct {
	mu       sync.Mutex
	created  []*models.ScheduledBlock
	existing []*models.ScheduledBlock
}

func (f *fakeBlockStore) CreateBatch(_ context.Context, blocks []*models.ScheduledBlock) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, blocks...)
	return nil
}

func (f *fakeBlockStore) GetByUserAndRange(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*models.ScheduledBlock, error) {
	return f.existing, nil
}

func (f *fakeBlockStore) Complete(_ context.Context, _, _ uuid.UUID) error {
	return nil
}

func (f *fakeBlockStore) Delete(_ context.Context, _, _ uuid.UUID) error {
	return nil
}

type fakeAgendaStore struct {
	mu       sync.Mutex
	existing *models.Agenda
	created  []*models.Agenda
}

func (f *fakeAgendaStore) Create(_ context.Context, agenda *models.Agenda) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, agenda)
	return nil
}

func (f *fakeAgendaStore) GetByUserAndDate(_ context.Context, _ uuid.UUID, _ time.Time) (*models.Agenda, error) {
	return f.existing, nil
}

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
	ids   []uuid.UUID
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (f *fakeUserStore) GetActiveIDs(_ context.Context) ([]uuid.UUID, error) {
	return f.ids, nil
}

type failingSuggester struct{}

func (failingSuggester) SuggestAgenda(_ context.Context, _ []models.WorkItem, _ time.Time) (*models.Agenda, error) {
	return nil, errors.New("provider unavailable")
}

func pendingItem(userID uuid.UUID, title string, priority models.Priority) *models.WorkItem {
	return &models.WorkItem{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    title,
		Priority: priority,
		Status:   models.WorkItemStatusPending,
	}
}

func newTestSyncer(items *fakeItemStore, blocks *fakeBlockStore, agendas *fakeAgendaStore, users *fakeUserStore) *Syncer {
	return NewSyncer(items, blocks, agendas, users, nil, zap.NewNop(), 0)
}

func TestSyncUser_SkipsWhenNoPendingItems(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	items := &fakeItemStore{pending: map[uuid.UUID][]*models.WorkItem{}}
	blocks := &fakeBlockStore{}
	agendas := &fakeAgendaStore{}
	users := &fakeUserStore{users: map[uuid.UUID]*models.User{userID: {ID: userID}}}

	s := newTestSyncer(items, blocks, agendas, users)

	if err := s.SyncUser(context.Background(), userID, nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(agendas.created) != 0 {
		t.Errorf("Expected no agenda to be created, got %d", len(agendas.created))
	}
	if len(blocks.created) != 0 {
		t.Errorf("Expected no blocks to be created, got %d", len(blocks.created))
	}
}

func TestSyncUser_CreatesFallbackAgenda(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	items := &fakeItemStore{pending: map[uuid.UUID][]*models.WorkItem{
		userID: {pendingItem(userID, "write report", models.PriorityNormal)},
	}}
	blocks := &fakeBlockStore{}
	agendas := &fakeAgendaStore{}
	users := &fakeUserStore{users: map[uuid.UUID]*models.User{userID: {ID: userID}}}

	s := newTestSyncer(items, blocks, agendas, users)

	if err := s.SyncUser(context.Background(), userID, nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(agendas.created) != 1 {
		t.Fatalf("Expected 1 agenda to be created, got %d", len(agendas.created))
	}
	agenda := agendas.created[0]
	if agenda.Source != models.AgendaSourceFallback {
		t.Errorf("Expected fallback agenda, got source %s", agenda.Source)
	}
	if agenda.UserID != userID {
		t.Errorf("Expected agenda user %s, got %s", userID, agenda.UserID)
	}
}

func TestSyncUser_ProviderErrorFallsBack(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	items := &fakeItemStore{pending: map[uuid.UUID][]*models.WorkItem{
		userID: {pendingItem(userID, "write report", models.PriorityNormal)},
	}}
	blocks := &fakeBlockStore{}
	agendas := &fakeAgendaStore{}
	users := &fakeUserStore{users: map[uuid.UUID]*models.User{userID: {ID: userID}}}

	s := NewSyncer(items, blocks, agendas, users, failingSuggester{}, zap.NewNop(), 0)

	if err := s.SyncUser(context.Background(), userID, nil); err != nil {
		t.Fatalf("Expected provider error to be absorbed, got %v", err)
	}
	if len(agendas.created) != 1 {
		t.Fatalf("Expected 1 agenda to be created, got %d", len(agendas.created))
	}
	if agendas.created[0].Source != models.AgendaSourceFallback {
		t.Errorf("Expected fallback agenda after provider error, got %s", agendas.created[0].Source)
	}
}

func TestSyncUser_ExistingAgendaNotReplaced(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	items := &fakeItemStore{pending: map[uuid.UUID][]*models.WorkItem{
		userID: {pendingItem(userID, "write report", models.PriorityUrgent)},
	}}
	blocks := &fakeBlockStore{}
	agendas := &fakeAgendaStore{existing: &models.Agenda{ID: uuid.New()}}
	users := &fakeUserStore{users: map[uuid.UUID]*models.User{userID: {ID: userID}}}

	s := newTestSyncer(items, blocks, agendas, users)

	if err := s.SyncUser(context.Background(), userID, nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(agendas.created) != 0 {
		t.Errorf("Expected existing agenda to be kept, got %d new agendas", len(agendas.created))
	}
}

func TestSyncUser_SchedulesCappedUrgentItems(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	pending := []*models.WorkItem{
		pendingItem(userID, "urgent 1", models.PriorityUrgent),
		pendingItem(userID, "urgent 2", models.PriorityUrgent),
		pendingItem(userID, "urgent 3", models.PriorityUrgent),
		pendingItem(userID, "urgent 4", models.PriorityUrgent),
		pendingItem(userID, "normal", models.PriorityNormal),
	}
	items := &fakeItemStore{pending: map[uuid.UUID][]*models.WorkItem{userID: pending}}
	blocks := &fakeBlockStore{}
	agendas := &fakeAgendaStore{}
	users := &fakeUserStore{users: map[uuid.UUID]*models.User{userID: {ID: userID}}}

	s := newTestSyncer(items, blocks, agendas, users)

	if err := s.SyncUser(context.Background(), userID, nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	taskBlocks := 0
	for _, b := range blocks.created {
		if b.Type == models.BlockTypeTask {
			taskBlocks++
			if b.WorkItemID == nil {
				t.Error("Expected task block to reference a work item")
				continue
			}
			item, found := findItem(pending, *b.WorkItemID)
			if !found {
				t.Errorf("Block references unknown item %s", *b.WorkItemID)
				continue
			}
			if item.Priority != models.PriorityUrgent {
				t.Errorf("Expected only urgent items to be scheduled, got %s", item.Priority)
			}
		}
	}
	if taskBlocks != DefaultUrgentItemsPerSync {
		t.Errorf("Expected %d task blocks, got %d", DefaultUrgentItemsPerSync, taskBlocks)
	}
}

func findItem(items []*models.WorkItem, id uuid.UUID) (*models.WorkItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return nil, false
}

func TestSyncUser_ConcurrentTriggersAreIdempotent(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	release := make(chan struct{})
	items := &fakeItemStore{
		pending: map[uuid.UUID][]*models.WorkItem{},
		block:   release,
	}
	blocks := &fakeBlockStore{}
	agendas := &fakeAgendaStore{}
	users := &fakeUserStore{users: map[uuid.UUID]*models.User{userID: {ID: userID}}}

	s := newTestSyncer(items, blocks, agendas, users)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.SyncUser(context.Background(), userID, nil)
	}()

	// Wait until the first pass holds the in-flight guard
	for {
		items.mu.Lock()
		started := items.calls > 0
		items.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// Second trigger must return immediately without touching the stores
	if err := s.SyncUser(context.Background(), userID, nil); err != nil {
		t.Fatalf("Expected concurrent trigger to be a no-op, got %v", err)
	}
	items.mu.Lock()
	calls := items.calls
	items.mu.Unlock()
	if calls != 1 {
		t.Errorf("Expected 1 store call while pass in flight, got %d", calls)
	}

	close(release)
	wg.Wait()
}

func TestSyncAll_IsolatesUserFailures(t *testing.T) {
	t.Parallel()

	goodUser := uuid.New()
	badUser := uuid.New()
	items := &fakeItemStore{pending: map[uuid.UUID][]*models.WorkItem{
		goodUser: {pendingItem(goodUser, "ok", models.PriorityNormal)},
		badUser:  {pendingItem(badUser, "boom", models.PriorityUrgent)},
	}}
	blocks := &fakeBlockStore{}
	agendas := &fakeAgendaStore{}
	// badUser is missing from the user store, so its pass fails
	users := &fakeUserStore{
		users: map[uuid.UUID]*models.User{goodUser: {ID: goodUser}},
		ids:   []uuid.UUID{badUser, goodUser},
	}

	s := newTestSyncer(items, blocks, agendas, users)

	if err := s.SyncAll(context.Background(), nil); err != nil {
		t.Fatalf("Expected pass to complete despite user failure, got %v", err)
	}

	// The good user's agenda was still created
	found := false
	for _, a := range agendas.created {
		if a.UserID == goodUser {
			found = true
		}
	}
	if !found {
		t.Error("Expected good user to be synced after bad user failed")
	}
}

func TestResolveTargetDate(t *testing.T) {
	t.Parallel()

	s := newTestSyncer(&fakeItemStore{}, &fakeBlockStore{}, &fakeAgendaStore{}, &fakeUserStore{})
	s.now = func() time.Time {
		return time.Date(2026, 3, 4, 22, 15, 0, 0, time.UTC)
	}

	got := s.resolveTargetDate(nil)
	want := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected next day midnight %v, got %v", want, got)
	}

	explicit := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	got = s.resolveTargetDate(&explicit)
	want = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected explicit date truncated to midnight %v, got %v", want, got)
	}
}
