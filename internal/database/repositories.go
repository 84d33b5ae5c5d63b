package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/planwise/planwise/internal/models"
)

// WorkItemStore defines the work item operations the handlers, scheduler and
// automation loop depend on. The interface enables mock implementations in
// tests.
type WorkItemStore interface {
	Create(ctx context.Context, item *models.WorkItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WorkItem, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, status *models.WorkItemStatus) ([]*models.WorkItem, error)
	GetPendingByUserID(ctx context.Context, userID uuid.UUID) ([]*models.WorkItem, error)
	Update(ctx context.Context, item *models.WorkItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BlockStore defines the scheduled block operations consumed by the
// automation loop and the schedule handlers.
type BlockStore interface {
	CreateBatch(ctx context.Context, blocks []*models.ScheduledBlock) error
	GetByUserAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*models.ScheduledBlock, error)
	Complete(ctx context.Context, id, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// AgendaStore defines the agenda operations consumed by the automation loop.
type AgendaStore interface {
	Create(ctx context.Context, agenda *models.Agenda) error
	GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.Agenda, error)
}

// UserStore defines the user operations consumed by the automation loop.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Ensure concrete types implement the interfaces
var (
	_ WorkItemStore = (*WorkItemRepository)(nil)
	_ BlockStore    = (*BlockRepository)(nil)
	_ AgendaStore   = (*AgendaRepository)(nil)
	_ UserStore     = (*UserRepository)(nil)
)
